package models

// BookingRequestInput is the wire shape for creating a booking.
type BookingRequestInput struct {
	ProviderID    string                  `json:"providerId" binding:"required"`
	SlotData      SlotRef                 `json:"slotData" binding:"required"`
	Location      Location                `json:"location" binding:"required"`
	ServiceIDs    []ServiceSelectionInput `json:"serviceIds" binding:"required"`
	Total         float64                 `json:"total"`
	TransactionID string                  `json:"transactionId,omitempty"`
}

// ServiceSelectionInput mirrors the client payload for selected services.
type ServiceSelectionInput struct {
	ID          string   `json:"id" binding:"required"`
	SelectedIDs []string `json:"selectedIds"`
}

// Selections converts the wire shape to the domain selection list.
func (in BookingRequestInput) Selections() []ServiceSelection {
	out := make([]ServiceSelection, 0, len(in.ServiceIDs))
	for _, s := range in.ServiceIDs {
		out = append(out, ServiceSelection{ServiceID: s.ID, SubServiceIDs: s.SelectedIDs})
	}
	return out
}

// BookingResponse is the minimal create/cancel acknowledgement.
type BookingResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	BookingID string `json:"bookingId,omitempty"`
}

// CancelRequestInput is the wire shape for a cancellation.
type CancelRequestInput struct {
	Reason string `json:"reason" binding:"required"`
}

// PriceBreakup is the computed price breakdown for a selection.
type PriceBreakup struct {
	SubTotal    float64 `json:"subTotal"`
	Tax         float64 `json:"tax"`
	VisitingFee float64 `json:"visitingFee"`
	Total       float64 `json:"total"`
}

// SubmitScheduleInput is the wire shape for a provider's availability
// submission for one month.
type SubmitScheduleInput struct {
	Month string             `json:"month" binding:"required"` // "YYYY-MM"
	Days  []ScheduleDayInput `json:"days" binding:"required"`
}

// ScheduleDayInput is one day of submitted availability.
type ScheduleDayInput struct {
	Date  string      `json:"date" binding:"required"` // "YYYY-MM-DD"
	Slots []SlotInput `json:"slots" binding:"required"`
}

// SlotInput is one submitted time window.
type SlotInput struct {
	From string `json:"from" binding:"required"` // "HH:MM"
	To   string `json:"to" binding:"required"`   // "HH:MM"
}
