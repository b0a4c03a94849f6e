package handlers

import (
	"errors"
	"net/http"

	"servihub/middleware"
	"servihub/models"
	"servihub/services/booking"
	"servihub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking core over HTTP.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// respondBookingError maps the booking error taxonomy onto HTTP statuses.
func respondBookingError(c *gin.Context, err error) {
	var (
		notFound *booking.NotFoundError
		conflict *booking.ConflictError
		policy   *booking.PolicyViolationError
		invalid  *booking.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		utils.JSONError(c, http.StatusNotFound, "Not found", err.Error())
	case errors.As(err, &conflict):
		utils.JSONError(c, http.StatusConflict, "Conflict", err.Error())
	case errors.As(err, &policy):
		utils.JSONError(c, http.StatusUnprocessableEntity, "Policy violation", err.Error())
	case errors.As(err, &invalid):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", "An unexpected error occurred")
	}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input models.BookingRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	customerID := c.GetString(middleware.CtxActorID)

	b, err := h.Service.CreateBooking(c.Request.Context(), customerID, input)
	if err != nil {
		var conflict *booking.ConflictError
		if errors.As(err, &conflict) {
			// Retryable by the caller against a different slot.
			c.JSON(http.StatusConflict, models.BookingResponse{
				Success: false,
				Message: "Slot already taken, please pick another slot",
			})
			return
		}
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.BookingResponse{
		Success:   true,
		Message:   "Booking created",
		BookingID: b.ID,
	})
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Service.GetBooking(c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListMyBookings handles GET /api/bookings for the authenticated customer.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	customerID := c.GetString(middleware.CtxActorID)
	bookings, err := h.Service.ListCustomerBookings(customerID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListProviderBookings handles GET /api/provider/bookings?date=YYYY-MM-DD.
func (h *BookingHandler) ListProviderBookings(c *gin.Context) {
	providerID := c.GetString(middleware.CtxActorID)
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}
	bookings, err := h.Service.ListProviderBookings(providerID, date)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// TransitionBooking handles POST /api/bookings/:id/transition.
func (h *BookingHandler) TransitionBooking(c *gin.Context) {
	var input struct {
		Target models.BookingStatus `json:"target" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Service.Transition(c.Request.Context(), c.Param("id"), input.Target)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// AttachTransaction handles POST /api/bookings/:id/payment.
func (h *BookingHandler) AttachTransaction(c *gin.Context) {
	var input struct {
		TransactionID string `json:"transactionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Service.AttachTransaction(c.Request.Context(), c.Param("id"), input.TransactionID); err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.BookingResponse{Success: true, Message: "Payment recorded"})
}

// RefundBooking handles POST /api/bookings/:id/refund.
func (h *BookingHandler) RefundBooking(c *gin.Context) {
	if err := h.Service.Refund(c.Request.Context(), c.Param("id")); err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.BookingResponse{Success: true, Message: "Refund recorded"})
}

// CancelBooking handles POST /api/bookings/:id/cancel. The actor role
// decides whether the cancellation window applies.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var input models.CancelRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	actor := models.ActorCustomer
	if c.GetString(middleware.CtxActorRole) == "provider" {
		actor = models.ActorProvider
	}

	if err := h.Service.Cancel(c.Request.Context(), c.Param("id"), actor, input.Reason); err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.BookingResponse{Success: true, Message: "Booking cancelled"})
}

// PriceBreakup handles POST /api/pricing/breakup.
func (h *BookingHandler) PriceBreakup(c *gin.Context) {
	var input []models.ServiceSelectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	selections := make([]models.ServiceSelection, 0, len(input))
	for _, s := range input {
		selections = append(selections, models.ServiceSelection{ServiceID: s.ID, SubServiceIDs: s.SelectedIDs})
	}

	breakup, err := h.Service.PriceBreakup(selections)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakup)
}
