package models

import "time"

// Schedule holds a provider's bookable availability for one calendar month.
// One schedule exists per (provider, month); it is never physically deleted,
// only soft-flagged.
type Schedule struct {
	ID         string        `bson:"id" json:"id"`
	ProviderID string        `bson:"provider_id" json:"providerId"`
	Month      string        `bson:"month" json:"month"` // "YYYY-MM"
	Days       []ScheduleDay `bson:"days" json:"days"`
	Deleted    bool          `bson:"deleted" json:"deleted"`
	CreatedAt  time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time     `bson:"updated_at" json:"updatedAt"`
}

// ScheduleDay groups the slots offered on a single calendar date.
type ScheduleDay struct {
	ID       string `bson:"id" json:"id"`
	Date     string `bson:"date" json:"date"` // "YYYY-MM-DD"
	IsActive bool   `bson:"is_active" json:"isActive"`
	Slots    []Slot `bson:"slots" json:"slots"`
}

// Slot is a fixed time window within a day. An empty TakenBy means the slot
// is free; otherwise it holds the claiming customer's id.
type Slot struct {
	ID       string `bson:"id" json:"id"`
	From     string `bson:"from" json:"from"` // "HH:MM"
	To       string `bson:"to" json:"to"`     // "HH:MM"
	TakenBy  string `bson:"taken_by" json:"takenBy,omitempty"`
	IsActive bool   `bson:"is_active" json:"isActive"`
}

// SlotRecord is the claim authority for a single slot: one document per
// (scheduleId, dayId, slotId), claimed with a conditional update so that at
// most one customer wins under concurrent demand. The nested Schedule.Days
// view mirrors these records for reads.
type SlotRecord struct {
	ScheduleID string     `bson:"schedule_id" json:"scheduleId"`
	ProviderID string     `bson:"provider_id" json:"providerId"`
	Month      string     `bson:"month" json:"month"`
	DayID      string     `bson:"day_id" json:"dayId"`
	SlotID     string     `bson:"slot_id" json:"slotId"`
	Date       string     `bson:"date" json:"date"`
	From       string     `bson:"from" json:"from"`
	To         string     `bson:"to" json:"to"`
	TakenBy    string     `bson:"taken_by" json:"takenBy,omitempty"`
	TakenAt    *time.Time `bson:"taken_at,omitempty" json:"takenAt,omitempty"`
	IsActive   bool       `bson:"is_active" json:"isActive"`
}

// SlotRef identifies the exact slot a booking claimed.
type SlotRef struct {
	ScheduleID string `bson:"schedule_id" json:"scheduleId" binding:"required"`
	Month      string `bson:"month" json:"month" binding:"required"`
	DayID      string `bson:"day_id" json:"dayId" binding:"required"`
	SlotID     string `bson:"slot_id" json:"slotId" binding:"required"`
}
