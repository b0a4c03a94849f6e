package models

import "testing"

func TestBookingStatusValid(t *testing.T) {
	for _, s := range []BookingStatus{
		BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled,
	} {
		if !s.Valid() {
			t.Errorf("%s.Valid() = false", s)
		}
	}
	if BookingStatus("SHIPPED").Valid() {
		t.Error(`BookingStatus("SHIPPED").Valid() = true`)
	}
	if BookingStatus("").Valid() {
		t.Error(`empty BookingStatus.Valid() = true`)
	}
}

func TestBookingStatusTransitions(t *testing.T) {
	allowed := map[[2]BookingStatus]bool{
		{BookingPending, BookingConfirmed}:    true,
		{BookingPending, BookingCancelled}:    true,
		{BookingConfirmed, BookingInProgress}: true,
		{BookingConfirmed, BookingCancelled}:  true,
		{BookingInProgress, BookingCompleted}: true,
		{BookingInProgress, BookingCancelled}: true,
	}

	statuses := []BookingStatus{
		BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled,
	}
	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]BookingStatus{from, to}]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s.CanTransitionTo(%s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

// COMPLETED and CANCELLED are terminal.
func TestTerminalStatuses(t *testing.T) {
	statuses := []BookingStatus{
		BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled,
	}
	for _, terminal := range []BookingStatus{BookingCompleted, BookingCancelled} {
		for _, to := range statuses {
			if terminal.CanTransitionTo(to) {
				t.Errorf("%s.CanTransitionTo(%s) = true, want terminal", terminal, to)
			}
		}
	}
}
