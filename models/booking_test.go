package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionBooking(t *testing.T) {
	statuses := []string{BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled}
	allowed := map[[2]string]bool{
		{BookingPending, BookingConfirmed}:   true,
		{BookingPending, BookingCancelled}:   true,
		{BookingConfirmed, BookingCompleted}: true,
		{BookingConfirmed, BookingCancelled}: true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]string{from, to}]
			assert.Equal(t, want, CanTransitionBooking(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionBookingUnknownStatus(t *testing.T) {
	assert.False(t, CanTransitionBooking(BookingPending, "Shipped"))
	assert.False(t, CanTransitionBooking("Shipped", BookingCancelled))
	assert.False(t, CanTransitionBooking(BookingPending, "pending"), "status names are case-sensitive")
}

func TestBookingIsRated(t *testing.T) {
	b := Booking{}
	assert.False(t, b.IsRated())

	b.Rating = 4
	assert.True(t, b.IsRated())
}

func TestIsValidComplaintStatus(t *testing.T) {
	for _, s := range []string{ComplaintPending, ComplaintInProgress, ComplaintResolved, ComplaintDismissed} {
		assert.True(t, IsValidComplaintStatus(s), s)
	}
	assert.False(t, IsValidComplaintStatus("Closed"))
}
