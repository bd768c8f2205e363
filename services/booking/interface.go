package booking

import (
	"context"

	"stationcal/models"
)

// BookingClient is the remote side of the booking detail screen.
type BookingClient interface {
	GetBooking(ctx context.Context, stationID, bookingID string) (models.Booking, error)
	UpdateBooking(ctx context.Context, stationID, bookingID string, dates models.DateRange) (models.Booking, error)
}

// CalendarUpdater patches the station list after a successful reschedule.
// It is injected per call so this package never imports the calendar state.
type CalendarUpdater func(stationID, bookingID string, dates models.DateRange)

// Notifier is told about every committed reschedule.
type Notifier interface {
	BookingRescheduled(ctx context.Context, event models.RescheduleEvent) error
}
