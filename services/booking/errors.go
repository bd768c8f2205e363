package booking

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned for a reschedule whose end date precedes its start date.
var ErrInvalidRange = errors.New("invalid date range: end date is before start date")

const (
	ErrMsgFetchBooking = "Failed to fetch booking details"
	ErrMsgReschedule   = "Failed to reschedule booking"
)

// FetchError reports a failed booking detail fetch.
type FetchError struct {
	StationID string
	BookingID string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch booking %s/%s: %v", e.StationID, e.BookingID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RescheduleError reports a rejected or failed remote update. Local state was not touched.
type RescheduleError struct {
	StationID string
	BookingID string
	Err       error
}

func (e *RescheduleError) Error() string {
	return fmt.Sprintf("reschedule booking %s/%s: %v", e.StationID, e.BookingID, e.Err)
}

func (e *RescheduleError) Unwrap() error { return e.Err }
