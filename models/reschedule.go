package models

import (
	"time"

	"cloud.google.com/go/civil"
)

// Drag transport keys. These are the only values carried between drag-start and drop.
const (
	DragKeyBookingID = "bookingId"
	DragKeyStartDate = "startDate"
	DragKeyEndDate   = "endDate"
)

// DragPayload is the ephemeral value captured when a booking tile is picked up.
type DragPayload struct {
	BookingID string     `json:"bookingId"`
	StartDate civil.Date `json:"startDate"`
	EndDate   civil.Date `json:"endDate"`
}

// RescheduleIntent is the validated result of a completed drag gesture.
type RescheduleIntent struct {
	BookingID    string     `json:"bookingId"`
	OldStartDate civil.Date `json:"oldStartDate"`
	OldEndDate   civil.Date `json:"oldEndDate"`
	NewStartDate civil.Date `json:"newStartDate"`
	NewEndDate   civil.Date `json:"newEndDate"`
}

// OldDates returns the range the booking was dragged from.
func (i RescheduleIntent) OldDates() DateRange {
	return DateRange{StartDate: i.OldStartDate, EndDate: i.OldEndDate}
}

// NewDates returns the target range of the intent.
func (i RescheduleIntent) NewDates() DateRange {
	return DateRange{StartDate: i.NewStartDate, EndDate: i.NewEndDate}
}

// RescheduleEvent records a successful reschedule for auditing and notifications.
type RescheduleEvent struct {
	StationID     string    `json:"stationId" bson:"stationId"`
	BookingID     string    `json:"bookingId" bson:"bookingId"`
	CustomerName  string    `json:"customerName,omitempty" bson:"customerName,omitempty"`
	OldStartDate  string    `json:"oldStartDate,omitempty" bson:"oldStartDate,omitempty"`
	OldEndDate    string    `json:"oldEndDate,omitempty" bson:"oldEndDate,omitempty"`
	NewStartDate  string    `json:"newStartDate" bson:"newStartDate"`
	NewEndDate    string    `json:"newEndDate" bson:"newEndDate"`
	RescheduledAt time.Time `json:"rescheduledAt" bson:"rescheduledAt"`
}
