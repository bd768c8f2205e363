package export

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"stationcal/models"
)

const productID = "-//stationcal//station bookings//EN"

// BookingUID is the stable VEVENT uid of a booking.
func BookingUID(stationID, bookingID string) string {
	return fmt.Sprintf("%s@%s.stationcal", bookingID, stationID)
}

// StationICS renders every booking of station as an all-day event.
// DTEND is exclusive, so it is the day after the booking's last day.
func StationICS(station models.Station, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, b := range station.Bookings {
		if !b.Dates().Valid() {
			continue
		}
		ev := cal.AddEvent(BookingUID(station.ID, b.ID))
		ev.SetDtStampTime(now.UTC())
		ev.SetAllDayStartAt(b.StartDate.In(time.UTC))
		ev.SetAllDayEndAt(b.EndDate.AddDays(1).In(time.UTC))
		ev.SetSummary(summary(b))
		ev.SetLocation(station.Name)
	}
	return cal.Serialize()
}

func summary(b models.Booking) string {
	if b.CustomerName == "" {
		return "Booking " + b.ID
	}
	return b.CustomerName
}
