package models

import "cloud.google.com/go/civil"

// Booking is one customer reservation held by a rental station.
type Booking struct {
	ID           string     `json:"id"`
	CustomerName string     `json:"customerName"`
	StartDate    civil.Date `json:"startDate"`
	EndDate      civil.Date `json:"endDate"`
}

// Dates returns the booking's date range.
func (b Booking) Dates() DateRange {
	return DateRange{StartDate: b.StartDate, EndDate: b.EndDate}
}

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	StartDate civil.Date `json:"startDate"`
	EndDate   civil.Date `json:"endDate"`
}

// Valid reports whether both ends are real dates and start <= end.
func (r DateRange) Valid() bool {
	return r.StartDate.IsValid() && r.EndDate.IsValid() && !r.EndDate.Before(r.StartDate)
}

// SpanDays is end - start in whole days (0 for a single-day range).
func (r DateRange) SpanDays() int {
	return r.EndDate.DaysSince(r.StartDate)
}
