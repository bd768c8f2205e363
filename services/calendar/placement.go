package calendar

import (
	"cloud.google.com/go/civil"

	"stationcal/models"
)

// Role tells a day tile which boundary of a booking it shows.
type Role string

const (
	RoleStart Role = "start"
	RoleEnd   Role = "end"
)

// Placement is one booking marker on a day tile.
type Placement struct {
	Booking models.Booking `json:"booking"`
	Role    Role           `json:"role"`
}

// DayPlacements groups the markers of a single day.
type DayPlacements struct {
	Day        civil.Date  `json:"day"`
	Placements []Placement `json:"placements"`
}

// PlacementsForDay returns the bookings that render on day, in input order.
// Only boundary days render: the start day as RoleStart, the end day as RoleEnd.
// A single-day booking renders once, as RoleStart.
func PlacementsForDay(day civil.Date, bookings []models.Booking) []Placement {
	out := make([]Placement, 0)
	for _, b := range bookings {
		switch day {
		case b.StartDate:
			out = append(out, Placement{Booking: b, Role: RoleStart})
		case b.EndDate:
			out = append(out, Placement{Booking: b, Role: RoleEnd})
		}
	}
	return out
}

// WeekPlacements runs PlacementsForDay for every day of w.
func WeekPlacements(w WeekWindow, bookings []models.Booking) []DayPlacements {
	out := make([]DayPlacements, 0, DaysPerWeek)
	for _, d := range w.Days {
		out = append(out, DayPlacements{Day: d, Placements: PlacementsForDay(d, bookings)})
	}
	return out
}
