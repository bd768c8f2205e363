package calendar

import (
	"time"

	"cloud.google.com/go/civil"
)

// DaysPerWeek is the fixed length of a display window.
const DaysPerWeek = 7

// WeekWindow is the Monday-to-Sunday week containing Anchor. It is derived, never stored.
type WeekWindow struct {
	Anchor civil.Date              `json:"anchor"`
	Days   [DaysPerWeek]civil.Date `json:"days"`
}

// ComputeWeek returns the Monday-first week that contains anchor.
func ComputeWeek(anchor civil.Date) WeekWindow {
	// civil dates carry no zone, so UTC only provides the weekday.
	offset := (int(anchor.In(time.UTC).Weekday()) + 6) % DaysPerWeek
	monday := anchor.AddDays(-offset)

	w := WeekWindow{Anchor: anchor}
	for i := range w.Days {
		w.Days[i] = monday.AddDays(i)
	}
	return w
}

// NextWeek shifts anchor forward by seven calendar days.
func NextWeek(anchor civil.Date) civil.Date {
	return anchor.AddDays(DaysPerWeek)
}

// PreviousWeek shifts anchor back by seven calendar days.
func PreviousWeek(anchor civil.Date) civil.Date {
	return anchor.AddDays(-DaysPerWeek)
}

// Start is the Monday of the window.
func (w WeekWindow) Start() civil.Date { return w.Days[0] }

// End is the Sunday of the window.
func (w WeekWindow) End() civil.Date { return w.Days[DaysPerWeek-1] }

// Contains reports whether d is one of the window's days.
func (w WeekWindow) Contains(d civil.Date) bool {
	return !d.Before(w.Start()) && !d.After(w.End())
}
