package export

import (
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationcal/models"
)

func TestStationICS(t *testing.T) {
	st := models.Station{
		ID:   "s1",
		Name: "Berlin",
		Bookings: []models.Booking{
			{ID: "b1", CustomerName: "Ada", StartDate: civil.Date{Year: 2024, Month: time.March, Day: 20}, EndDate: civil.Date{Year: 2024, Month: time.March, Day: 22}},
			{ID: "b2", StartDate: civil.Date{Year: 2024, Month: time.March, Day: 31}, EndDate: civil.Date{Year: 2024, Month: time.March, Day: 31}},
			{ID: "bad", StartDate: civil.Date{Year: 2024, Month: time.March, Day: 5}, EndDate: civil.Date{Year: 2024, Month: time.March, Day: 1}},
		},
	}

	out := StationICS(st, time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC))

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "b1@s1.stationcal", first.Id())
	assert.Equal(t, "Ada", first.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Equal(t, "20240320", first.GetProperty(ical.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20240323", first.GetProperty(ical.ComponentPropertyDtEnd).Value)

	second := events[1]
	assert.Equal(t, "Booking b2", second.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Equal(t, "20240331", second.GetProperty(ical.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20240401", second.GetProperty(ical.ComponentPropertyDtEnd).Value)
}

func TestStationICSEmpty(t *testing.T) {
	out := StationICS(models.Station{ID: "s1"}, time.Now())
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}
