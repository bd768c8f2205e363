package stationRepo

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"stationcal/models"
)

func TestStationDocumentDates(t *testing.T) {
	s := models.Station{
		ID:   "s1",
		Name: "Berlin",
		Bookings: []models.Booking{{
			ID:           "b1",
			CustomerName: "Ada",
			StartDate:    civil.Date{Year: 2024, Month: time.March, Day: 20},
			EndDate:      civil.Date{Year: 2024, Month: time.March, Day: 22},
		}},
	}

	doc := stationToDoc(s)
	assert.Equal(t, "2024-03-20", doc.Bookings[0].StartDate)
	assert.Equal(t, "2024-03-22", doc.Bookings[0].EndDate)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var back stationDoc
	require.NoError(t, bson.Unmarshal(raw, &back))

	got, err := back.toModel()
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestStationDocumentRejectsBadDate(t *testing.T) {
	doc := stationDoc{ID: "s1", Bookings: []bookingDoc{{ID: "b1", StartDate: "2024-03-20", EndDate: "later"}}}
	_, err := doc.toModel()
	assert.Error(t, err)
}

func TestNameFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, nameFilter(""))
	assert.Equal(t,
		bson.M{"name": bson.M{"$regex": `a\.b`, "$options": "i"}},
		nameFilter("a.b"))
}
