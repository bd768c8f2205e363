package stationRepo

import (
	"fmt"

	"stationcal/models"
	"stationcal/utils"
)

// Stored dates are plain "YYYY-MM-DD" strings so they sort and compare as days.
type bookingDoc struct {
	ID           string `bson:"id"`
	CustomerName string `bson:"customerName"`
	StartDate    string `bson:"startDate"`
	EndDate      string `bson:"endDate"`
}

type stationDoc struct {
	ID       string       `bson:"id"`
	Name     string       `bson:"name"`
	Bookings []bookingDoc `bson:"bookings"`
}

func bookingToDoc(b models.Booking) bookingDoc {
	return bookingDoc{
		ID:           b.ID,
		CustomerName: b.CustomerName,
		StartDate:    utils.FormatCalendarDate(b.StartDate),
		EndDate:      utils.FormatCalendarDate(b.EndDate),
	}
}

func stationToDoc(s models.Station) stationDoc {
	doc := stationDoc{ID: s.ID, Name: s.Name, Bookings: make([]bookingDoc, 0, len(s.Bookings))}
	for _, b := range s.Bookings {
		doc.Bookings = append(doc.Bookings, bookingToDoc(b))
	}
	return doc
}

func (d bookingDoc) toModel() (models.Booking, error) {
	start, err := utils.ParseCalendarDate(d.StartDate)
	if err != nil {
		return models.Booking{}, fmt.Errorf("booking %s: startDate: %w", d.ID, err)
	}
	end, err := utils.ParseCalendarDate(d.EndDate)
	if err != nil {
		return models.Booking{}, fmt.Errorf("booking %s: endDate: %w", d.ID, err)
	}
	return models.Booking{ID: d.ID, CustomerName: d.CustomerName, StartDate: start, EndDate: end}, nil
}

func (d stationDoc) toModel() (models.Station, error) {
	s := models.Station{ID: d.ID, Name: d.Name, Bookings: make([]models.Booking, 0, len(d.Bookings))}
	for _, bd := range d.Bookings {
		b, err := bd.toModel()
		if err != nil {
			return models.Station{}, fmt.Errorf("station %s: %w", d.ID, err)
		}
		s.Bookings = append(s.Bookings, b)
	}
	return s, nil
}
