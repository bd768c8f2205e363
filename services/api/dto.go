package api

import (
	"fmt"
	"regexp"

	"stationcal/models"
	"stationcal/utils"
)

// placeholderName matches template rows such as "station-name{{i}}" left in the mock data.
var placeholderName = regexp.MustCompile(`^station-name\{\{.*\}\}$`)

type bookingDTO struct {
	ID           string `json:"id"`
	CustomerName string `json:"customerName"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
}

type stationDTO struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Bookings []bookingDTO `json:"bookings"`
}

func (d bookingDTO) toModel() (models.Booking, error) {
	start, err := utils.ParseCalendarDate(d.StartDate)
	if err != nil {
		return models.Booking{}, fmt.Errorf("booking %s startDate: %w", d.ID, err)
	}
	end, err := utils.ParseCalendarDate(d.EndDate)
	if err != nil {
		return models.Booking{}, fmt.Errorf("booking %s endDate: %w", d.ID, err)
	}
	return models.Booking{ID: d.ID, CustomerName: d.CustomerName, StartDate: start, EndDate: end}, nil
}

// IsPlaceholder reports whether name is a template row rather than a real station.
func IsPlaceholder(name string) bool {
	return placeholderName.MatchString(name)
}
