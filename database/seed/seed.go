package seed

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"stationcal/models"
	"stationcal/utils"
)

type bookingFixture struct {
	ID           string `yaml:"id"`
	CustomerName string `yaml:"customerName"`
	StartDate    string `yaml:"startDate"`
	EndDate      string `yaml:"endDate"`
}

type stationFixture struct {
	ID       string           `yaml:"id"`
	Name     string           `yaml:"name"`
	Bookings []bookingFixture `yaml:"bookings"`
}

type fixtureFile struct {
	Stations []stationFixture `yaml:"stations"`
}

// LoadStations decodes a YAML fixture of stations and validates it.
// Station ids must be unique, booking ids unique per station and every range ordered.
func LoadStations(r io.Reader) ([]models.Station, error) {
	var f fixtureFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return []models.Station{}, nil
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	stations := make([]models.Station, 0, len(f.Stations))
	seen := make(map[string]bool, len(f.Stations))
	for _, sf := range f.Stations {
		if sf.ID == "" {
			return nil, fmt.Errorf("station %q: missing id", sf.Name)
		}
		if seen[sf.ID] {
			return nil, fmt.Errorf("station %s: duplicate id", sf.ID)
		}
		seen[sf.ID] = true

		st := models.Station{ID: sf.ID, Name: sf.Name, Bookings: make([]models.Booking, 0, len(sf.Bookings))}
		for _, bf := range sf.Bookings {
			b, err := bf.toModel()
			if err != nil {
				return nil, fmt.Errorf("station %s: %w", sf.ID, err)
			}
			if st.BookingIndex(b.ID) >= 0 {
				return nil, fmt.Errorf("station %s: duplicate booking id %s", sf.ID, b.ID)
			}
			st.Bookings = append(st.Bookings, b)
		}
		stations = append(stations, st)
	}
	return stations, nil
}

func (bf bookingFixture) toModel() (models.Booking, error) {
	if bf.ID == "" {
		return models.Booking{}, errors.New("booking without id")
	}
	start, err := utils.ParseCalendarDate(bf.StartDate)
	if err != nil {
		return models.Booking{}, fmt.Errorf("booking %s startDate: %w", bf.ID, err)
	}
	end, err := utils.ParseCalendarDate(bf.EndDate)
	if err != nil {
		return models.Booking{}, fmt.Errorf("booking %s endDate: %w", bf.ID, err)
	}
	b := models.Booking{ID: bf.ID, CustomerName: bf.CustomerName, StartDate: start, EndDate: end}
	if !b.Dates().Valid() {
		return models.Booking{}, fmt.Errorf("booking %s: end date before start date", bf.ID)
	}
	return b, nil
}
