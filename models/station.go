package models

// Station is a rental station and the bookings it currently owns.
// Booking IDs are unique within a station.
type Station struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Bookings []Booking `json:"bookings"`
}

// Clone returns a copy that shares no slice memory with s.
func (s Station) Clone() Station {
	out := s
	if s.Bookings != nil {
		out.Bookings = make([]Booking, len(s.Bookings))
		copy(out.Bookings, s.Bookings)
	}
	return out
}

// BookingIndex returns the position of bookingID in s.Bookings, or -1.
func (s Station) BookingIndex(bookingID string) int {
	for i, b := range s.Bookings {
		if b.ID == bookingID {
			return i
		}
	}
	return -1
}

// CloneStations deep-copies a station list.
func CloneStations(in []Station) []Station {
	if in == nil {
		return nil
	}
	out := make([]Station, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
