package calendar

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"stationcal/models"
	"stationcal/utils"
)

// ErrMsgFetchStations is the user-facing message stored when a station fetch fails.
const ErrMsgFetchStations = "Failed to fetch stations"

// StationSource fetches the station list, optionally narrowed by a search query.
type StationSource interface {
	GetStations(ctx context.Context, query string) ([]models.Station, error)
}

// FetchError reports a failed station fetch. The previous list is kept.
type FetchError struct {
	Query string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch stations (query %q): %v", e.Query, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// State is a point-in-time copy of the calendar/station slice.
type State struct {
	Anchor          civil.Date       `json:"anchor"`
	Week            WeekWindow       `json:"week"`
	Stations        []models.Station `json:"stations"`
	Filter          string           `json:"filter"`
	SelectedStation *models.Station  `json:"selectedStation"`
	Loading         bool             `json:"isLoading"`
	Error           string           `json:"error,omitempty"`
}

// Store owns the displayed week anchor, the fetched stations and the selection.
// All readers receive copies; the station list is only replaced by a fetch
// or patched by UpdateBookingDates.
type Store struct {
	mu     sync.RWMutex
	source StationSource
	logger *zap.Logger
	now    func() time.Time

	anchor    civil.Date
	stations  []models.Station
	selected  *models.Station
	filter    string
	lastQuery string
	loading   bool
	err       string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the store logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates a store anchored on today.
func NewStore(source StationSource, opts ...Option) *Store {
	s := &Store{
		source:   source,
		logger:   zap.NewNop(),
		now:      time.Now,
		stations: []models.Station{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.anchor = utils.Today(s.now)
	return s
}

// Anchor returns the date the displayed week is derived from.
func (s *Store) Anchor() civil.Date {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.anchor
}

// SetAnchor moves the calendar to the week containing d.
func (s *Store) SetAnchor(d civil.Date) {
	s.mu.Lock()
	s.anchor = d
	s.mu.Unlock()
}

// GoToNextWeek advances the anchor by one week and returns the new window.
func (s *Store) GoToNextWeek() WeekWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anchor = NextWeek(s.anchor)
	return ComputeWeek(s.anchor)
}

// GoToPreviousWeek moves the anchor back by one week and returns the new window.
func (s *Store) GoToPreviousWeek() WeekWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anchor = PreviousWeek(s.anchor)
	return ComputeWeek(s.anchor)
}

// GoToToday re-anchors the calendar on the current date.
func (s *Store) GoToToday() WeekWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anchor = utils.Today(s.now)
	return ComputeWeek(s.anchor)
}

// Week recomputes the display window from the current anchor.
func (s *Store) Week() WeekWindow {
	return ComputeWeek(s.Anchor())
}

// FetchStations replaces the station list with the result of source.GetStations.
// On failure the previous list is kept and the fixed message is stored.
func (s *Store) FetchStations(ctx context.Context, query string) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.lastQuery = query
	s.mu.Unlock()

	stations, err := s.source.GetStations(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = ErrMsgFetchStations
		s.logger.Error("FetchStations: station fetch failed", zap.String("query", query), zap.Error(err))
		return &FetchError{Query: query, Err: err}
	}
	if stations == nil {
		stations = []models.Station{}
	}
	s.stations = models.CloneStations(stations)
	s.logger.Debug("FetchStations: stations replaced", zap.String("query", query), zap.Int("count", len(stations)))
	return nil
}

// Refresh repeats the most recent fetch.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.RLock()
	q := s.lastQuery
	s.mu.RUnlock()
	return s.FetchStations(ctx, q)
}

// Stations returns a copy of the fetched list.
func (s *Store) Stations() []models.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneStations(s.stations)
}

// SetFilter sets the local name filter.
func (s *Store) SetFilter(filter string) {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
}

// Filter returns the local name filter.
func (s *Store) Filter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// FilteredStations narrows the fetched list by a case-insensitive substring match on name.
func (s *Store) FilteredStations() []models.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterStations(s.stations, s.filter)
}

func filterStations(stations []models.Station, filter string) []models.Station {
	needle := strings.ToLower(strings.TrimSpace(filter))
	out := make([]models.Station, 0, len(stations))
	for _, st := range stations {
		if needle == "" || strings.Contains(strings.ToLower(st.Name), needle) {
			out = append(out, st.Clone())
		}
	}
	return out
}

// Select makes station the active one. The store keeps its own copy.
func (s *Store) Select(station models.Station) {
	c := station.Clone()
	s.mu.Lock()
	s.selected = &c
	s.mu.Unlock()
}

// SelectByID selects a station from the fetched list.
func (s *Store) SelectByID(stationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.stations {
		if st.ID == stationID {
			c := st.Clone()
			s.selected = &c
			return true
		}
	}
	return false
}

// Clear drops the active selection.
func (s *Store) Clear() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// Selected returns the active station, if any.
func (s *Store) Selected() (models.Station, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return models.Station{}, false
	}
	return s.selected.Clone(), true
}

// Station looks a station up in the fetched list, falling back to the selection.
func (s *Store) Station(stationID string) (models.Station, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.stations {
		if st.ID == stationID {
			return st.Clone(), true
		}
	}
	if s.selected != nil && s.selected.ID == stationID {
		return s.selected.Clone(), true
	}
	return models.Station{}, false
}

// UpdateBookingDates patches one booking's range in place, matched by id.
// Unknown station or booking ids leave the state untouched.
// Its signature matches booking.CalendarUpdater.
func (s *Store) UpdateBookingDates(stationID, bookingID string, dates models.DateRange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patched := false
	for i := range s.stations {
		if s.stations[i].ID != stationID {
			continue
		}
		if j := s.stations[i].BookingIndex(bookingID); j >= 0 {
			s.stations[i].Bookings[j].StartDate = dates.StartDate
			s.stations[i].Bookings[j].EndDate = dates.EndDate
			patched = true
		}
		break
	}
	if s.selected != nil && s.selected.ID == stationID {
		if j := s.selected.BookingIndex(bookingID); j >= 0 {
			s.selected.Bookings[j].StartDate = dates.StartDate
			s.selected.Bookings[j].EndDate = dates.EndDate
			patched = true
		}
	}

	if !patched {
		s.logger.Debug("UpdateBookingDates: no matching booking",
			zap.String("stationID", stationID), zap.String("bookingID", bookingID))
	}
}

// Loading reports whether a station fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the last fetch error message, or "".
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Snapshot returns the whole slice with the filter applied to the station list.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		Anchor:   s.anchor,
		Week:     ComputeWeek(s.anchor),
		Stations: filterStations(s.stations, s.filter),
		Filter:   s.filter,
		Loading:  s.loading,
		Error:    s.err,
	}
	if s.selected != nil {
		c := s.selected.Clone()
		st.SelectedStation = &c
	}
	return st
}
