package booking

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"stationcal/models"
	"stationcal/utils"
)

// State is a copy of the booking detail slice.
type State struct {
	StationID      string          `json:"stationId"`
	BookingID      string          `json:"bookingId"`
	CurrentBooking *models.Booking `json:"currentBooking"`
	Loading        bool            `json:"isLoading"`
	Error          string          `json:"error,omitempty"`
}

// Store owns the booking detail slice. It is fetched by id pair and never
// aliases the station list held by the calendar.
type Store struct {
	mu       sync.RWMutex
	client   BookingClient
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time

	stationID string
	bookingID string
	current   *models.Booking
	loading   bool
	err       string
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier attaches a notifier that is told about committed reschedules.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithLogger sets the store logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock overrides the clock stamped on reschedule events.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// RescheduleOption adjusts a single Reschedule call.
type RescheduleOption func(*rescheduleOptions)

type rescheduleOptions struct {
	previous *models.DateRange
}

// WithPreviousDates supplies the range the booking is moved from. It takes
// precedence over the range held in the detail slice.
func WithPreviousDates(dates models.DateRange) RescheduleOption {
	return func(o *rescheduleOptions) { o.previous = &dates }
}

func NewStore(client BookingClient, opts ...Option) *Store {
	s := &Store{
		client: client,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchBooking loads one booking into the detail slice.
// On failure the previous booking is kept and the fixed message is stored.
func (s *Store) FetchBooking(ctx context.Context, stationID, bookingID string) (models.Booking, error) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	b, err := s.client.GetBooking(ctx, stationID, bookingID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = ErrMsgFetchBooking
		s.logger.Error("FetchBooking: booking fetch failed",
			zap.String("stationID", stationID), zap.String("bookingID", bookingID), zap.Error(err))
		return models.Booking{}, &FetchError{StationID: stationID, BookingID: bookingID, Err: err}
	}
	s.stationID = stationID
	s.bookingID = bookingID
	s.current = &b
	return b, nil
}

// ClearBooking resets the current booking and the error.
func (s *Store) ClearBooking() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stationID = ""
	s.bookingID = ""
	s.current = nil
	s.err = ""
}

// Reschedule moves a booking to dates.
//
// On success the detail slice takes the server's booking and onCalendarUpdate is
// called exactly once with the requested range. On failure neither slice is
// touched, the fixed message is stored and a *RescheduleError is returned.
// The remote call is detached from ctx cancellation: once issued it runs to completion.
func (s *Store) Reschedule(ctx context.Context, stationID, bookingID string, dates models.DateRange, onCalendarUpdate CalendarUpdater, opts ...RescheduleOption) (models.Booking, error) {
	if !dates.Valid() {
		return models.Booking{}, ErrInvalidRange
	}
	var o rescheduleOptions
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.Lock()
	s.loading = true
	s.err = ""
	var previous *models.Booking
	if s.current != nil && s.stationID == stationID && s.current.ID == bookingID {
		p := *s.current
		previous = &p
	}
	s.mu.Unlock()
	if o.previous != nil {
		p := models.Booking{ID: bookingID, StartDate: o.previous.StartDate, EndDate: o.previous.EndDate}
		if previous != nil {
			p.CustomerName = previous.CustomerName
		}
		previous = &p
	}

	ctx = context.WithoutCancel(ctx)
	updated, err := s.client.UpdateBooking(ctx, stationID, bookingID, dates)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.err = ErrMsgReschedule
		s.mu.Unlock()
		s.logger.Error("Reschedule: update failed",
			zap.String("stationID", stationID), zap.String("bookingID", bookingID), zap.Error(err))
		return models.Booking{}, &RescheduleError{StationID: stationID, BookingID: bookingID, Err: err}
	}
	s.stationID = stationID
	s.bookingID = bookingID
	s.current = &updated
	s.mu.Unlock()

	if onCalendarUpdate != nil {
		onCalendarUpdate(stationID, bookingID, dates)
	}

	s.logger.Info("Reschedule: booking moved",
		zap.String("stationID", stationID),
		zap.String("bookingID", bookingID),
		zap.String("startDate", utils.FormatCalendarDate(dates.StartDate)),
		zap.String("endDate", utils.FormatCalendarDate(dates.EndDate)))

	s.notify(ctx, stationID, bookingID, previous, updated, dates)
	return updated, nil
}

func (s *Store) notify(ctx context.Context, stationID, bookingID string, previous *models.Booking, updated models.Booking, dates models.DateRange) {
	if s.notifier == nil {
		return
	}
	event := models.RescheduleEvent{
		StationID:     stationID,
		BookingID:     bookingID,
		CustomerName:  updated.CustomerName,
		NewStartDate:  utils.FormatCalendarDate(dates.StartDate),
		NewEndDate:    utils.FormatCalendarDate(dates.EndDate),
		RescheduledAt: s.now().UTC(),
	}
	if previous != nil {
		event.OldStartDate = utils.FormatCalendarDate(previous.StartDate)
		event.OldEndDate = utils.FormatCalendarDate(previous.EndDate)
		if event.CustomerName == "" {
			event.CustomerName = previous.CustomerName
		}
	}
	if err := s.notifier.BookingRescheduled(ctx, event); err != nil {
		s.logger.Warn("Reschedule: notification failed", zap.String("bookingID", bookingID), zap.Error(err))
	}
}

// Loading reports whether a fetch or reschedule is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the last failure message, or "".
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Current returns the booking in the detail slice, if any.
func (s *Store) Current() (models.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Booking{}, false
	}
	return *s.current, true
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{
		StationID: s.stationID,
		BookingID: s.bookingID,
		Loading:   s.loading,
		Error:     s.err,
	}
	if s.current != nil {
		b := *s.current
		st.CurrentBooking = &b
	}
	return st
}
