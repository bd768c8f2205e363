package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationcal/models"
	"stationcal/services/api"
	"stationcal/services/booking"
	"stationcal/services/calendar"
	"stationcal/services/drag"
	"stationcal/services/search"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

// fakeRemote stands in for the remote API.
type fakeRemote struct {
	mu        sync.Mutex
	stations  []models.Station
	updateErr error
	getErr    error
	block     chan struct{}
}

func (f *fakeRemote) GetStations(_ context.Context, query string) ([]models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Station
	for _, s := range f.stations {
		if query == "" || strings.Contains(strings.ToLower(s.Name), strings.ToLower(query)) {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}

func (f *fakeRemote) GetBooking(_ context.Context, stationID, bookingID string) (models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return models.Booking{}, f.getErr
	}
	for _, s := range f.stations {
		if s.ID != stationID {
			continue
		}
		if i := s.BookingIndex(bookingID); i >= 0 {
			return s.Bookings[i], nil
		}
	}
	return models.Booking{}, &api.HTTPError{StatusCode: http.StatusNotFound}
}

func (f *fakeRemote) UpdateBooking(_ context.Context, _, bookingID string, d models.DateRange) (models.Booking, error) {
	if f.block != nil {
		<-f.block
	}
	if f.updateErr != nil {
		return models.Booking{}, f.updateErr
	}
	return models.Booking{ID: bookingID, StartDate: d.StartDate, EndDate: d.EndDate}, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.RescheduleEvent
}

func (r *recordingNotifier) BookingRescheduled(_ context.Context, e models.RescheduleEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingNotifier) Events() []models.RescheduleEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.RescheduleEvent(nil), r.events...)
}

type testEnv struct {
	router   *gin.Engine
	remote   *fakeRemote
	calendar *calendar.Store
	bookings *booking.Store
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	remote := &fakeRemote{stations: []models.Station{
		{ID: "1", Name: "Berlin Central", Bookings: []models.Booking{
			{ID: "b1", CustomerName: "Ada", StartDate: date(2024, time.March, 20), EndDate: date(2024, time.March, 22)},
		}},
		{ID: "2", Name: "Munich Airport", Bookings: []models.Booking{}},
	}}

	clock := func() time.Time { return time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC) }
	cal := calendar.NewStore(remote, calendar.WithClock(clock))
	require.NoError(t, cal.FetchStations(context.Background(), ""))
	notifier := &recordingNotifier{}
	bookings := booking.NewStore(remote, booking.WithNotifier(notifier))
	ac := search.NewAutocomplete(remote, nil)
	ctrl := drag.NewController(drag.WithAccepts(func(d civil.Date) bool { return cal.Week().Contains(d) }))

	hb := NewHandlerBundle(cal, bookings, ac, ctrl)
	r := gin.New()
	r.GET("/health", HealthHandler)
	r.GET("/api/calendar/week", hb.Calendar.GetWeek)
	r.PUT("/api/calendar/anchor", hb.Calendar.SetAnchor)
	r.POST("/api/calendar/week/next", hb.Calendar.NextWeek)
	r.POST("/api/calendar/week/previous", hb.Calendar.PreviousWeek)
	r.POST("/api/calendar/week/today", hb.Calendar.Today)
	r.GET("/api/calendar/placements", hb.Calendar.GetPlacements)
	r.GET("/api/stations", hb.Stations.GetStations)
	r.POST("/api/stations/fetch", hb.Stations.FetchStations)
	r.PUT("/api/stations/filter", hb.Stations.SetFilter)
	r.PUT("/api/stations/selection", hb.Stations.SelectStation)
	r.DELETE("/api/stations/selection", hb.Stations.ClearSelection)
	r.GET("/api/stations/:stationId/calendar.ics", hb.Stations.ExportICS)
	r.GET("/api/search", hb.Search.SearchStations)
	r.PUT("/api/search/selection", hb.Search.SelectSuggestion)
	r.DELETE("/api/search/selection", hb.Search.ClearSelection)
	r.DELETE("/api/booking", hb.Booking.ClearBooking)
	r.POST("/api/booking/drop", hb.Booking.Drop)
	r.POST("/api/booking/drag/end", hb.Booking.DragEnd)
	r.GET("/api/booking/:stationId/:bookingId", hb.Booking.GetBooking)
	r.GET("/api/booking/:stationId/:bookingId/drag", hb.Booking.DragStart)
	r.PUT("/api/booking/:stationId/:bookingId/dates", hb.Booking.UpdateDates)

	return &testEnv{router: r, remote: remote, calendar: cal, bookings: bookings, notifier: notifier}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestWeekEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/calendar/week", nil)
	require.Equal(t, http.StatusOK, w.Code)
	days := decode(t, w)["days"].([]any)
	require.Len(t, days, 7)
	assert.Equal(t, "2024-03-18", days[0])
	assert.Equal(t, "2024-03-24", days[6])

	w = env.do(t, http.MethodGet, "/api/calendar/week?anchor=2025-01-01", nil)
	assert.Equal(t, "2024-12-30", decode(t, w)["days"].([]any)[0])
	assert.Equal(t, date(2024, time.March, 20), env.calendar.Anchor())

	w = env.do(t, http.MethodPost, "/api/calendar/week/next", nil)
	assert.Equal(t, "2024-03-25", decode(t, w)["days"].([]any)[0])
	w = env.do(t, http.MethodPost, "/api/calendar/week/previous", nil)
	assert.Equal(t, "2024-03-18", decode(t, w)["days"].([]any)[0])

	w = env.do(t, http.MethodPut, "/api/calendar/anchor", map[string]string{"anchor": "2024-02-29"})
	assert.Equal(t, "2024-02-26", decode(t, w)["days"].([]any)[0])

	w = env.do(t, http.MethodPost, "/api/calendar/week/today", nil)
	assert.Equal(t, "2024-03-18", decode(t, w)["days"].([]any)[0])

	w = env.do(t, http.MethodPut, "/api/calendar/anchor", map[string]string{"anchor": "soon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlacementsForSelectedStation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/calendar/placements", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode(t, w)["stationId"])

	w = env.do(t, http.MethodPut, "/api/stations/selection", map[string]string{"stationId": "1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/calendar/placements", nil)
	body := decode(t, w)
	assert.Equal(t, "1", body["stationId"])
	days := body["days"].([]any)
	require.Len(t, days, 7)
	wed := days[2].(map[string]any)["placements"].([]any)
	require.Len(t, wed, 1)
	assert.Equal(t, "start", wed[0].(map[string]any)["role"])
	assert.Empty(t, days[3].(map[string]any)["placements"])

	w = env.do(t, http.MethodGet, "/api/calendar/placements?day=2024-03-22", nil)
	one := decode(t, w)["placements"].([]any)
	require.Len(t, one, 1)
	assert.Equal(t, "end", one[0].(map[string]any)["role"])

	w = env.do(t, http.MethodGet, "/api/calendar/placements?stationId=nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStationListFilterAndSelection(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/stations/filter", map[string]string{"filter": "MUNICH"})
	stations := decode(t, w)["stations"].([]any)
	require.Len(t, stations, 1)
	assert.Equal(t, "2", stations[0].(map[string]any)["id"])

	w = env.do(t, http.MethodPut, "/api/stations/selection", map[string]string{"stationId": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/stations/selection", nil)
	assert.Nil(t, decode(t, w)["selectedStation"])

	w = env.do(t, http.MethodPost, "/api/stations/fetch", map[string]string{"query": "berlin"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, env.calendar.Stations(), 1)
}

func TestExportICS(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/stations/1/calendar.ics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, w.Body.String(), "b1@1.stationcal")

	w = env.do(t, http.MethodGet, "/api/stations/9/calendar.ics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchSelectsStationInCalendar(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/search?q=mun", nil)
	body := decode(t, w)
	assert.Equal(t, "mun", body["query"])
	assert.Len(t, body["suggestions"], 1)

	w = env.do(t, http.MethodPut, "/api/search/selection", map[string]string{"stationId": "2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Munich Airport", decode(t, w)["query"])

	sel, ok := env.calendar.Selected()
	require.True(t, ok)
	assert.Equal(t, "2", sel.ID)

	w = env.do(t, http.MethodDelete, "/api/search/selection", nil)
	assert.Empty(t, decode(t, w)["query"])
}

func TestGetBooking(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/booking/1/b1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cur := decode(t, w)["currentBooking"].(map[string]any)
	assert.Equal(t, "Ada", cur["customerName"])

	w = env.do(t, http.MethodGet, "/api/booking/1/zzz", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, booking.ErrMsgFetchBooking, decode(t, w)["error"])

	env.remote.getErr = errors.New("timeout")
	w = env.do(t, http.MethodGet, "/api/booking/1/b1", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = env.do(t, http.MethodDelete, "/api/booking", nil)
	assert.Nil(t, decode(t, w)["currentBooking"])
}

func TestBookingDetailStationNameAndDuration(t *testing.T) {
	env := newTestEnv(t)
	env.remote.stations = append(env.remote.stations, models.Station{ID: "9", Name: "Hidden Depot", Bookings: []models.Booking{
		{ID: "b9", CustomerName: "Lin", StartDate: date(2021, time.January, 1), EndDate: date(2021, time.January, 5)},
	}})

	w := env.do(t, http.MethodGet, "/api/booking/1/b1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Berlin Central", body["stationName"])
	assert.Equal(t, float64(2), body["durationDays"])

	// Station 9 was added after the calendar fetch, so its name is unknown to the calendar.
	w = env.do(t, http.MethodGet, "/api/booking/9/b9", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, UnknownStationName, body["stationName"])
	assert.Equal(t, float64(4), body["durationDays"])
}

func TestReturnToCalendarClearsBookingAndStation(t *testing.T) {
	env := newTestEnv(t)
	require.True(t, env.calendar.SelectByID("1"))
	w := env.do(t, http.MethodGet, "/api/booking/1/b1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, "/api/booking", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Nil(t, body["currentBooking"])
	assert.NotContains(t, body, "stationName")

	_, ok := env.calendar.Selected()
	assert.False(t, ok)
	_, ok = env.bookings.Current()
	assert.False(t, ok)
}

func TestDropRecordsOldDatesWithoutDetailFetch(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/booking/drop", map[string]any{
		"stationId":    "1",
		"day":          "2024-03-23",
		"dataTransfer": map[string]string{"bookingId": "b1", "startDate": "2024-03-20", "endDate": "2024-03-22"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	events := env.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "1", events[0].StationID)
	assert.Equal(t, "b1", events[0].BookingID)
	assert.Equal(t, "2024-03-20", events[0].OldStartDate)
	assert.Equal(t, "2024-03-22", events[0].OldEndDate)
	assert.Equal(t, "2024-03-23", events[0].NewStartDate)
	assert.Equal(t, "2024-03-25", events[0].NewEndDate)
}

func TestUpdateDatesRecordsOldDates(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/booking/1/b1/dates", map[string]string{"startDate": "2024-03-25", "endDate": "2024-03-27"})
	require.Equal(t, http.StatusOK, w.Code)

	events := env.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "2024-03-20", events[0].OldStartDate)
	assert.Equal(t, "2024-03-22", events[0].OldEndDate)
}

func TestDragAndDropReschedules(t *testing.T) {
	env := newTestEnv(t)
	require.True(t, env.calendar.SelectByID("1"))

	w := env.do(t, http.MethodGet, "/api/booking/1/b1/drag", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var start struct {
		DataTransfer map[string]string `json:"dataTransfer"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &start))
	assert.Equal(t, "2024-03-22", start.DataTransfer["endDate"])

	w = env.do(t, http.MethodPost, "/api/booking/drop", map[string]any{
		"day":          "2024-03-23",
		"dataTransfer": start.DataTransfer,
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "1", body["stationId"])
	intent := body["intent"].(map[string]any)
	assert.Equal(t, "2024-03-23", intent["newStartDate"])
	assert.Equal(t, "2024-03-25", intent["newEndDate"])

	st, _ := env.calendar.Station("1")
	assert.Equal(t, date(2024, time.March, 23), st.Bookings[0].StartDate)
	assert.Equal(t, date(2024, time.March, 25), st.Bookings[0].EndDate)
	sel, _ := env.calendar.Selected()
	assert.Equal(t, date(2024, time.March, 25), sel.Bookings[0].EndDate)

	cur, ok := env.bookings.Current()
	require.True(t, ok)
	assert.Equal(t, date(2024, time.March, 23), cur.StartDate)
}

func TestDropDiscardsMalformedOrOffWeek(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/booking/drop", map[string]any{
		"stationId":    "1",
		"day":          "2024-03-21",
		"dataTransfer": map[string]string{"bookingId": "b1", "startDate": "2024-03-20"},
	})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodPost, "/api/booking/drop", map[string]any{
		"stationId":    "1",
		"day":          "2024-04-21",
		"dataTransfer": map[string]string{"bookingId": "b1", "startDate": "2024-03-20", "endDate": "2024-03-22"},
	})
	assert.Equal(t, http.StatusNoContent, w.Code)

	st, _ := env.calendar.Station("1")
	assert.Equal(t, date(2024, time.March, 20), st.Bookings[0].StartDate)
}

func TestDropFailureLeavesCalendarUntouched(t *testing.T) {
	env := newTestEnv(t)
	env.remote.updateErr = errors.New("503")

	w := env.do(t, http.MethodPost, "/api/booking/drop", map[string]any{
		"stationId":    "1",
		"day":          "2024-03-18",
		"dataTransfer": map[string]string{"bookingId": "b1", "startDate": "2024-03-20", "endDate": "2024-03-22"},
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, booking.ErrMsgReschedule, decode(t, w)["error"])
	assert.Equal(t, booking.ErrMsgReschedule, env.bookings.Error())

	st, _ := env.calendar.Station("1")
	assert.Equal(t, date(2024, time.March, 20), st.Bookings[0].StartDate)
}

func TestDropWhileLoadingConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.remote.block = make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = env.bookings.Reschedule(context.Background(), "1", "b1",
			models.DateRange{StartDate: date(2024, time.March, 21), EndDate: date(2024, time.March, 21)}, nil)
	}()
	require.Eventually(t, env.bookings.Loading, time.Second, 5*time.Millisecond)

	w := env.do(t, http.MethodPost, "/api/booking/drop", map[string]any{
		"stationId":    "1",
		"day":          "2024-03-18",
		"dataTransfer": map[string]string{"bookingId": "b1", "startDate": "2024-03-20", "endDate": "2024-03-22"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	close(env.remote.block)
	<-done
}

func TestUpdateDates(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/booking/1/b1/dates", map[string]string{"startDate": "2024-03-27", "endDate": "2024-03-25"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/api/booking/1/b1/dates", map[string]string{"startDate": "2024-03-25", "endDate": "2024-03-27"})
	require.Equal(t, http.StatusOK, w.Code)
	st, _ := env.calendar.Station("1")
	assert.Equal(t, date(2024, time.March, 27), st.Bookings[0].EndDate)

	w = env.do(t, http.MethodPut, "/api/booking/1/b1/dates", map[string]string{"startDate": "2024-03-25"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDragStartUnknownBooking(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/booking/1/nope/drag", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/booking/drag/end", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
