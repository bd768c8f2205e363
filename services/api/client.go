package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"stationcal/models"
	"stationcal/utils"
)

// Client talks to the remote stations API.
type Client struct {
	baseURL     string
	http        *http.Client
	updateDelay time.Duration
	logger      *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUpdateDelay sets the latency of the simulated booking update.
func WithUpdateDelay(d time.Duration) Option {
	return func(c *Client) { c.updateDelay = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for baseURL with the given request timeout.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: timeout},
		updateDelay: 500 * time.Millisecond,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("API request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		herr := &HTTPError{StatusCode: resp.StatusCode, Endpoint: endpoint}
		c.logger.Error("API request failed", zap.String("endpoint", endpoint), zap.Error(herr))
		return herr
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// GetStations lists stations, narrowed by query when it is non-empty.
// Placeholder rows are dropped, as are bookings whose dates cannot be parsed.
func (c *Client) GetStations(ctx context.Context, query string) ([]models.Station, error) {
	endpoint := "/stations"
	if query != "" {
		endpoint += "?" + url.Values{"search": {query}}.Encode()
	}

	var dtos []stationDTO
	if err := c.get(ctx, endpoint, &dtos); err != nil {
		return nil, err
	}

	stations := make([]models.Station, 0, len(dtos))
	for _, d := range dtos {
		if IsPlaceholder(d.Name) {
			continue
		}
		st := models.Station{ID: d.ID, Name: d.Name, Bookings: make([]models.Booking, 0, len(d.Bookings))}
		for _, bd := range d.Bookings {
			b, err := bd.toModel()
			if err != nil {
				c.logger.Warn("GetStations: skipping booking with bad dates", zap.String("stationID", d.ID), zap.Error(err))
				continue
			}
			st.Bookings = append(st.Bookings, b)
		}
		stations = append(stations, st)
	}
	return stations, nil
}

// GetBooking fetches a single booking of a station.
func (c *Client) GetBooking(ctx context.Context, stationID, bookingID string) (models.Booking, error) {
	endpoint := fmt.Sprintf("/stations/%s/bookings/%s", url.PathEscape(stationID), url.PathEscape(bookingID))

	var dto bookingDTO
	if err := c.get(ctx, endpoint, &dto); err != nil {
		return models.Booking{}, err
	}
	return dto.toModel()
}

// UpdateBooking stands in for PUT /stations/{sid}/bookings/{bid}. The mock API
// has no write endpoint, so it waits the configured delay and echoes the new range.
func (c *Client) UpdateBooking(ctx context.Context, stationID, bookingID string, dates models.DateRange) (models.Booking, error) {
	c.logger.Info("API Call: PUT booking",
		zap.String("endpoint", fmt.Sprintf("/stations/%s/bookings/%s", stationID, bookingID)),
		zap.String("startDate", utils.FormatCalendarDate(dates.StartDate)),
		zap.String("endDate", utils.FormatCalendarDate(dates.EndDate)))

	if c.updateDelay > 0 {
		timer := time.NewTimer(c.updateDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return models.Booking{}, ctx.Err()
		case <-timer.C:
		}
	}
	return models.Booking{ID: bookingID, StartDate: dates.StartDate, EndDate: dates.EndDate}, nil
}
