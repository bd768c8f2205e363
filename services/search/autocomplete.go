package search

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"stationcal/models"
)

// Searcher returns stations whose name matches query.
type Searcher interface {
	GetStations(ctx context.Context, query string) ([]models.Station, error)
}

// State is a copy of the autocomplete box.
type State struct {
	Query           string           `json:"query"`
	Suggestions     []models.Station `json:"suggestions"`
	Loading         bool             `json:"isLoading"`
	ShowSuggestions bool             `json:"showSuggestions"`
	Selected        *models.Station  `json:"selectedStation"`
}

// Autocomplete backs the station search box.
type Autocomplete struct {
	mu       sync.RWMutex
	searcher Searcher
	logger   *zap.Logger

	query       string
	suggestions []models.Station
	loading     bool
	show        bool
	selected    *models.Station
}

func NewAutocomplete(searcher Searcher, logger *zap.Logger) *Autocomplete {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Autocomplete{searcher: searcher, logger: logger, suggestions: []models.Station{}}
}

// Search fetches suggestions for q. A blank query clears them without a remote call.
// Remote errors clear the suggestions and are only logged.
func (a *Autocomplete) Search(ctx context.Context, q string) []models.Station {
	if strings.TrimSpace(q) == "" {
		a.mu.Lock()
		a.suggestions = []models.Station{}
		a.mu.Unlock()
		return []models.Station{}
	}

	a.mu.Lock()
	a.loading = true
	a.mu.Unlock()

	stations, err := a.searcher.GetStations(ctx, q)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading = false
	if err != nil {
		a.logger.Warn("Search: station search failed", zap.String("query", q), zap.Error(err))
		a.suggestions = []models.Station{}
		return []models.Station{}
	}
	if stations == nil {
		stations = []models.Station{}
	}
	a.suggestions = models.CloneStations(stations)
	return models.CloneStations(stations)
}

// SetQuery records what the operator typed and opens the suggestion list.
func (a *Autocomplete) SetQuery(q string) {
	a.mu.Lock()
	a.query = q
	a.show = true
	a.mu.Unlock()
}

// HandleSelect picks a suggestion.
func (a *Autocomplete) HandleSelect(station models.Station) {
	c := station.Clone()
	a.mu.Lock()
	a.selected = &c
	a.query = station.Name
	a.show = false
	a.mu.Unlock()
}

// ClearSelection resets the box.
func (a *Autocomplete) ClearSelection() {
	a.mu.Lock()
	a.selected = nil
	a.query = ""
	a.suggestions = []models.Station{}
	a.mu.Unlock()
}

// Suggestion finds a station among the current suggestions.
func (a *Autocomplete) Suggestion(stationID string) (models.Station, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, s := range a.suggestions {
		if s.ID == stationID {
			return s.Clone(), true
		}
	}
	return models.Station{}, false
}

func (a *Autocomplete) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	st := State{
		Query:           a.query,
		Suggestions:     models.CloneStations(a.suggestions),
		Loading:         a.loading,
		ShowSuggestions: a.show,
	}
	if a.selected != nil {
		c := a.selected.Clone()
		st.Selected = &c
	}
	return st
}
