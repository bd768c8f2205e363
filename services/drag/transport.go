package drag

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"stationcal/models"
	"stationcal/utils"
)

// ErrMalformedGesture marks a drop whose transport does not carry a usable payload.
var ErrMalformedGesture = errors.New("malformed drag gesture")

// DataTransfer is the key/value carrier of a drag gesture.
type DataTransfer interface {
	SetData(key, value string)
	GetData(key string) string
}

// MapTransfer is an in-memory DataTransfer. Over HTTP it is the JSON object
// the client receives at drag-start and posts back on drop.
type MapTransfer struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMapTransfer(data map[string]string) *MapTransfer {
	t := &MapTransfer{data: make(map[string]string, len(data))}
	for k, v := range data {
		t.data[k] = v
	}
	return t
}

func (t *MapTransfer) SetData(key, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.data == nil {
		t.data = make(map[string]string)
	}
	t.data[key] = value
}

func (t *MapTransfer) GetData(key string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.data[key]
}

// Map returns a copy of the carried values.
func (t *MapTransfer) Map() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]string, len(t.data))
	for k, v := range t.data {
		out[k] = v
	}
	return out
}

// WritePayload stores the three drag keys on dt.
func WritePayload(dt DataTransfer, p models.DragPayload) {
	dt.SetData(models.DragKeyBookingID, p.BookingID)
	dt.SetData(models.DragKeyStartDate, utils.FormatCalendarDate(p.StartDate))
	dt.SetData(models.DragKeyEndDate, utils.FormatCalendarDate(p.EndDate))
}

// ReadPayload parses the three drag keys from dt.
func ReadPayload(dt DataTransfer) (models.DragPayload, error) {
	if dt == nil {
		return models.DragPayload{}, fmt.Errorf("%w: no transport", ErrMalformedGesture)
	}
	id := strings.TrimSpace(dt.GetData(models.DragKeyBookingID))
	if id == "" {
		return models.DragPayload{}, fmt.Errorf("%w: missing %s", ErrMalformedGesture, models.DragKeyBookingID)
	}
	start, err := utils.ParseCalendarDate(dt.GetData(models.DragKeyStartDate))
	if err != nil {
		return models.DragPayload{}, fmt.Errorf("%w: %s: %v", ErrMalformedGesture, models.DragKeyStartDate, err)
	}
	end, err := utils.ParseCalendarDate(dt.GetData(models.DragKeyEndDate))
	if err != nil {
		return models.DragPayload{}, fmt.Errorf("%w: %s: %v", ErrMalformedGesture, models.DragKeyEndDate, err)
	}
	if end.Before(start) {
		return models.DragPayload{}, fmt.Errorf("%w: end date before start date", ErrMalformedGesture)
	}
	return models.DragPayload{BookingID: id, StartDate: start, EndDate: end}, nil
}
