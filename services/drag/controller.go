package drag

import (
	"sync"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"stationcal/models"
)

// State of the drag state machine. Completed is transient: a successful drop
// returns straight to Idle.
type State string

const (
	StateIdle     State = "idle"
	StateDragging State = "dragging"
)

// Controller turns a drag gesture into a reschedule intent. It never touches booking state.
type Controller struct {
	mu      sync.Mutex
	state   State
	payload *models.DragPayload
	accepts func(civil.Date) bool
	logger  *zap.Logger
}

type Option func(*Controller)

// WithAccepts restricts which days are valid drop targets.
func WithAccepts(fn func(civil.Date) bool) Option {
	return func(c *Controller) { c.accepts = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

func NewController(opts ...Option) *Controller {
	c := &Controller{
		state:   StateIdle,
		accepts: civil.Date.IsValid,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DragStart captures the payload of booking on dt and enters Dragging.
func (c *Controller) DragStart(b models.Booking, dt DataTransfer) models.DragPayload {
	p := models.DragPayload{BookingID: b.ID, StartDate: b.StartDate, EndDate: b.EndDate}
	WritePayload(dt, p)

	c.mu.Lock()
	c.state = StateDragging
	c.payload = &p
	c.mu.Unlock()
	return p
}

// DragEnd abandons the gesture without a drop.
func (c *Controller) DragEnd() {
	c.mu.Lock()
	c.reset()
	c.mu.Unlock()
}

// Drop completes the gesture over day. The payload is read from dt.
// It returns false when the gesture is discarded: malformed payload or invalid target.
func (c *Controller) Drop(day civil.Date, dt DataTransfer) (models.RescheduleIntent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.reset()

	p, err := ReadPayload(dt)
	if err != nil {
		c.logger.Debug("Drop: gesture discarded", zap.Error(err))
		return models.RescheduleIntent{}, false
	}
	if !c.accepts(day) {
		c.logger.Debug("Drop: invalid target", zap.String("day", day.String()))
		return models.RescheduleIntent{}, false
	}

	span := p.EndDate.DaysSince(p.StartDate)
	return models.RescheduleIntent{
		BookingID:    p.BookingID,
		OldStartDate: p.StartDate,
		OldEndDate:   p.EndDate,
		NewStartDate: day,
		NewEndDate:   day.AddDays(span),
	}, true
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.payload = nil
}

// State returns the current gesture state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Payload returns the payload captured at drag-start while Dragging.
func (c *Controller) Payload() (models.DragPayload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.payload == nil {
		return models.DragPayload{}, false
	}
	return *c.payload, true
}
