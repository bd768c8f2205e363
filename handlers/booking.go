package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stationcal/models"
	"stationcal/services/api"
	"stationcal/services/booking"
	"stationcal/services/calendar"
	"stationcal/services/drag"
	"stationcal/utils"
)

// BookingHandler serves the booking detail screen and the drag-and-drop reschedule.
// It is the only place that knows both the booking store and the calendar store.
type BookingHandler struct {
	Bookings *booking.Store
	Calendar *calendar.Store
	Drag     *drag.Controller
}

func NewBookingHandler(bookings *booking.Store, cal *calendar.Store, ctrl *drag.Controller) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Calendar: cal, Drag: ctrl}
}

func fetchStatus(err error) int {
	var herr *api.HTTPError
	if errors.Is(err, models.ErrBookingNotFound) || errors.Is(err, models.ErrStationNotFound) ||
		(errors.As(err, &herr) && herr.StatusCode == http.StatusNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// UnknownStationName is shown when the booking's station is not in the fetched list.
const UnknownStationName = "Unknown Station"

// bookingDetail is the detail slice plus the fields the detail screen derives from it.
type bookingDetail struct {
	booking.State
	StationName  string `json:"stationName,omitempty"`
	DurationDays *int   `json:"durationDays,omitempty"`
}

func (h *BookingHandler) detail() bookingDetail {
	d := bookingDetail{State: h.Bookings.State()}
	if d.CurrentBooking == nil {
		return d
	}
	d.StationName = UnknownStationName
	if st, ok := h.Calendar.Station(d.StationID); ok {
		d.StationName = st.Name
	}
	days := models.DateRange{StartDate: d.CurrentBooking.StartDate, EndDate: d.CurrentBooking.EndDate}.SpanDays()
	d.DurationDays = &days
	return d
}

// GetBooking loads a booking into the detail slice.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	stationID, bookingID := c.Param("stationId"), c.Param("bookingId")

	if _, err := h.Bookings.FetchBooking(c.Request.Context(), stationID, bookingID); err != nil {
		getLogger(c).Error("GetBooking failed",
			zap.String("stationID", stationID), zap.String("bookingID", bookingID), zap.Error(err))
		c.JSON(fetchStatus(err), gin.H{"error": h.Bookings.Error(), "state": h.detail()})
		return
	}
	c.JSON(http.StatusOK, h.detail())
}

// ClearBooking returns to the calendar: the booking and the selected station are both cleared.
func (h *BookingHandler) ClearBooking(c *gin.Context) {
	h.Bookings.ClearBooking()
	h.Calendar.Clear()
	c.JSON(http.StatusOK, h.detail())
}

// findBooking looks the booking up in the calendar first, then in the detail slice.
func (h *BookingHandler) findBooking(stationID, bookingID string) (models.Booking, bool) {
	if st, ok := h.Calendar.Station(stationID); ok {
		if i := st.BookingIndex(bookingID); i >= 0 {
			return st.Bookings[i], true
		}
	}
	state := h.Bookings.State()
	if state.StationID == stationID && state.CurrentBooking != nil && state.CurrentBooking.ID == bookingID {
		return *state.CurrentBooking, true
	}
	return models.Booking{}, false
}

// DragStart returns the transport map the client carries to the drop.
func (h *BookingHandler) DragStart(c *gin.Context) {
	stationID, bookingID := c.Param("stationId"), c.Param("bookingId")

	b, ok := h.findBooking(stationID, bookingID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	dt := drag.NewMapTransfer(nil)
	payload := h.Drag.DragStart(b, dt)
	c.JSON(http.StatusOK, gin.H{
		"stationId":    stationID,
		"payload":      payload,
		"dataTransfer": dt.Map(),
	})
}

// DragEnd abandons the current gesture.
func (h *BookingHandler) DragEnd(c *gin.Context) {
	h.Drag.DragEnd()
	c.Status(http.StatusNoContent)
}

type dropInput struct {
	StationID    string            `json:"stationId"`
	Day          string            `json:"day" binding:"required"`
	DataTransfer map[string]string `json:"dataTransfer"`
}

// Drop completes a drag gesture over a day tile and reschedules the booking.
// A discarded gesture answers 204. A drop while the detail slice is loading answers 409.
func (h *BookingHandler) Drop(c *gin.Context) {
	logger := getLogger(c)

	var input dropInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	if h.Bookings.Loading() {
		c.JSON(http.StatusConflict, gin.H{"error": "A booking update is already in progress"})
		return
	}

	day, err := utils.ParseCalendarDate(input.Day)
	if err != nil {
		logger.Debug("Drop: invalid day", zap.String("day", input.Day), zap.Error(err))
		h.Drag.DragEnd()
		c.Status(http.StatusNoContent)
		return
	}
	intent, ok := h.Drag.Drop(day, drag.NewMapTransfer(input.DataTransfer))
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}

	stationID := input.StationID
	if stationID == "" {
		if st, ok := h.Calendar.Selected(); ok {
			stationID = st.ID
		}
	}
	if stationID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "stationId is required when no station is selected")
		return
	}

	h.reschedule(c, stationID, intent.BookingID, intent.NewDates(), gin.H{"intent": intent},
		booking.WithPreviousDates(intent.OldDates()))
}

// UpdateDates reschedules a booking to an explicit range.
func (h *BookingHandler) UpdateDates(c *gin.Context) {
	var input struct {
		StartDate string `json:"startDate" binding:"required"`
		EndDate   string `json:"endDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	start, err := utils.ParseCalendarDate(input.StartDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid startDate", err.Error())
		return
	}
	end, err := utils.ParseCalendarDate(input.EndDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid endDate", err.Error())
		return
	}
	if h.Bookings.Loading() {
		c.JSON(http.StatusConflict, gin.H{"error": "A booking update is already in progress"})
		return
	}

	stationID, bookingID := c.Param("stationId"), c.Param("bookingId")
	var opts []booking.RescheduleOption
	if b, ok := h.findBooking(stationID, bookingID); ok {
		opts = append(opts, booking.WithPreviousDates(models.DateRange{StartDate: b.StartDate, EndDate: b.EndDate}))
	}
	h.reschedule(c, stationID, bookingID, models.DateRange{StartDate: start, EndDate: end}, gin.H{}, opts...)
}

func (h *BookingHandler) reschedule(c *gin.Context, stationID, bookingID string, dates models.DateRange, resp gin.H, opts ...booking.RescheduleOption) {
	updated, err := h.Bookings.Reschedule(c.Request.Context(), stationID, bookingID, dates, h.Calendar.UpdateBookingDates, opts...)
	if err != nil {
		if errors.Is(err, booking.ErrInvalidRange) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid date range", err.Error())
			return
		}
		getLogger(c).Error("Reschedule failed",
			zap.String("stationID", stationID), zap.String("bookingID", bookingID), zap.Error(err))
		resp["error"] = booking.ErrMsgReschedule
		c.JSON(http.StatusBadGateway, resp)
		return
	}

	resp["stationId"] = stationID
	resp["booking"] = updated
	c.JSON(http.StatusOK, resp)
}
