package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stationcal/models"
	"stationcal/services/calendar"
	"stationcal/utils"
)

// CalendarHandler serves the week window and the per-day booking markers.
type CalendarHandler struct {
	Calendar *calendar.Store
}

func NewCalendarHandler(cal *calendar.Store) *CalendarHandler {
	return &CalendarHandler{Calendar: cal}
}

// GetWeek returns the current week, or the week of ?anchor= without moving the calendar.
func (h *CalendarHandler) GetWeek(c *gin.Context) {
	if raw := c.Query("anchor"); raw != "" {
		anchor, err := utils.ParseCalendarDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid anchor date", err.Error())
			return
		}
		c.JSON(http.StatusOK, calendar.ComputeWeek(anchor))
		return
	}
	c.JSON(http.StatusOK, h.Calendar.Week())
}

// SetAnchor moves the calendar to the week containing the posted date.
func (h *CalendarHandler) SetAnchor(c *gin.Context) {
	var input struct {
		Anchor string `json:"anchor" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	anchor, err := utils.ParseCalendarDate(input.Anchor)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid anchor date", err.Error())
		return
	}
	h.Calendar.SetAnchor(anchor)
	c.JSON(http.StatusOK, h.Calendar.Week())
}

func (h *CalendarHandler) NextWeek(c *gin.Context) {
	c.JSON(http.StatusOK, h.Calendar.GoToNextWeek())
}

func (h *CalendarHandler) PreviousWeek(c *gin.Context) {
	c.JSON(http.StatusOK, h.Calendar.GoToPreviousWeek())
}

func (h *CalendarHandler) Today(c *gin.Context) {
	c.JSON(http.StatusOK, h.Calendar.GoToToday())
}

// GetPlacements lists the booking markers of the selected station for the displayed week.
// ?stationId= overrides the selection and ?day= narrows the result to one day.
func (h *CalendarHandler) GetPlacements(c *gin.Context) {
	var station *models.Station
	if id := c.Query("stationId"); id != "" {
		st, ok := h.Calendar.Station(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Station not found"})
			return
		}
		station = &st
	} else if st, ok := h.Calendar.Selected(); ok {
		station = &st
	}

	var bookings []models.Booking
	var stationID any
	if station != nil {
		bookings = station.Bookings
		stationID = station.ID
	}

	if raw := c.Query("day"); raw != "" {
		day, err := utils.ParseCalendarDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid day", err.Error())
			return
		}
		c.JSON(http.StatusOK, calendar.DayPlacements{Day: day, Placements: calendar.PlacementsForDay(day, bookings)})
		return
	}

	week := h.Calendar.Week()
	c.JSON(http.StatusOK, gin.H{
		"stationId": stationID,
		"week":      week,
		"days":      calendar.WeekPlacements(week, bookings),
	})
}
