package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stationcal/services/calendar"
	"stationcal/services/export"
	"stationcal/utils"
)

// StationHandler serves the fetched station list, its filter and the selection.
type StationHandler struct {
	Calendar *calendar.Store
	now      func() time.Time
}

func NewStationHandler(cal *calendar.Store) *StationHandler {
	return &StationHandler{Calendar: cal, now: time.Now}
}

// GetStations returns the calendar snapshot with the filter applied.
func (h *StationHandler) GetStations(c *gin.Context) {
	c.JSON(http.StatusOK, h.Calendar.Snapshot())
}

// FetchStations re-fetches the list for the posted query.
func (h *StationHandler) FetchStations(c *gin.Context) {
	var input struct {
		Query string `json:"query"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
			return
		}
	}

	if err := h.Calendar.FetchStations(c.Request.Context(), input.Query); err != nil {
		getLogger(c).Error("FetchStations failed", zap.String("query", input.Query), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": h.Calendar.Error(), "state": h.Calendar.Snapshot()})
		return
	}
	c.JSON(http.StatusOK, h.Calendar.Snapshot())
}

// SetFilter sets the local name filter.
func (h *StationHandler) SetFilter(c *gin.Context) {
	var input struct {
		Filter string `json:"filter"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	h.Calendar.SetFilter(input.Filter)
	c.JSON(http.StatusOK, h.Calendar.Snapshot())
}

// SelectStation selects a station from the fetched list.
func (h *StationHandler) SelectStation(c *gin.Context) {
	var input struct {
		StationID string `json:"stationId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	if !h.Calendar.SelectByID(input.StationID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Station not found"})
		return
	}
	c.JSON(http.StatusOK, h.Calendar.Snapshot())
}

func (h *StationHandler) ClearSelection(c *gin.Context) {
	h.Calendar.Clear()
	c.JSON(http.StatusOK, h.Calendar.Snapshot())
}

// ExportICS returns the station's bookings as an iCalendar feed.
func (h *StationHandler) ExportICS(c *gin.Context) {
	st, ok := h.Calendar.Station(c.Param("stationId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Station not found"})
		return
	}
	body := export.StationICS(st, h.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="station-%s.ics"`, st.ID))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
