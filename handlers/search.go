package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stationcal/services/calendar"
	"stationcal/services/search"
	"stationcal/utils"
)

// SearchHandler backs the station autocomplete box.
type SearchHandler struct {
	Search   *search.Autocomplete
	Calendar *calendar.Store
}

func NewSearchHandler(ac *search.Autocomplete, cal *calendar.Store) *SearchHandler {
	return &SearchHandler{Search: ac, Calendar: cal}
}

// SearchStations runs the remote search for ?q=.
func (h *SearchHandler) SearchStations(c *gin.Context) {
	q := c.Query("q")
	h.Search.SetQuery(q)
	h.Search.Search(c.Request.Context(), q)
	c.JSON(http.StatusOK, h.Search.State())
}

// SelectSuggestion picks a suggestion and makes it the calendar's station.
func (h *SearchHandler) SelectSuggestion(c *gin.Context) {
	var input struct {
		StationID string `json:"stationId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	st, ok := h.Search.Suggestion(input.StationID)
	if !ok {
		st, ok = h.Calendar.Station(input.StationID)
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Station not found"})
		return
	}

	h.Search.HandleSelect(st)
	h.Calendar.Select(st)
	c.JSON(http.StatusOK, h.Search.State())
}

func (h *SearchHandler) ClearSelection(c *gin.Context) {
	h.Search.ClearSelection()
	c.JSON(http.StatusOK, h.Search.State())
}
