package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stationcal/services/booking"
	"stationcal/services/calendar"
	"stationcal/services/drag"
	"stationcal/services/search"
	"stationcal/utils"
)

// HandlerBundle groups the endpoint handlers registered by routes.
type HandlerBundle struct {
	Calendar *CalendarHandler
	Stations *StationHandler
	Search   *SearchHandler
	Booking  *BookingHandler
}

// NewHandlerBundle wires every handler to the shared state owners.
func NewHandlerBundle(cal *calendar.Store, bookings *booking.Store, ac *search.Autocomplete, ctrl *drag.Controller) *HandlerBundle {
	return &HandlerBundle{
		Calendar: NewCalendarHandler(cal),
		Stations: NewStationHandler(cal),
		Search:   NewSearchHandler(ac, cal),
		Booking:  NewBookingHandler(bookings, cal, ctrl),
	}
}

// HealthHandler reports liveness and the last dependency check.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"message":      "stationcal is running",
		"dependencies": utils.GetHealthStatus(),
	})
}
