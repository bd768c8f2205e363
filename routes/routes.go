package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"stationcal/handlers"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterCalendarRoutes registers week navigation and booking placement endpoints.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calendar")
	{
		api.GET("/week", hb.Calendar.GetWeek)
		api.PUT("/anchor", hb.Calendar.SetAnchor)
		api.POST("/week/next", hb.Calendar.NextWeek)
		api.POST("/week/previous", hb.Calendar.PreviousWeek)
		api.POST("/week/today", hb.Calendar.Today)
		api.GET("/placements", hb.Calendar.GetPlacements)
	}
}

// RegisterStationRoutes registers the station list, filter, selection and export endpoints.
func RegisterStationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/stations")
	{
		api.GET("", hb.Stations.GetStations)
		api.POST("/fetch", hb.Stations.FetchStations)
		api.PUT("/filter", hb.Stations.SetFilter)
		api.PUT("/selection", hb.Stations.SelectStation)
		api.DELETE("/selection", hb.Stations.ClearSelection)
		api.GET("/:stationId/calendar.ics", hb.Stations.ExportICS)
	}
}

// RegisterSearchRoutes registers the autocomplete endpoints.
func RegisterSearchRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/search")
	{
		api.GET("", hb.Search.SearchStations)
		api.PUT("/selection", hb.Search.SelectSuggestion)
		api.DELETE("/selection", hb.Search.ClearSelection)
	}
}

// RegisterBookingRoutes registers booking detail and reschedule endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/booking")
	{
		api.DELETE("", hb.Booking.ClearBooking)
		api.POST("/drop", hb.Booking.Drop)
		api.POST("/drag/end", hb.Booking.DragEnd)
		api.GET("/:stationId/:bookingId", hb.Booking.GetBooking)
		api.GET("/:stationId/:bookingId/drag", hb.Booking.DragStart)
		api.PUT("/:stationId/:bookingId/dates", hb.Booking.UpdateDates)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterCalendarRoutes(r, hb)
	RegisterStationRoutes(r, hb)
	RegisterSearchRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
}
