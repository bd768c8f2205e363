package stationRepo

import (
	"context"

	"stationcal/models"
)

// StationRepository is the Mongo-backed station source.
type StationRepository interface {
	GetStations(ctx context.Context, query string) ([]models.Station, error)
	GetBooking(ctx context.Context, stationID, bookingID string) (models.Booking, error)
	UpdateBooking(ctx context.Context, stationID, bookingID string, dates models.DateRange) (models.Booking, error)
	UpsertStations(ctx context.Context, stations []models.Station) error
	RecordReschedule(ctx context.Context, event models.RescheduleEvent) error
}
