package stationRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"stationcal/models"
	"stationcal/utils"
)

const (
	stationsCollection    = "stations"
	reschedulesCollection = "reschedules"
)

var _ StationRepository = (*MongoStationRepo)(nil)

// MongoStationRepo implements StationRepository using MongoDB.
type MongoStationRepo struct {
	coll   *mongo.Collection
	audit  *mongo.Collection
	logger *zap.Logger
}

// NewMongoStationRepo creates a repository over db's stations and reschedules collections.
func NewMongoStationRepo(db *mongo.Database, logger *zap.Logger) *MongoStationRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	repo := &MongoStationRepo{
		coll:   db.Collection(stationsCollection),
		audit:  db.Collection(reschedulesCollection),
		logger: logger,
	}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create indexes", zap.Error(err))
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func withTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		return newContext(timeout)
	}
	return context.WithTimeout(parent, timeout)
}

func nameFilter(query string) bson.M {
	if query == "" {
		return bson.M{}
	}
	return bson.M{"name": bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}}
}

// GetStations returns stations whose name contains query, case-insensitively.
func (r *MongoStationRepo) GetStations(ctx context.Context, query string) ([]models.Station, error) {
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, nameFilter(query), options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve stations: %w", err)
	}
	defer cursor.Close(ctx)

	stations := make([]models.Station, 0)
	for cursor.Next(ctx) {
		var doc stationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode station: %w", err)
		}
		s, err := doc.toModel()
		if err != nil {
			r.logger.Warn("GetStations: skipping station", zap.Error(err))
			continue
		}
		stations = append(stations, s)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("station cursor: %w", err)
	}
	return stations, nil
}

// GetBooking loads one embedded booking.
func (r *MongoStationRepo) GetBooking(ctx context.Context, stationID, bookingID string) (models.Booking, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc stationDoc
	opts := options.FindOne().SetProjection(bson.M{
		"id":         1,
		"bookings.$": 1,
	})
	err := r.coll.FindOne(ctx, bson.M{"id": stationID, "bookings.id": bookingID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Booking{}, fmt.Errorf("station %s booking %s: %w", stationID, bookingID, models.ErrBookingNotFound)
		}
		return models.Booking{}, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	if len(doc.Bookings) == 0 {
		return models.Booking{}, fmt.Errorf("station %s booking %s: %w", stationID, bookingID, models.ErrBookingNotFound)
	}
	return doc.Bookings[0].toModel()
}

// UpdateBooking sets the date range of one embedded booking and returns it.
func (r *MongoStationRepo) UpdateBooking(ctx context.Context, stationID, bookingID string, dates models.DateRange) (models.Booking, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"bookings.$[b].startDate": utils.FormatCalendarDate(dates.StartDate),
		"bookings.$[b].endDate":   utils.FormatCalendarDate(dates.EndDate),
	}}
	opts := options.FindOneAndUpdate().
		SetArrayFilters(options.ArrayFilters{Filters: []interface{}{bson.M{"b.id": bookingID}}}).
		SetReturnDocument(options.After)

	var doc stationDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": stationID, "bookings.id": bookingID}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Booking{}, fmt.Errorf("station %s booking %s: %w", stationID, bookingID, models.ErrBookingNotFound)
		}
		return models.Booking{}, fmt.Errorf("failed to update booking %s: %w", bookingID, err)
	}
	for _, bd := range doc.Bookings {
		if bd.ID == bookingID {
			return bd.toModel()
		}
	}
	return models.Booking{}, fmt.Errorf("station %s booking %s: %w", stationID, bookingID, models.ErrBookingNotFound)
}

// UpsertStations replaces or inserts every station by id.
func (r *MongoStationRepo) UpsertStations(ctx context.Context, stations []models.Station) error {
	if len(stations) == 0 {
		return nil
	}
	ctx, cancel := withTimeout(ctx, 30*time.Second)
	defer cancel()

	writes := make([]mongo.WriteModel, 0, len(stations))
	for _, s := range stations {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": s.ID}).
			SetReplacement(stationToDoc(s)).
			SetUpsert(true))
	}
	res, err := r.coll.BulkWrite(ctx, writes)
	if err != nil {
		return fmt.Errorf("failed to upsert stations: %w", err)
	}
	r.logger.Info("UpsertStations: done",
		zap.Int64("upserted", res.UpsertedCount), zap.Int64("modified", res.ModifiedCount))
	return nil
}

// RecordReschedule appends an audit entry.
func (r *MongoStationRepo) RecordReschedule(ctx context.Context, event models.RescheduleEvent) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	if event.RescheduledAt.IsZero() {
		event.RescheduledAt = time.Now().UTC()
	}
	if _, err := r.audit.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to record reschedule of %s: %w", event.BookingID, err)
	}
	return nil
}
