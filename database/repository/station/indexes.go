package stationRepo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates the station id index and the audit lookup index.
func (r *MongoStationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create station indexes: %w", err)
	}

	_, err = r.audit.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "stationId", Value: 1}, {Key: "bookingId", Value: 1}, {Key: "rescheduledAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create reschedule indexes: %w", err)
	}
	return nil
}
