package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the claim path depends on. The unique
// slot-record index is what makes (scheduleId, dayId, slotId) a single
// claimable document.
func (repo *MongoScheduleRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduleIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "provider_id", Value: 1}, {Key: "month", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := repo.scheduleColl.Indexes().CreateMany(ctx, scheduleIdx); err != nil {
		return fmt.Errorf("failed to create schedule indexes: %w", err)
	}

	slotIdx := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "schedule_id", Value: 1},
				{Key: "day_id", Value: 1},
				{Key: "slot_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "taken_by", Value: 1}, {Key: "taken_at", Value: 1}}},
		{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "date", Value: 1}}},
	}
	if _, err := repo.slotColl.Indexes().CreateMany(ctx, slotIdx); err != nil {
		return fmt.Errorf("failed to create slot record indexes: %w", err)
	}
	return nil
}
