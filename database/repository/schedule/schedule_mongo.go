// File: database/repository/schedule/schedule_mongo.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"servihub/database"
	"servihub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoScheduleRepo implements ScheduleRepository using MongoDB.
type MongoScheduleRepo struct {
	scheduleColl *mongo.Collection
	slotColl     *mongo.Collection
}

// NewMongoScheduleRepo constructs a new instance of MongoScheduleRepo.
func NewMongoScheduleRepo() *MongoScheduleRepo {
	db := database.MongoClient.Database("servihub")
	return &MongoScheduleRepo{
		scheduleColl: db.Collection("schedules"),
		slotColl:     db.Collection("slot_records"),
	}
}

// GetSchedule retrieves a provider's schedule for the given month.
// Returns (nil, nil) when no schedule exists.
func (repo *MongoScheduleRepo) GetSchedule(providerID, month string) (*models.Schedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var schedule models.Schedule
	filter := bson.M{"provider_id": providerID, "month": month, "deleted": false}
	if err := repo.scheduleColl.FindOne(ctx, filter).Decode(&schedule); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching schedule for provider %s month %s: %w", providerID, month, err)
	}
	return &schedule, nil
}

// GetScheduleByID retrieves a schedule document by id. Returns (nil, nil)
// when absent.
func (repo *MongoScheduleRepo) GetScheduleByID(scheduleID string) (*models.Schedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var schedule models.Schedule
	filter := bson.M{"id": scheduleID, "deleted": false}
	if err := repo.scheduleColl.FindOne(ctx, filter).Decode(&schedule); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching schedule with id %s: %w", scheduleID, err)
	}
	return &schedule, nil
}

// CreateSchedule inserts a new schedule document.
func (repo *MongoScheduleRepo) CreateSchedule(schedule *models.Schedule) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := repo.scheduleColl.InsertOne(ctx, schedule); err != nil {
		return fmt.Errorf("error creating schedule: %w", err)
	}
	return nil
}

// AddDays appends submitted days to an existing schedule.
func (repo *MongoScheduleRepo) AddDays(scheduleID string, days []models.ScheduleDay) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": scheduleID, "deleted": false}
	update := bson.M{
		"$push": bson.M{"days": bson.M{"$each": days}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := repo.scheduleColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error adding days to schedule %s: %w", scheduleID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("schedule %s not found", scheduleID)
	}
	return nil
}

// SoftDeleteSchedule flags a schedule deleted; documents are never removed.
func (repo *MongoScheduleRepo) SoftDeleteSchedule(scheduleID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": scheduleID}
	update := bson.M{"$set": bson.M{"deleted": true, "updated_at": time.Now()}}
	res, err := repo.scheduleColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error soft-deleting schedule %s: %w", scheduleID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("schedule %s not found", scheduleID)
	}
	return nil
}

// SetDayActive toggles a day's active flag via an array-filtered update.
func (repo *MongoScheduleRepo) SetDayActive(scheduleID, dayID string, active bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": scheduleID, "deleted": false}
	update := bson.M{"$set": bson.M{
		"days.$[d].is_active": active,
		"updated_at":          time.Now(),
	}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"d.id": dayID}},
	})
	res, err := repo.scheduleColl.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("error toggling day %s on schedule %s: %w", dayID, scheduleID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("schedule %s not found", scheduleID)
	}

	slotFilter := bson.M{"schedule_id": scheduleID, "day_id": dayID}
	slotUpdate := bson.M{"$set": bson.M{"is_active": active}}
	if _, err := repo.slotColl.UpdateMany(ctx, slotFilter, slotUpdate); err != nil {
		return fmt.Errorf("error mirroring day toggle to slot records: %w", err)
	}
	return nil
}

// SetSlotActive toggles one slot's active flag in both the nested view and
// its slot record.
func (repo *MongoScheduleRepo) SetSlotActive(scheduleID, dayID, slotID string, active bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": scheduleID, "deleted": false}
	update := bson.M{"$set": bson.M{
		"days.$[d].slots.$[s].is_active": active,
		"updated_at":                     time.Now(),
	}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"d.id": dayID}, bson.M{"s.id": slotID}},
	})
	res, err := repo.scheduleColl.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("error toggling slot %s on schedule %s: %w", slotID, scheduleID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("schedule %s not found", scheduleID)
	}

	slotFilter := bson.M{"schedule_id": scheduleID, "day_id": dayID, "slot_id": slotID}
	slotUpdate := bson.M{"$set": bson.M{"is_active": active}}
	if _, err := repo.slotColl.UpdateOne(ctx, slotFilter, slotUpdate); err != nil {
		return fmt.Errorf("error mirroring slot toggle to slot record: %w", err)
	}
	return nil
}
