// File: database/repository/schedule/slots.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"servihub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrSlotTaken is returned by ClaimSlot when the conditional update matched
// nothing: either another customer already holds the slot, or the target
// slot record does not exist or is inactive. Callers translate it into
// their conflict error.
var ErrSlotTaken = fmt.Errorf("slot already taken")

// InsertSlotRecords materializes one claimable record per submitted slot.
func (repo *MongoScheduleRepo) InsertSlotRecords(records []models.SlotRecord) error {
	if len(records) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	docs := make([]interface{}, 0, len(records))
	for i := range records {
		docs = append(docs, records[i])
	}
	if _, err := repo.slotColl.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("error inserting slot records: %w", err)
	}
	return nil
}

// GetSlotRecord fetches one slot record. Returns (nil, nil) when absent.
func (repo *MongoScheduleRepo) GetSlotRecord(ref models.SlotRef) (*models.SlotRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var rec models.SlotRecord
	filter := bson.M{
		"schedule_id": ref.ScheduleID,
		"day_id":      ref.DayID,
		"slot_id":     ref.SlotID,
	}
	if err := repo.slotColl.FindOne(ctx, filter).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching slot record: %w", err)
	}
	return &rec, nil
}

// ClaimSlot performs the single conditional update that assigns a slot to a
// customer. The unclaimed precondition lives in the filter, so under
// concurrent claims exactly one caller gets the post-update document back;
// every other caller observes no match and gets ErrSlotTaken.
func (repo *MongoScheduleRepo) ClaimSlot(ctx context.Context, ref models.SlotRef, customerID string) (*models.SlotRecord, error) {
	now := time.Now()
	filter := bson.M{
		"schedule_id": ref.ScheduleID,
		"month":       ref.Month,
		"day_id":      ref.DayID,
		"slot_id":     ref.SlotID,
		"is_active":   true,
		"taken_by":    "",
	}
	update := bson.M{"$set": bson.M{"taken_by": customerID, "taken_at": now}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var claimed models.SlotRecord
	err := repo.slotColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&claimed)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("error claiming slot %s/%s/%s: %w", ref.ScheduleID, ref.DayID, ref.SlotID, err)
	}

	// Mirror the claim into the nested month view. The slot record above is
	// the claim authority; this write is a read-model update only.
	mirror := bson.M{"$set": bson.M{
		"days.$[d].slots.$[s].taken_by": customerID,
		"updated_at":                    now,
	}}
	mirrorOpts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"d.id": ref.DayID}, bson.M{"s.id": ref.SlotID}},
	})
	if _, err := repo.scheduleColl.UpdateOne(ctx, bson.M{"id": ref.ScheduleID}, mirror, mirrorOpts); err != nil {
		return nil, fmt.Errorf("error mirroring claim into schedule %s: %w", ref.ScheduleID, err)
	}

	return &claimed, nil
}

// ReleaseSlot unconditionally clears a slot's claim. Releasing an already
// free slot is a no-op success. The returned bool reports whether the slot
// record exists at all.
func (repo *MongoScheduleRepo) ReleaseSlot(ctx context.Context, ref models.SlotRef) (bool, error) {
	filter := bson.M{
		"schedule_id": ref.ScheduleID,
		"day_id":      ref.DayID,
		"slot_id":     ref.SlotID,
	}
	update := bson.M{
		"$set":   bson.M{"taken_by": ""},
		"$unset": bson.M{"taken_at": ""},
	}
	res, err := repo.slotColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error releasing slot %s/%s/%s: %w", ref.ScheduleID, ref.DayID, ref.SlotID, err)
	}
	if res.MatchedCount == 0 {
		return false, nil
	}

	mirror := bson.M{"$set": bson.M{
		"days.$[d].slots.$[s].taken_by": "",
		"updated_at":                    time.Now(),
	}}
	mirrorOpts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"d.id": ref.DayID}, bson.M{"s.id": ref.SlotID}},
	})
	if _, err := repo.scheduleColl.UpdateOne(ctx, bson.M{"id": ref.ScheduleID}, mirror, mirrorOpts); err != nil {
		return true, fmt.Errorf("error mirroring release into schedule %s: %w", ref.ScheduleID, err)
	}
	return true, nil
}

// FindStaleClaims lists claimed slot records older than the cutoff. The
// reconciliation worker cross-checks each against live bookings before
// releasing anything.
func (repo *MongoScheduleRepo) FindStaleClaims(olderThan time.Time) ([]models.SlotRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"taken_by": bson.M{"$ne": ""},
		"taken_at": bson.M{"$lt": olderThan},
	}
	cursor, err := repo.slotColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding stale claims: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.SlotRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding stale claims: %w", err)
	}
	return records, nil
}
