// File: database/repository/booking/booking_mongo.go
package bookingRepo

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

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() *MongoBookingRepo {
	db := database.MongoClient.Database("servihub")
	return &MongoBookingRepo{coll: db.Collection("bookings")}
}

// EnsureIndexes creates the booking indexes.
func (repo *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "expected_arrival_time", Value: 1}}},
		{Keys: bson.D{
			{Key: "schedule_ref.schedule_id", Value: 1},
			{Key: "schedule_ref.day_id", Value: 1},
			{Key: "schedule_ref.slot_id", Value: 1},
		}},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, idx); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

// CreateBooking inserts a new booking document.
func (repo *MongoBookingRepo) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if _, err := repo.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// GetBookingByID retrieves a booking by id. Returns (nil, nil) when absent.
func (repo *MongoBookingRepo) GetBookingByID(bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := repo.coll.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", bookingID, err)
	}
	return &booking, nil
}

// UpdateStatus moves a booking between lifecycle states. The current state
// is part of the filter, so a stale caller modifies nothing.
func (repo *MongoBookingRepo) UpdateStatus(bookingID string, from, to models.BookingStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID, "booking_status": from}
	update := bson.M{"$set": bson.M{"booking_status": to, "updated_at": time.Now()}}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error updating booking %s status: %w", bookingID, err)
	}
	return res.ModifiedCount > 0, nil
}

// BeginCancel stages a cancellation by setting cancel_status to IN_PROGRESS.
// The filter excludes bookings already staged or cancelled, so of two racing
// cancel calls exactly one stages and the other modifies nothing.
func (repo *MongoBookingRepo) BeginCancel(bookingID string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":             bookingID,
		"booking_status": bson.M{"$ne": models.BookingCancelled},
		"cancel_status":  bson.M{"$nin": []models.CancelStatus{models.CancelInProgress, models.CancelCancelled}},
	}
	update := bson.M{"$set": bson.M{
		"cancel_status": models.CancelInProgress,
		"updated_at":    time.Now(),
	}}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error staging cancellation for booking %s: %w", bookingID, err)
	}
	return res.ModifiedCount > 0, nil
}

// MarkCancelled finalizes a staged cancellation. The filter guards against a
// racing second cancel: a booking already CANCELLED matches nothing.
func (repo *MongoBookingRepo) MarkCancelled(bookingID, reason string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":             bookingID,
		"booking_status": bson.M{"$ne": models.BookingCancelled},
	}
	update := bson.M{"$set": bson.M{
		"booking_status":      models.BookingCancelled,
		"cancel_status":       models.CancelCancelled,
		"cancellation_reason": reason,
		"cancelled_at":        at,
		"updated_at":          at,
	}}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error cancelling booking %s: %w", bookingID, err)
	}
	return res.ModifiedCount > 0, nil
}

// AttachTransaction records a successful payment: sets the transaction id
// and flips UNPAID to PAID in one conditional update.
func (repo *MongoBookingRepo) AttachTransaction(bookingID, transactionID string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID, "payment_status": models.PaymentUnpaid}
	update := bson.M{"$set": bson.M{
		"transaction_id": transactionID,
		"payment_status": models.PaymentPaid,
		"updated_at":     time.Now(),
	}}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error attaching transaction to booking %s: %w", bookingID, err)
	}
	return res.ModifiedCount > 0, nil
}

// SetPaymentStatus moves the payment axis with the current value guarded in
// the filter.
func (repo *MongoBookingRepo) SetPaymentStatus(bookingID string, from, to models.PaymentStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID, "payment_status": from}
	update := bson.M{"$set": bson.M{"payment_status": to, "updated_at": time.Now()}}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error updating payment status for booking %s: %w", bookingID, err)
	}
	return res.ModifiedCount > 0, nil
}

// SetActualArrival records when the provider actually arrived.
func (repo *MongoBookingRepo) SetActualArrival(bookingID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"actual_arrival_time": at, "updated_at": time.Now()}}
	if _, err := repo.coll.UpdateOne(ctx, bson.M{"id": bookingID}, update); err != nil {
		return fmt.Errorf("error recording arrival for booking %s: %w", bookingID, err)
	}
	return nil
}

// ListByCustomer returns a customer's bookings, newest first.
func (repo *MongoBookingRepo) ListByCustomer(customerID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.coll.Find(ctx, bson.M{"customer_id": customerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings for customer %s: %w", customerID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// ListByProviderDate returns a provider's bookings for one calendar date.
// Admin reporting reads the same records.
func (repo *MongoBookingRepo) ListByProviderDate(providerID, date string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dayStart, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	filter := bson.M{
		"provider_id": providerID,
		"expected_arrival_time": bson.M{
			"$gte": dayStart,
			"$lt":  dayStart.Add(24 * time.Hour),
		},
	}
	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings for provider %s on %s: %w", providerID, date, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// HasLiveBookingForSlot reports whether any non-cancelled booking references
// the given slot. Used by the orphan reconciliation sweep.
func (repo *MongoBookingRepo) HasLiveBookingForSlot(ref models.SlotRef) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"schedule_ref.schedule_id": ref.ScheduleID,
		"schedule_ref.day_id":      ref.DayID,
		"schedule_ref.slot_id":     ref.SlotID,
		"booking_status":           bson.M{"$ne": models.BookingCancelled},
	}
	count, err := repo.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking live bookings for slot: %w", err)
	}
	return count > 0, nil
}
