package customerRepo

import (
	"context"
	"fmt"
	"time"

	"servihub/database"
	"servihub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCustomerRepo implements CustomerRepository using MongoDB.
type MongoCustomerRepo struct {
	coll *mongo.Collection
}

// NewMongoCustomerRepo constructs a new instance of MongoCustomerRepo.
func NewMongoCustomerRepo() *MongoCustomerRepo {
	db := database.MongoClient.Database("servihub")
	return &MongoCustomerRepo{coll: db.Collection("customers")}
}

// GetCustomerByID retrieves a customer by id. Returns (nil, nil) when absent.
func (repo *MongoCustomerRepo) GetCustomerByID(customerID string) (*models.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var customer models.Customer
	if err := repo.coll.FindOne(ctx, bson.M{"id": customerID}).Decode(&customer); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching customer with id %s: %w", customerID, err)
	}
	return &customer, nil
}

// SetPendingReview flips the flag the review subsystem reads.
func (repo *MongoCustomerRepo) SetPendingReview(customerID string, pending bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"has_pending_review": pending, "updated_at": time.Now()}}
	if _, err := repo.coll.UpdateOne(ctx, bson.M{"id": customerID}, update); err != nil {
		return fmt.Errorf("error updating pending review flag for customer %s: %w", customerID, err)
	}
	return nil
}
