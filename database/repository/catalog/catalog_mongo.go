package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"servihub/database"
	"servihub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	coll *mongo.Collection
}

// NewMongoCatalogRepo constructs a new instance of MongoCatalogRepo.
func NewMongoCatalogRepo() *MongoCatalogRepo {
	db := database.MongoClient.Database("servihub")
	return &MongoCatalogRepo{coll: db.Collection("services")}
}

// GetServiceByID retrieves a catalog service by id.
// Returns (nil, nil) when absent.
func (repo *MongoCatalogRepo) GetServiceByID(serviceID string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var svc models.Service
	if err := repo.coll.FindOne(ctx, bson.M{"id": serviceID}).Decode(&svc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching service with id %s: %w", serviceID, err)
	}
	return &svc, nil
}

// ListServices returns the full catalog.
func (repo *MongoCatalogRepo) ListServices() ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("error decoding services: %w", err)
	}
	return services, nil
}
