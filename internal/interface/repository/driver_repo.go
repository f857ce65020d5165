package repository

import (
	"context"
	"fmt"

	"toda-flag-service/internal/domain/entity"
	"toda-flag-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDriverRepository implements the DriverRepository interface
type MongoDriverRepository struct {
	collection *mongo.Collection
}

// NewMongoDriverRepository creates a new MongoDB driver repository
func NewMongoDriverRepository(db *mongo.Database) repository.DriverRepository {
	return &MongoDriverRepository{
		collection: db.Collection("drivers"),
	}
}

// FindAll returns every driver profile
func (r *MongoDriverRepository) FindAll(ctx context.Context) ([]*entity.Driver, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var drivers []*entity.Driver
	if err := cursor.All(ctx, &drivers); err != nil {
		return nil, err
	}

	return drivers, nil
}

// FindByID finds a driver by ID
func (r *MongoDriverRepository) FindByID(ctx context.Context, id string) (*entity.Driver, error) {
	var driver entity.Driver
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, repository.ErrAccountNotFound
		}
		return nil, err
	}
	return &driver, nil
}

// UpdateFlagProjection writes the cached flag score and status tier
func (r *MongoDriverRepository) UpdateFlagProjection(ctx context.Context, id string, score int, status string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"flagScore":  score,
			"flagStatus": status,
		}},
	)

	if err != nil {
		return fmt.Errorf("failed to update flag projection: %w", err)
	}

	if result.MatchedCount == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}
