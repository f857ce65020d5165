package repository

import (
	"context"
	"fmt"

	"toda-flag-service/internal/domain/entity"
	"toda-flag-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoPassengerRepository implements the PassengerRepository interface.
// Passengers share the users collection with admin and dispatcher accounts;
// every query filters on the passenger role marker.
type MongoPassengerRepository struct {
	collection *mongo.Collection
}

// NewMongoPassengerRepository creates a new MongoDB passenger repository
func NewMongoPassengerRepository(db *mongo.Database) repository.PassengerRepository {
	return &MongoPassengerRepository{
		collection: db.Collection("users"),
	}
}

// FindAll returns every passenger profile
func (r *MongoPassengerRepository) FindAll(ctx context.Context) ([]*entity.Passenger, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userType": entity.UserTypePassenger})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var passengers []*entity.Passenger
	if err := cursor.All(ctx, &passengers); err != nil {
		return nil, err
	}

	return passengers, nil
}

// FindByID finds a passenger by ID
func (r *MongoPassengerRepository) FindByID(ctx context.Context, id string) (*entity.Passenger, error) {
	var passenger entity.Passenger
	err := r.collection.FindOne(ctx, bson.M{
		"_id":      id,
		"userType": entity.UserTypePassenger,
	}).Decode(&passenger)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, repository.ErrAccountNotFound
		}
		return nil, err
	}
	return &passenger, nil
}

// UpdateFlagProjection writes the cached flag score and status tier
func (r *MongoPassengerRepository) UpdateFlagProjection(ctx context.Context, id string, score int, status string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "userType": entity.UserTypePassenger},
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
