package repository

import (
	"context"

	"toda-flag-service/internal/domain/entity"
	"toda-flag-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoContributionRepository implements the ContributionRepository interface
type MongoContributionRepository struct {
	collection *mongo.Collection
}

// NewMongoContributionRepository creates a new MongoDB contribution repository
func NewMongoContributionRepository(db *mongo.Database) repository.ContributionRepository {
	return &MongoContributionRepository{
		collection: db.Collection("contributions"),
	}
}

// FindAll returns every contribution record
func (r *MongoContributionRepository) FindAll(ctx context.Context) ([]*entity.Contribution, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contributions []*entity.Contribution
	if err := cursor.All(ctx, &contributions); err != nil {
		return nil, err
	}

	return contributions, nil
}
