package repository

import (
	"context"
	"fmt"
	"time"

	"toda-flag-service/internal/domain/entity"
	"toda-flag-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Flag collections, one per account category. Mirrors the realtime database
// layout where driver and customer flags live under separate top-level nodes.
const (
	driverFlagsCollection = "driverFlags"
	userFlagsCollection   = "userFlags"
)

// flagDocument wraps a flag with its owning account id for storage.
type flagDocument struct {
	AccountID string      `bson:"accountId"`
	Flag      entity.Flag `bson:",inline"`
}

// MongoFlagRepository implements the FlagRepository interface
type MongoFlagRepository struct {
	driverFlags *mongo.Collection
	userFlags   *mongo.Collection
}

// NewMongoFlagRepository creates a new MongoDB flag repository
func NewMongoFlagRepository(db *mongo.Database) repository.FlagRepository {
	r := &MongoFlagRepository{
		driverFlags: db.Collection(driverFlagsCollection),
		userFlags:   db.Collection(userFlagsCollection),
	}

	// Create indexes for better performance
	ctx := context.Background()
	for _, coll := range []*mongo.Collection{r.driverFlags, r.userFlags} {
		flagIDIndex := mongo.IndexModel{
			Keys:    bson.M{"flagId": 1},
			Options: options.Index().SetUnique(true),
		}

		// Index on accountId for per-account lookups
		accountIndex := mongo.IndexModel{
			Keys: bson.M{"accountId": 1},
		}

		// Compound index backing the active-flag dedupe check
		activeTypeIndex := mongo.IndexModel{
			Keys: bson.D{
				{Key: "accountId", Value: 1},
				{Key: "type", Value: 1},
				{Key: "status", Value: 1},
			},
		}

		coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
			flagIDIndex,
			accountIndex,
			activeTypeIndex,
		})
	}

	return r
}

func (r *MongoFlagRepository) collectionFor(category string) *mongo.Collection {
	if category == entity.CategoryDriver {
		return r.driverFlags
	}
	return r.userFlags
}

// Create saves a new flag under its account
func (r *MongoFlagRepository) Create(ctx context.Context, ref entity.AccountRef, flag *entity.Flag) error {
	if flag.Status == "" {
		flag.Status = entity.FlagStatusActive
	}

	doc := flagDocument{AccountID: ref.ID, Flag: *flag}
	_, err := r.collectionFor(ref.Category).InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create flag: %w", err)
	}
	return nil
}

// FindByID finds one flag under the given account
func (r *MongoFlagRepository) FindByID(ctx context.Context, ref entity.AccountRef, flagID string) (*entity.Flag, error) {
	var doc flagDocument
	err := r.collectionFor(ref.Category).FindOne(ctx, bson.M{
		"accountId": ref.ID,
		"flagId":    flagID,
	}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, repository.ErrFlagNotFound
		}
		return nil, err
	}
	return &doc.Flag, nil
}

// FindByAccount returns all flags of an account, newest first
func (r *MongoFlagRepository) FindByAccount(ctx context.Context, ref entity.AccountRef) ([]*entity.Flag, error) {
	cursor, err := r.collectionFor(ref.Category).Find(ctx,
		bson.M{"accountId": ref.ID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var flags []*entity.Flag
	for cursor.Next(ctx) {
		var doc flagDocument
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		flag := doc.Flag
		flags = append(flags, &flag)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return flags, nil
}

// FindByCategory returns every flag of one category grouped by account id
func (r *MongoFlagRepository) FindByCategory(ctx context.Context, category string) (map[string][]*entity.Flag, error) {
	cursor, err := r.collectionFor(category).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make(map[string][]*entity.Flag)
	for cursor.Next(ctx) {
		var doc flagDocument
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		flag := doc.Flag
		result[doc.AccountID] = append(result[doc.AccountID], &flag)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Close sets a terminal status with its timestamp/actor pair and appends the
// matching action-log entry
func (r *MongoFlagRepository) Close(ctx context.Context, ref entity.AccountRef, flagID, status string, closedAt time.Time, closedBy string) error {
	set := bson.M{"status": status}
	var action string

	switch status {
	case entity.FlagStatusResolved:
		set["resolvedAt"] = closedAt
		set["resolvedBy"] = closedBy
		action = entity.ActionFlagResolved
	case entity.FlagStatusDismissed:
		set["dismissedAt"] = closedAt
		set["dismissedBy"] = closedBy
		action = entity.ActionFlagDismissed
	default:
		return fmt.Errorf("invalid terminal status: %s", status)
	}

	update := bson.M{
		"$set": set,
		"$push": bson.M{
			"actions": entity.FlagAction{
				Action:    action,
				Timestamp: closedAt,
				ActorID:   closedBy,
			},
		},
	}

	result, err := r.collectionFor(ref.Category).UpdateOne(
		ctx,
		bson.M{"accountId": ref.ID, "flagId": flagID},
		update,
	)

	if err != nil {
		return fmt.Errorf("failed to close flag: %w", err)
	}

	if result.MatchedCount == 0 {
		return repository.ErrFlagNotFound
	}

	return nil
}

// Escalate raises severity and points in place; the flag stays active
func (r *MongoFlagRepository) Escalate(ctx context.Context, ref entity.AccountRef, flagID, severity string, points int, action entity.FlagAction) error {
	update := bson.M{
		"$set": bson.M{
			"severity": severity,
			"points":   points,
		},
		"$push": bson.M{
			"actions": action,
		},
	}

	result, err := r.collectionFor(ref.Category).UpdateOne(
		ctx,
		bson.M{"accountId": ref.ID, "flagId": flagID},
		update,
	)

	if err != nil {
		return fmt.Errorf("failed to escalate flag: %w", err)
	}

	if result.MatchedCount == 0 {
		return repository.ErrFlagNotFound
	}

	return nil
}
