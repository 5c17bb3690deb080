package db

import (
	"context"
	"fmt"
	"time"

	"github.com/AbdulWasayUl/go-weather-bot/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LookupRepository stores lookup history in a single collection.
type LookupRepository struct {
	coll *mongo.Collection
}

func NewLookupRepository(client *mongo.Client, dbName, collectionName string) *LookupRepository {
	return &LookupRepository{coll: client.Database(dbName).Collection(collectionName)}
}

func (r *LookupRepository) Insert(ctx context.Context, l models.Lookup) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("failed to insert lookup: %w", err)
	}
	return nil
}

// Recent returns up to limit lookups for a chat, newest first.
func (r *LookupRepository) Recent(ctx context.Context, chatID int64, limit int64) ([]models.Lookup, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"chat_id": chatID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookups: %w", err)
	}
	defer cursor.Close(ctx)

	results := []models.Lookup{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode lookups: %w", err)
	}
	return results, nil
}

// DeleteBefore removes lookups created before cutoff and returns how many went.
func (r *LookupRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to prune lookups: %w", err)
	}
	return res.DeletedCount, nil
}
