package migrations

import (
	"context"
	"errors"
	"fmt"

	"github.com/AbdulWasayUl/go-weather-bot/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func createCollectionIfNotExists(ctx context.Context, db *mongo.Database, name string) error {
	if err := db.CreateCollection(ctx, name); err != nil {
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) {
			if cmdErr.Code != 48 { // 48 = NamespaceExists
				return fmt.Errorf("failed to create collection %s: %w", name, err)
			}
			// Collection already exists → ignore
		} else {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}
	return nil
}

// CreateLookupsCollection creates the history collection.
func CreateLookupsCollection(cfg *config.Config) func(ctx context.Context, client *mongo.Client) error {
	return func(ctx context.Context, client *mongo.Client) error {
		return createCollectionIfNotExists(ctx, client.Database(cfg.DBBot), cfg.CollectionLookups)
	}
}

// IndexLookupsByChat backs the per-chat "latest first" history query and pruning by age.
func IndexLookupsByChat(cfg *config.Config) func(ctx context.Context, client *mongo.Client) error {
	return func(ctx context.Context, client *mongo.Client) error {
		coll := client.Database(cfg.DBBot).Collection(cfg.CollectionLookups)
		_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "chat_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("chat_id_created_at"),
			},
			{
				Keys:    bson.D{{Key: "created_at", Value: 1}},
				Options: options.Index().SetName("created_at"),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create lookup indexes: %w", err)
		}
		return nil
	}
}
