package db

import (
	"context"
	"time"

	"github.com/AbdulWasayUl/go-weather-bot/internal/config"
	"github.com/AbdulWasayUl/go-weather-bot/internal/db/migrations"
	"github.com/AbdulWasayUl/go-weather-bot/internal/logger"
	"github.com/AbdulWasayUl/go-weather-bot/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const migrationCollectionName = "migrations_history"

func ConnectMongoDB(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.MongoURI)
	if cfg.MongoAuthDB != "" && clientOptions.Auth != nil {
		clientOptions.Auth.AuthSource = cfg.MongoAuthDB
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	err = client.Ping(ctxTimeout, nil)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.Info("Successfully connected to MongoDB!")
	return client, nil
}

func DisconnectMongoDB(ctx context.Context, client *mongo.Client) error {
	if err := client.Disconnect(ctx); err != nil {
		return err
	}
	logger.Info("Disconnected from MongoDB.")
	return nil
}

// Ping checks connectivity with a short bound.
func Ping(ctx context.Context, client *mongo.Client) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(ctxTimeout, nil)
}

func RunMigrations(ctx context.Context, client *mongo.Client, cfg *config.Config) error {
	migrations := []models.Migration{
		{Name: "create_lookups_collection", Func: migrations.CreateLookupsCollection(cfg)},
		{Name: "index_lookups_by_chat", Func: migrations.IndexLookupsByChat(cfg)},
	}

	return applyMigrations(ctx, client, cfg.DBBot, migrations)
}

// applyMigrations runs each named migration at most once, tracked in migrations_history.
func applyMigrations(ctx context.Context, client *mongo.Client, dbName string, migrations []models.Migration) error {
	coll := client.Database(dbName).Collection(migrationCollectionName)

	for _, m := range migrations {
		var result struct{ Name string }
		err := coll.FindOne(ctx, bson.M{"name": m.Name}).Decode(&result)
		if err == mongo.ErrNoDocuments {
			logger.Info("Running migration: %s", m.Name)
			if err := m.Func(ctx, client); err != nil {
				logger.Error("Error applying migration %s: %v", m.Name, err)
				return err
			}
			_, err = coll.InsertOne(ctx, bson.M{"name": m.Name, "applied_at": time.Now()})
			if err != nil {
				return err
			}
			logger.Info("Migration %s applied successfully.", m.Name)
		} else if err != nil {
			return err
		} else {
			logger.Info("Migration %s already applied, skipping.", m.Name)
		}
	}

	return nil
}
