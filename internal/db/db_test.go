package db_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/AbdulWasayUl/go-weather-bot/internal/config"
	"github.com/AbdulWasayUl/go-weather-bot/internal/db"
	"github.com/AbdulWasayUl/go-weather-bot/models"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
)

// Helper: Start temporary MongoDB container
func setupMongoContainer(ctx context.Context) (tc.Container, string, error) {
	req := tc.ContainerRequest{
		Image:        "mongo:7.0",
		ExposedPorts: []string{"27017/tcp"},
		Env: map[string]string{
			"MONGO_INITDB_ROOT_USERNAME": "admin",
			"MONGO_INITDB_ROOT_PASSWORD": "password",
		},
		WaitingFor: wait.ForListeningPort("27017/tcp"),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}

	port, err := container.MappedPort(ctx, nat.Port("27017"))
	if err != nil {
		return nil, "", err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, "", err
	}

	mongoURI := fmt.Sprintf("mongodb://admin:password@%s:%s", host, port.Port())
	return container, mongoURI, nil
}

func testConfig(uri, dbName string) *config.Config {
	return &config.Config{
		MongoURI:          uri,
		MongoAuthDB:       "admin",
		DBBot:             dbName,
		CollectionLookups: "lookups",
	}
}

func TestLookupRepository(t *testing.T) {
	ctx := context.Background()

	container, mongoURI, err := setupMongoContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to start MongoDB container: %v", err)
	}
	defer container.Terminate(ctx)

	cfg := testConfig(mongoURI, "bot_test")

	client, err := db.ConnectMongoDB(ctx, cfg)
	require.NoError(t, err)
	defer db.DisconnectMongoDB(ctx, client)

	require.NoError(t, db.Ping(ctx, client))

	repo := db.NewLookupRepository(client, cfg.DBBot, cfg.CollectionLookups)

	// empty history is an empty slice, not nil
	results, err := repo.Recent(ctx, 42, 5)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		require.NoError(t, repo.Insert(ctx, models.Lookup{
			ChatID:    42,
			Kind:      "city",
			Query:     fmt.Sprintf("City %d", i),
			Outcome:   models.OutcomeOK,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, repo.Insert(ctx, models.Lookup{ChatID: 7, Kind: "city", Query: "Other", Outcome: models.OutcomeError}))

	results, err = repo.Recent(ctx, 42, 5)
	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Equal(t, "City 6", results[0].Query)
	assert.Equal(t, "City 2", results[4].Query)
	for _, r := range results {
		assert.Equal(t, int64(42), r.ChatID)
	}

	deleted, err := repo.DeleteBefore(ctx, base.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	results, err = repo.Recent(ctx, 42, 10)
	require.NoError(t, err)
	assert.Len(t, results, 4)

	// the zero-time insert was stamped with now and survives pruning
	results, err = repo.Recent(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.WithinDuration(t, time.Now(), results[0].CreatedAt, time.Minute)
}

func TestRunMigrations(t *testing.T) {
	ctx := context.Background()

	container, mongoURI, err := setupMongoContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to start MongoDB container: %v", err)
	}
	defer container.Terminate(ctx)

	cfg := testConfig(mongoURI, "bot_test_migrations")

	client, err := db.ConnectMongoDB(ctx, cfg)
	require.NoError(t, err)
	defer db.DisconnectMongoDB(ctx, client)

	require.NoError(t, db.RunMigrations(ctx, client, cfg))
	// second run is a no-op
	require.NoError(t, db.RunMigrations(ctx, client, cfg))

	history := client.Database(cfg.DBBot).Collection("migrations_history")
	count, err := history.CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	cursor, err := client.Database(cfg.DBBot).Collection(cfg.CollectionLookups).Indexes().List(ctx)
	require.NoError(t, err)
	var indexes []bson.M
	require.NoError(t, cursor.All(ctx, &indexes))

	names := map[string]bool{}
	for _, idx := range indexes {
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	assert.True(t, names["chat_id_created_at"], "missing chat index: %v", names)
	assert.True(t, names["created_at"], "missing age index: %v", names)
}

func TestConnectMongoDB_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cfg := testConfig("mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200", "unused")

	_, err := db.ConnectMongoDB(ctx, cfg)
	assert.Error(t, err)
}
