// Package testutil holds helpers for tests that run against a live MongoDB.
// They are compiled only into tests built with the integration tag.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	mongoMigration "clinicslots/internal/migrations/mongo"
	"clinicslots/pkg/client"
	"clinicslots/pkg/config"
	"clinicslots/pkg/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMongoURI   = "mongodb://localhost:27017"
	ConnectionTimeout = 5 * time.Second
)

// MongoConfig connects to MONGO_URI, migrates a throwaway database and
// returns a Config pointing at it. The database is dropped when the test
// ends. The test is skipped when no server answers.
func MongoConfig(t *testing.T) *config.Config {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = DefaultMongoURI
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("MongoDB unavailable: %v", err)
	}
	if err := mc.Ping(ctx, nil); err != nil {
		_ = mc.Disconnect(context.Background())
		t.Skipf("MongoDB unavailable: %v", err)
	}

	dbName := fmt.Sprintf("clinicslots_test_%s", uuid.NewString()[:8])
	log := logger.Discard()
	if err := mongoMigration.RunMigration(ctx, mc, dbName, log); err != nil {
		t.Fatalf("failed to migrate %s: %v", dbName, err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
		defer cancel()
		if err := mc.Database(dbName).Drop(ctx); err != nil {
			t.Logf("warning: failed to drop %s: %v", dbName, err)
		}
		if err := mc.Disconnect(ctx); err != nil {
			t.Logf("warning: failed to disconnect from MongoDB: %v", err)
		}
	})

	return &config.Config{
		MongoDatabaseName: dbName,
		ReadTimeout:       ConnectionTimeout,
		WriteTimeout:      ConnectionTimeout,
		Log:               log,
		Client:            &client.Client{Mongo: mc},
	}
}
