package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	mongoMigration "clinicslots/internal/migrations/mongo"
	"clinicslots/pkg/config"
	"clinicslots/pkg/model"
	"clinicslots/pkg/validation"
)

const JobName = "mongo-migration"

func main() {
	seedPath := flag.String("seed", "", "optional JSON file with treatments to insert when absent")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	if cfg.UsesMemoryStorage() {
		cfg.Log.Fatal("Migrations need STORAGE_DRIVER=mongo")
	}
	cfg.SetMongo()
	defer cfg.Client.GracefulShutdown(cfg.Log)

	seed, err := loadSeed(*seedPath)
	if err != nil {
		cfg.Log.Fatal("Invalid seed file", "path", *seedPath, "error", err)
	}

	cfg.Log.Info("Starting Mongo migration job")
	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log, seed...); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}

func loadSeed(path string) ([]model.Treatment, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var treatments []model.Treatment
	if err := json.Unmarshal(data, &treatments); err != nil {
		return nil, err
	}

	v := validation.New()
	for i := range treatments {
		if err := validation.Struct(v, &treatments[i]); err != nil {
			return nil, err
		}
	}
	return treatments, nil
}
