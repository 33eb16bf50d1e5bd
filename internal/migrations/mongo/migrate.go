package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingsrepo "clinicslots/internal/bookings/repository"
	doctorsrepo "clinicslots/internal/doctors/repository"
	"clinicslots/internal/migrations/mongo/validators"
	paymentsrepo "clinicslots/internal/payments/repository"
	treatmentsrepo "clinicslots/internal/treatments/repository"
	"clinicslots/pkg/logger"
	"clinicslots/pkg/model"
)

var (
	// Slot exclusivity and one-reservation-per-patient-per-day are enforced
	// here, not in application code.
	BookingsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "treatment", Value: 1},
				{Key: "date", Value: 1},
				{Key: "slot", Value: 1},
			},
			Options: options.Index().SetName(bookingsrepo.IndexTreatmentDateSlot).SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "treatment", Value: 1},
				{Key: "date", Value: 1},
				{Key: "patient_id", Value: 1},
			},
			Options: options.Index().SetName(bookingsrepo.IndexTreatmentDatePatient).SetUnique(true),
		},
		{Keys: bson.D{{Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "patient_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	PaymentsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "reservation_id", Value: 1}},
			Options: options.Index().SetName(paymentsrepo.IndexReservation).SetUnique(true),
		},
		{Keys: bson.D{{Key: "transaction_id", Value: 1}}},
	}

	DoctorsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "specialty", Value: 1}}},
	}
)

type CollectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func Collections() map[string]CollectionDef {
	return map[string]CollectionDef{
		treatmentsrepo.CollectionName: {Validator: validators.TreatmentValidator},
		bookingsrepo.CollectionName:   {Indexes: BookingsIndexes, Validator: validators.BookingValidator},
		paymentsrepo.CollectionName:   {Indexes: PaymentsIndexes, Validator: validators.PaymentValidator},
		doctorsrepo.CollectionName:    {Indexes: DoctorsIndexes, Validator: validators.DoctorValidator},
	}
}

// RunMigration creates the collections with their schema validators and
// indexes. It is safe to run repeatedly. Seed treatments are upserted by
// name so re-running does not duplicate them.
func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger, seed ...model.Treatment) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if len(def.Indexes) == 0 {
			continue
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	if err := seedTreatments(ctx, db, seed, log); err != nil {
		return fmt.Errorf("failed to seed treatments: %w", err)
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	coll := db.Collection(name)
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}

func seedTreatments(ctx context.Context, db *mongo.Database, treatments []model.Treatment, log *logger.Logger) error {
	coll := db.Collection(treatmentsrepo.CollectionName)
	for _, t := range treatments {
		_, err := coll.UpdateOne(ctx,
			bson.M{"_id": t.Name},
			bson.M{"$setOnInsert": bson.M{"base_price": t.BasePrice, "slots": t.Slots}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed %s: %w", t.Name, err)
		}
	}
	if len(treatments) > 0 {
		log.Info("Seeded treatments", "count", len(treatments))
	}
	return nil
}
