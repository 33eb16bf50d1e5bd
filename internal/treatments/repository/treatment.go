package repository

import (
	"context"
	"errors"
	"fmt"

	treatmentserrors "clinicslots/internal/treatments/errors"
	"clinicslots/pkg/config"
	mongotx "clinicslots/pkg/db/mongo"
	"clinicslots/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Treatments"
)

type TreatmentRepository interface {
	FindAll(ctx context.Context) ([]*model.Treatment, error)
	FindByName(ctx context.Context, name string) (*model.Treatment, error)
	Upsert(ctx context.Context, treatment *model.Treatment) error
}

type mongoTreatmentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTreatmentRepository(cfg *config.Config) TreatmentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTreatmentRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoTreatmentRepository) FindAll(ctx context.Context) ([]*model.Treatment, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find treatments: %w", err)
	}
	defer cursor.Close(ctx)

	treatments := []*model.Treatment{}
	if err = cursor.All(ctx, &treatments); err != nil {
		return nil, fmt.Errorf("failed to decode treatments: %w", err)
	}

	return treatments, nil
}

func (r *mongoTreatmentRepository) FindByName(ctx context.Context, name string) (*model.Treatment, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var treatment model.Treatment
	err := r.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&treatment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, treatmentserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find treatment: %w", err)
	}

	return &treatment, nil
}

func (r *mongoTreatmentRepository) Upsert(ctx context.Context, treatment *model.Treatment) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": treatment.Name}, treatment, opts); err != nil {
		return fmt.Errorf("failed to upsert treatment: %w", err)
	}
	return nil
}
