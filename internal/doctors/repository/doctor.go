package repository

import (
	"context"
	"errors"
	"fmt"

	doctorserrors "clinicslots/internal/doctors/errors"
	"clinicslots/pkg/config"
	mongotx "clinicslots/pkg/db/mongo"
	"clinicslots/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Doctors"
)

type DoctorRepository interface {
	FindAll(ctx context.Context) ([]*model.Doctor, error)
	FindByEmail(ctx context.Context, email string) (*model.Doctor, error)
	Upsert(ctx context.Context, doctor *model.Doctor) error
	// Delete removes the doctor with the given e-mail or returns ErrNotFound.
	Delete(ctx context.Context, email string) error
}

type mongoDoctorRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoDoctorRepository(cfg *config.Config) DoctorRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDoctorRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoDoctorRepository) FindAll(ctx context.Context) ([]*model.Doctor, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find doctors: %w", err)
	}
	defer cursor.Close(ctx)

	doctors := []*model.Doctor{}
	if err = cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("failed to decode doctors: %w", err)
	}
	return doctors, nil
}

func (r *mongoDoctorRepository) FindByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var doctor model.Doctor
	err := r.collection.FindOne(ctx, bson.M{"_id": email}).Decode(&doctor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, doctorserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find doctor: %w", err)
	}
	return &doctor, nil
}

func (r *mongoDoctorRepository) Upsert(ctx context.Context, doctor *model.Doctor) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doctor.Email}, doctor, opts); err != nil {
		return fmt.Errorf("failed to upsert doctor: %w", err)
	}
	return nil
}

func (r *mongoDoctorRepository) Delete(ctx context.Context, email string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": email})
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	if result.DeletedCount == 0 {
		return doctorserrors.ErrNotFound
	}
	return nil
}
