package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	paymentserrors "clinicslots/internal/payments/errors"
	"clinicslots/pkg/config"
	mongotx "clinicslots/pkg/db/mongo"
	"clinicslots/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "Payments"

	IndexReservation = "uniq_reservation_id"
)

type PaymentRepository interface {
	Insert(ctx context.Context, payment *model.Payment) error
	FindByReservation(ctx context.Context, reservationID string) (*model.Payment, error)
}

type mongoPaymentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoPaymentRepository(cfg *config.Config) PaymentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPaymentRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoPaymentRepository) Insert(ctx context.Context, payment *model.Payment) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	payment.ID = ""
	payment.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", paymentserrors.ErrDuplicate, err)
		}
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		payment.ID = oid.Hex()
	}
	return nil
}

func (r *mongoPaymentRepository) FindByReservation(ctx context.Context, reservationID string) (*model.Payment, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var payment model.Payment
	err := r.collection.FindOne(ctx, bson.M{"reservation_id": reservationID}).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, paymentserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return &payment, nil
}
