package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingserrors "clinicslots/internal/bookings/errors"
	"clinicslots/pkg/config"
	mongotx "clinicslots/pkg/db/mongo"
	"clinicslots/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"

	// Unique index names. Insert inspects duplicate-key errors for them.
	IndexTreatmentDateSlot    = "uniq_treatment_date_slot"
	IndexTreatmentDatePatient = "uniq_treatment_date_patient"
)

type BookingRepository interface {
	// Insert stores a new reservation and sets its ID and CreatedAt. It
	// returns ErrSlotTaken or ErrPatientAlreadyBooked when a uniqueness
	// rule would be broken; nothing is written in that case.
	Insert(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	FindByDate(ctx context.Context, date string) ([]*model.Reservation, error)
	FindByPatient(ctx context.Context, patientID string) ([]*model.Reservation, error)
	FindBySlot(ctx context.Context, treatment, date, slot string) (*model.Reservation, error)
	FindByPatientDay(ctx context.Context, treatment, date, patientID string) (*model.Reservation, error)
	// MarkPaid flips paid from false to true and records transactionID. When
	// the reservation is already paid it returns the stored record unchanged
	// with transitioned=false. A missing reservation yields ErrNotFound.
	MarkPaid(ctx context.Context, id, transactionID string, paidAt time.Time) (reservation *model.Reservation, transitioned bool, err error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) Insert(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	reservation.ID = ""
	reservation.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, reservation)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateKeyCause(err)
		}
		return fmt.Errorf("failed to insert reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reservation.ID = oid.Hex()
	}
	return nil
}

// duplicateKeyCause maps a duplicate-key error onto the index that raised it.
// Only the "index: <name> " token is inspected; the dup key values that follow
// it are user input.
func duplicateKeyCause(err error) error {
	switch violatedIndex(err.Error()) {
	case IndexTreatmentDateSlot:
		return fmt.Errorf("%w: %v", bookingserrors.ErrSlotTaken, err)
	case IndexTreatmentDatePatient:
		return fmt.Errorf("%w: %v", bookingserrors.ErrPatientAlreadyBooked, err)
	default:
		return fmt.Errorf("failed to insert reservation: %w", err)
	}
}

func violatedIndex(msg string) string {
	if dup := strings.Index(msg, " dup key:"); dup >= 0 {
		msg = msg[:dup]
	}
	_, rest, ok := strings.Cut(msg, "index: ")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(rest, " ")
	return strings.TrimSpace(name)
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}
	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *mongoBookingRepository) FindBySlot(ctx context.Context, treatment, date, slot string) (*model.Reservation, error) {
	return r.findOne(ctx, bson.M{"treatment": treatment, "date": date, "slot": slot})
}

func (r *mongoBookingRepository) FindByPatientDay(ctx context.Context, treatment, date, patientID string) (*model.Reservation, error) {
	return r.findOne(ctx, bson.M{"treatment": treatment, "date": date, "patient_id": patientID})
}

func (r *mongoBookingRepository) findOne(ctx context.Context, filter bson.M) (*model.Reservation, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var reservation model.Reservation
	err := r.collection.FindOne(ctx, filter).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &reservation, nil
}

func (r *mongoBookingRepository) FindByDate(ctx context.Context, date string) ([]*model.Reservation, error) {
	return r.find(ctx, bson.M{"date": date}, bson.D{{Key: "treatment", Value: 1}, {Key: "slot", Value: 1}})
}

func (r *mongoBookingRepository) FindByPatient(ctx context.Context, patientID string) ([]*model.Reservation, error) {
	return r.find(ctx, bson.M{"patient_id": patientID}, bson.D{{Key: "date", Value: 1}, {Key: "slot", Value: 1}})
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, sort bson.D) ([]*model.Reservation, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer cursor.Close(ctx)

	reservations := []*model.Reservation{}
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoBookingRepository) MarkPaid(ctx context.Context, id, transactionID string, paidAt time.Time) (*model.Reservation, bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	wctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": objectID, "paid": false}
	update := bson.M{"$set": bson.M{
		"paid":           true,
		"transaction_id": transactionID,
		"paid_at":        paidAt.UTC().Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var reservation model.Reservation
	err = r.collection.FindOneAndUpdate(wctx, filter, update, opts).Decode(&reservation)
	if err == nil {
		return &reservation, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, fmt.Errorf("failed to mark reservation paid: %w", err)
	}

	current, err := r.findOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
