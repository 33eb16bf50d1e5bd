package service

import (
	"context"
	"errors"

	bookingserrors "clinicslots/internal/bookings/errors"
	"clinicslots/internal/bookings/repository"
	"clinicslots/internal/bookings/validator"
	treatmentserrors "clinicslots/internal/treatments/errors"
	treatmentsrepo "clinicslots/internal/treatments/repository"
	"clinicslots/pkg/auth"
	"clinicslots/pkg/config"
	apperrors "clinicslots/pkg/errors"
	"clinicslots/pkg/model"
	"clinicslots/pkg/sanitizer"
	"clinicslots/pkg/tracing"
	"clinicslots/pkg/validation"
)

// Notifier receives reservation events. Implementations must not block
// on delivery.
type Notifier interface {
	Notify(ctx context.Context, kind model.NotificationKind, reservation model.Reservation)
}

type BookingService interface {
	Submit(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error)
	GetByID(ctx context.Context, id string, caller *auth.Identity) (*model.Reservation, error)
	ListForPatient(ctx context.Context, patientID string, caller *auth.Identity) ([]*model.Reservation, error)
}

type bookingService struct {
	repo       repository.BookingRepository
	treatments treatmentsrepo.TreatmentRepository
	validator  *validator.BookingValidator
	notifier   Notifier
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	treatments treatmentsrepo.TreatmentRepository,
	validator *validator.BookingValidator,
	notifier Notifier,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		treatments: treatments,
		validator:  validator,
		notifier:   notifier,
		cfg:        cfg,
	}
}

// Submit admits a booking request. Conflicts are not errors: they come back
// as a result with Accepted=false, a Reason, and the blocking reservation.
func (s *bookingService) Submit(ctx context.Context, req *model.BookingRequest) (result *model.BookingResult, err error) {
	ctx, span := tracing.Start(ctx, "bookings.Submit")
	defer func() { tracing.End(span, err) }()

	s.sanitize(req)
	if err := s.validate(req); err != nil {
		return nil, err
	}

	if err := s.verifySlot(ctx, req); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByPatientDay(ctx, req.Treatment, req.Date, req.PatientID)
	switch {
	case err == nil:
		s.cfg.Log.Info("Duplicate booking request",
			"reservation_id", existing.ID,
			"treatment", req.Treatment,
			"date", req.Date,
		)
		return rejected(model.BookingReasonAlreadyBooked, existing), nil
	case !errors.Is(err, bookingserrors.ErrNotFound):
		s.cfg.Log.Error("Failed to check existing reservations", "error", err)
		return nil, apperrors.Internal("Failed to check existing reservations", err)
	}

	reservation := &model.Reservation{
		Treatment:   req.Treatment,
		Date:        req.Date,
		Slot:        req.Slot,
		PatientID:   req.PatientID,
		PatientName: req.PatientName,
		Paid:        false,
	}

	if err := s.repo.Insert(ctx, reservation); err != nil {
		return s.resolveInsertConflict(ctx, req, err)
	}

	s.cfg.Log.Info("Reservation created",
		"reservation_id", reservation.ID,
		"treatment", reservation.Treatment,
		"date", reservation.Date,
		"slot", reservation.Slot,
	)
	s.notifier.Notify(ctx, model.BookingConfirmed, *reservation)

	return &model.BookingResult{Accepted: true, Reservation: reservation}, nil
}

// resolveInsertConflict turns a lost insert race into a rejection carrying
// the winning reservation.
func (s *bookingService) resolveInsertConflict(ctx context.Context, req *model.BookingRequest, insertErr error) (*model.BookingResult, error) {
	var (
		reason string
		holder *model.Reservation
		err    error
	)

	switch {
	case errors.Is(insertErr, bookingserrors.ErrSlotTaken):
		reason = model.BookingReasonSlotTaken
		holder, err = s.repo.FindBySlot(ctx, req.Treatment, req.Date, req.Slot)
	case errors.Is(insertErr, bookingserrors.ErrPatientAlreadyBooked):
		reason = model.BookingReasonAlreadyBooked
		holder, err = s.repo.FindByPatientDay(ctx, req.Treatment, req.Date, req.PatientID)
	default:
		s.cfg.Log.Error("Failed to insert reservation", "error", insertErr)
		return nil, apperrors.Internal("Failed to create reservation", insertErr)
	}

	if err != nil {
		s.cfg.Log.Error("Failed to load conflicting reservation", "reason", reason, "error", err)
		return nil, apperrors.Internal("Failed to load conflicting reservation", err)
	}

	s.cfg.Log.Warn("Booking rejected",
		"reason", reason,
		"treatment", req.Treatment,
		"date", req.Date,
		"slot", req.Slot,
		"holder_id", holder.ID,
	)
	return rejected(reason, holder), nil
}

func rejected(reason string, holder *model.Reservation) *model.BookingResult {
	return &model.BookingResult{Accepted: false, Reason: reason, Reservation: holder}
}

func (s *bookingService) verifySlot(ctx context.Context, req *model.BookingRequest) error {
	treatment, err := s.treatments.FindByName(ctx, req.Treatment)
	if err != nil {
		if errors.Is(err, treatmentserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Treatment", req.Treatment)
		}
		s.cfg.Log.Error("Failed to load treatment", "treatment", req.Treatment, "error", err)
		return apperrors.Internal("Failed to load treatment", err)
	}

	if !treatment.HasSlot(req.Slot) {
		s.cfg.Log.Warn("Booking for unknown slot", "treatment", req.Treatment, "slot", req.Slot)
		return apperrors.Validation("Booking validation failed", map[string]any{
			"slot": "slot " + req.Slot + " is not offered for " + req.Treatment,
		})
	}
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string, caller *auth.Identity) (reservation *model.Reservation, err error) {
	ctx, span := tracing.Start(ctx, "bookings.GetByID")
	defer func() { tracing.End(span, err) }()

	if caller == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateFindError(err, id)
	}

	if !caller.CanAccess(reservation.PatientID) {
		s.cfg.Log.Warn("Reservation access denied", "reservation_id", id, "caller", caller.SubjectID)
		return nil, apperrors.Forbidden("Not allowed to access this reservation")
	}
	return reservation, nil
}

func (s *bookingService) ListForPatient(ctx context.Context, patientID string, caller *auth.Identity) (reservations []*model.Reservation, err error) {
	ctx, span := tracing.Start(ctx, "bookings.ListForPatient")
	defer func() { tracing.End(span, err) }()

	if caller == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	patientID = sanitizer.NormalizePatientID(patientID)
	if patientID == "" {
		return nil, apperrors.InvalidInput("patient is required")
	}
	if caller.SubjectID != patientID {
		s.cfg.Log.Warn("Patient listing denied", "patient_id", patientID, "caller", caller.SubjectID)
		return nil, apperrors.Forbidden("Not allowed to list reservations of another patient")
	}

	reservations, err = s.repo.FindByPatient(ctx, patientID)
	if err != nil {
		s.cfg.Log.Error("Failed to list reservations", "error", err)
		return nil, apperrors.Internal("Failed to list reservations", err)
	}
	return reservations, nil
}

// translateFindError maps repository lookup errors onto AppErrors.
func translateFindError(err error, id string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Reservation", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid reservation ID format")
	default:
		return apperrors.Internal("Failed to retrieve reservation", err)
	}
}

func (s *bookingService) sanitize(req *model.BookingRequest) {
	req.Treatment = sanitizer.NormalizeName(req.Treatment)
	req.Date = sanitizer.TrimAndNormalize(req.Date)
	req.Slot = sanitizer.NormalizeSlot(req.Slot)
	req.PatientID = sanitizer.NormalizePatientID(req.PatientID)
	req.PatientName = sanitizer.TrimAndNormalize(req.PatientName)
}

func (s *bookingService) validate(req *model.BookingRequest) error {
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		var fields validation.ValidationErrors
		if errors.As(err, &fields) {
			return apperrors.Validation("Booking validation failed", fields.Fields())
		}
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
