package service

import (
	"context"
	"errors"
	"strings"
	"time"

	bookingserrors "clinicslots/internal/bookings/errors"
	bookingsrepo "clinicslots/internal/bookings/repository"
	paymentserrors "clinicslots/internal/payments/errors"
	"clinicslots/internal/payments/repository"
	"clinicslots/internal/payments/validator"
	treatmentserrors "clinicslots/internal/treatments/errors"
	treatmentsrepo "clinicslots/internal/treatments/repository"
	"clinicslots/pkg/auth"
	"clinicslots/pkg/config"
	apperrors "clinicslots/pkg/errors"
	"clinicslots/pkg/model"
	"clinicslots/pkg/payment"
	"clinicslots/pkg/tracing"
	"clinicslots/pkg/validation"
)

type Notifier interface {
	Notify(ctx context.Context, kind model.NotificationKind, reservation model.Reservation)
}

type PaymentService interface {
	RecordPayment(ctx context.Context, reservationID string, confirmation *model.PaymentConfirmation, caller *auth.Identity) (*model.Reservation, error)
	CreateChargeIntent(ctx context.Context, req *model.ChargeIntentRequest, caller *auth.Identity) (*model.ChargeIntent, error)
	GetPayment(ctx context.Context, reservationID string, caller *auth.Identity) (*model.Payment, error)
}

type paymentService struct {
	bookings   bookingsrepo.BookingRepository
	payments   repository.PaymentRepository
	treatments treatmentsrepo.TreatmentRepository
	processor  payment.Processor
	validator  *validator.PaymentValidator
	notifier   Notifier
	cfg        *config.Config
	now        func() time.Time
}

func NewPaymentService(
	bookings bookingsrepo.BookingRepository,
	payments repository.PaymentRepository,
	treatments treatmentsrepo.TreatmentRepository,
	processor payment.Processor,
	validator *validator.PaymentValidator,
	notifier Notifier,
	cfg *config.Config,
) PaymentService {
	return &paymentService{
		bookings:   bookings,
		payments:   payments,
		treatments: treatments,
		processor:  processor,
		validator:  validator,
		notifier:   notifier,
		cfg:        cfg,
		now:        time.Now,
	}
}

// RecordPayment marks a pending reservation paid. The transition happens at
// most once: later confirmations return the stored record untouched and do
// not notify again.
func (s *paymentService) RecordPayment(ctx context.Context, reservationID string, confirmation *model.PaymentConfirmation, caller *auth.Identity) (result *model.Reservation, err error) {
	ctx, span := tracing.Start(ctx, "payments.RecordPayment")
	defer func() { tracing.End(span, err) }()

	confirmation.TransactionID = strings.TrimSpace(confirmation.TransactionID)
	if err := s.validate(s.validator.ValidateConfirmation(confirmation)); err != nil {
		return nil, err
	}

	if _, err := s.authorizedReservation(ctx, reservationID, caller); err != nil {
		return nil, err
	}

	var transitioned bool
	err = s.bookings.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		reservation, changed, err := s.bookings.MarkPaid(txCtx, reservationID, confirmation.TransactionID, s.now())
		if err != nil {
			return err
		}
		result, transitioned = reservation, changed
		if !changed {
			return nil
		}

		return s.payments.Insert(txCtx, &model.Payment{
			ReservationID: reservationID,
			TransactionID: confirmation.TransactionID,
			Amount:        confirmation.Amount,
		})
	})
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, translateReservationError(err, reservationID)
		}
		s.cfg.Log.Error("Failed to record payment", "reservation_id", reservationID, "error", err)
		return nil, apperrors.Internal("Failed to record payment", err)
	}

	if !transitioned {
		s.cfg.Log.Info("Payment already recorded",
			"reservation_id", reservationID,
			"transaction_id", result.TransactionID,
			"ignored_transaction_id", confirmation.TransactionID,
		)
		return result, nil
	}

	s.cfg.Log.Info("Reservation paid",
		"reservation_id", reservationID,
		"transaction_id", confirmation.TransactionID,
		"amount", confirmation.Amount,
	)
	s.notifier.Notify(ctx, model.PaymentConfirmed, *result)
	return result, nil
}

// CreateChargeIntent asks the processor for a client token covering the
// treatment's base price.
func (s *paymentService) CreateChargeIntent(ctx context.Context, req *model.ChargeIntentRequest, caller *auth.Identity) (intent *model.ChargeIntent, err error) {
	ctx, span := tracing.Start(ctx, "payments.CreateChargeIntent")
	defer func() { tracing.End(span, err) }()

	req.ReservationID = strings.TrimSpace(req.ReservationID)
	if err := s.validate(s.validator.ValidateIntentRequest(req)); err != nil {
		return nil, err
	}

	reservation, err := s.authorizedReservation(ctx, req.ReservationID, caller)
	if err != nil {
		return nil, err
	}
	if reservation.Paid {
		return nil, apperrors.Conflict("Reservation is already paid")
	}

	treatment, err := s.treatments.FindByName(ctx, reservation.Treatment)
	if err != nil {
		if errors.Is(err, treatmentserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Treatment", reservation.Treatment)
		}
		return nil, apperrors.Internal("Failed to load treatment", err)
	}

	amount := payment.MinorUnits(treatment.BasePrice)
	token, err := s.processor.CreateChargeToken(ctx, amount)
	if err != nil {
		s.cfg.Log.Error("Payment processor request failed",
			"reservation_id", reservation.ID,
			"amount", amount,
			"error", err,
		)
		if errors.Is(err, payment.ErrInvalidAmount) {
			return nil, apperrors.Internal("Invalid charge amount", err)
		}
		return nil, apperrors.Unavailable("payment processor", err)
	}

	s.cfg.Log.Info("Charge intent created", "reservation_id", reservation.ID, "amount", amount)
	return &model.ChargeIntent{
		ClientSecret: token,
		Amount:       amount,
		Currency:     s.cfg.PaymentCurrency,
	}, nil
}

func (s *paymentService) GetPayment(ctx context.Context, reservationID string, caller *auth.Identity) (p *model.Payment, err error) {
	ctx, span := tracing.Start(ctx, "payments.GetPayment")
	defer func() { tracing.End(span, err) }()

	if _, err := s.authorizedReservation(ctx, reservationID, caller); err != nil {
		return nil, err
	}

	p, err = s.payments.FindByReservation(ctx, reservationID)
	if err != nil {
		if errors.Is(err, paymentserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Payment")
		}
		s.cfg.Log.Error("Failed to load payment", "reservation_id", reservationID, "error", err)
		return nil, apperrors.Internal("Failed to load payment", err)
	}
	return p, nil
}

// authorizedReservation loads the reservation and checks the caller may act
// on it. Nothing is mutated before this passes.
func (s *paymentService) authorizedReservation(ctx context.Context, id string, caller *auth.Identity) (*model.Reservation, error) {
	if caller == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	reservation, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, translateReservationError(err, id)
	}

	if !caller.CanAccess(reservation.PatientID) {
		s.cfg.Log.Warn("Payment access denied", "reservation_id", id, "caller", caller.SubjectID)
		return nil, apperrors.Forbidden("Not allowed to pay for this reservation")
	}
	return reservation, nil
}

func translateReservationError(err error, id string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Reservation", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid reservation ID format")
	default:
		return apperrors.Internal("Failed to retrieve reservation", err)
	}
}

func (s *paymentService) validate(err error) error {
	if err == nil {
		return nil
	}
	s.cfg.Log.Warn("Payment validation failed", "error", err)
	var fields validation.ValidationErrors
	if errors.As(err, &fields) {
		return apperrors.Validation("Payment validation failed", fields.Fields())
	}
	return apperrors.Validation("Payment validation failed", map[string]any{"error": err.Error()})
}
