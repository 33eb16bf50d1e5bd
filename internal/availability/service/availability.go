package service

import (
	"context"
	"strings"

	bookingsrepo "clinicslots/internal/bookings/repository"
	treatmentsrepo "clinicslots/internal/treatments/repository"
	"clinicslots/pkg/config"
	apperrors "clinicslots/pkg/errors"
	"clinicslots/pkg/model"
	"clinicslots/pkg/tracing"
)

type AvailabilityService interface {
	ComputeAvailability(ctx context.Context, date string) ([]model.TreatmentAvailability, error)
}

type availabilityService struct {
	treatments treatmentsrepo.TreatmentRepository
	bookings   bookingsrepo.BookingRepository
	cfg        *config.Config
}

func NewAvailabilityService(
	treatments treatmentsrepo.TreatmentRepository,
	bookings bookingsrepo.BookingRepository,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		treatments: treatments,
		bookings:   bookings,
		cfg:        cfg,
	}
}

// ComputeAvailability lists, for every treatment in the catalog, the slots
// of date that hold no reservation. Reservations count whether paid or not.
func (s *availabilityService) ComputeAvailability(ctx context.Context, date string) (result []model.TreatmentAvailability, err error) {
	ctx, span := tracing.Start(ctx, "availability.Compute")
	defer func() { tracing.End(span, err) }()

	date = strings.TrimSpace(date)
	if date == "" {
		return nil, apperrors.InvalidInput("date is required")
	}

	treatments, err := s.treatments.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load catalog", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to load treatments", err)
	}

	reservations, err := s.bookings.FindByDate(ctx, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load reservations", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to load reservations", err)
	}

	used := make(map[string]map[string]bool, len(treatments))
	for _, r := range reservations {
		if used[r.Treatment] == nil {
			used[r.Treatment] = make(map[string]bool)
		}
		used[r.Treatment][r.Slot] = true
	}

	result = make([]model.TreatmentAvailability, 0, len(treatments))
	for _, t := range treatments {
		result = append(result, model.TreatmentAvailability{
			Treatment: t.Name,
			BasePrice: t.BasePrice,
			FreeSlots: FreeSlots(t.Slots, used[t.Name]),
		})
	}

	s.cfg.Log.Debug("Availability computed", "date", date, "treatments", len(result), "reservations", len(reservations))
	return result, nil
}

// FreeSlots returns template minus used, keeping template order.
func FreeSlots(template []string, used map[string]bool) []string {
	free := make([]string, 0, len(template))
	for _, slot := range template {
		if !used[slot] {
			free = append(free, slot)
		}
	}
	return free
}
