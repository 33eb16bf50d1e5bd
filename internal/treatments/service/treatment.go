package service

import (
	"context"
	"errors"

	treatmentserrors "clinicslots/internal/treatments/errors"
	"clinicslots/internal/treatments/repository"
	"clinicslots/internal/treatments/validator"
	"clinicslots/pkg/auth"
	"clinicslots/pkg/config"
	apperrors "clinicslots/pkg/errors"
	"clinicslots/pkg/model"
	"clinicslots/pkg/sanitizer"
	"clinicslots/pkg/tracing"
	"clinicslots/pkg/validation"
)

type TreatmentService interface {
	List(ctx context.Context) ([]*model.Treatment, error)
	GetByName(ctx context.Context, name string) (*model.Treatment, error)
	Upsert(ctx context.Context, treatment *model.Treatment, caller *auth.Identity) error
}

type treatmentService struct {
	repo      repository.TreatmentRepository
	validator *validator.TreatmentValidator
	cfg       *config.Config
}

func NewTreatmentService(repo repository.TreatmentRepository, validator *validator.TreatmentValidator, cfg *config.Config) TreatmentService {
	return &treatmentService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *treatmentService) List(ctx context.Context) (treatments []*model.Treatment, err error) {
	ctx, span := tracing.Start(ctx, "treatments.List")
	defer func() { tracing.End(span, err) }()

	treatments, err = s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list treatments", "error", err)
		return nil, apperrors.Internal("Failed to list treatments", err)
	}
	return treatments, nil
}

func (s *treatmentService) GetByName(ctx context.Context, name string) (treatment *model.Treatment, err error) {
	ctx, span := tracing.Start(ctx, "treatments.GetByName")
	defer func() { tracing.End(span, err) }()

	name = sanitizer.NormalizeName(name)
	if name == "" {
		return nil, apperrors.InvalidInput("Treatment name cannot be empty")
	}

	treatment, err = s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, treatmentserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Treatment", name)
		}
		return nil, apperrors.Internal("Failed to retrieve treatment", err)
	}
	return treatment, nil
}

func (s *treatmentService) Upsert(ctx context.Context, treatment *model.Treatment, caller *auth.Identity) (err error) {
	ctx, span := tracing.Start(ctx, "treatments.Upsert")
	defer func() { tracing.End(span, err) }()

	if caller == nil {
		return apperrors.Unauthorized("Authentication required")
	}
	if !caller.IsAdmin {
		return apperrors.Forbidden("Only administrators can modify the catalog")
	}

	treatment.Name = sanitizer.NormalizeName(treatment.Name)
	treatment.Slots = sanitizer.NormalizeSlots(treatment.Slots)

	if err := s.validator.Validate(treatment); err != nil {
		s.cfg.Log.Warn("Treatment validation failed", "name", treatment.Name, "error", err)
		var fields validation.ValidationErrors
		if errors.As(err, &fields) {
			return apperrors.Validation("Treatment validation failed", fields.Fields())
		}
		return apperrors.Validation("Treatment validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Upsert(ctx, treatment); err != nil {
		s.cfg.Log.Error("Failed to upsert treatment", "name", treatment.Name, "error", err)
		return apperrors.Internal("Failed to save treatment", err)
	}

	s.cfg.Log.Info("Treatment saved",
		"name", treatment.Name,
		"base_price", treatment.BasePrice,
		"slots", len(treatment.Slots),
		"by", caller.SubjectID,
	)
	return nil
}
