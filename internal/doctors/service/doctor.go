package service

import (
	"context"
	"errors"

	doctorserrors "clinicslots/internal/doctors/errors"
	"clinicslots/internal/doctors/repository"
	"clinicslots/internal/doctors/validator"
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

// DoctorService manages the doctor directory. Every operation is reserved
// to administrators.
type DoctorService interface {
	List(ctx context.Context, caller *auth.Identity) ([]*model.Doctor, error)
	Upsert(ctx context.Context, doctor *model.Doctor, caller *auth.Identity) error
	Delete(ctx context.Context, email string, caller *auth.Identity) error
}

type doctorService struct {
	repo       repository.DoctorRepository
	treatments treatmentsrepo.TreatmentRepository
	validator  *validator.DoctorValidator
	cfg        *config.Config
}

func NewDoctorService(repo repository.DoctorRepository, treatments treatmentsrepo.TreatmentRepository, validator *validator.DoctorValidator, cfg *config.Config) DoctorService {
	return &doctorService{
		repo:       repo,
		treatments: treatments,
		validator:  validator,
		cfg:        cfg,
	}
}

func requireAdmin(caller *auth.Identity) error {
	if caller == nil {
		return apperrors.Unauthorized("Authentication required")
	}
	if !caller.IsAdmin {
		return apperrors.Forbidden("Only administrators can manage doctors")
	}
	return nil
}

func (s *doctorService) List(ctx context.Context, caller *auth.Identity) (doctors []*model.Doctor, err error) {
	ctx, span := tracing.Start(ctx, "doctors.List")
	defer func() { tracing.End(span, err) }()

	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	doctors, err = s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list doctors", "error", err)
		return nil, apperrors.Internal("Failed to list doctors", err)
	}
	return doctors, nil
}

func (s *doctorService) Upsert(ctx context.Context, doctor *model.Doctor, caller *auth.Identity) (err error) {
	ctx, span := tracing.Start(ctx, "doctors.Upsert")
	defer func() { tracing.End(span, err) }()

	if err := requireAdmin(caller); err != nil {
		return err
	}

	doctor.Email = sanitizer.NormalizeEmail(doctor.Email)
	doctor.Name = sanitizer.NormalizeName(doctor.Name)
	doctor.Specialty = sanitizer.NormalizeName(doctor.Specialty)
	doctor.ImageURL = sanitizer.TrimAndNormalize(doctor.ImageURL)

	if err := s.validator.Validate(doctor); err != nil {
		s.cfg.Log.Warn("Doctor validation failed", "email", doctor.Email, "error", err)
		var fields validation.ValidationErrors
		if errors.As(err, &fields) {
			return apperrors.Validation("Doctor validation failed", fields.Fields())
		}
		return apperrors.Validation("Doctor validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.treatments.FindByName(ctx, doctor.Specialty); err != nil {
		if errors.Is(err, treatmentserrors.ErrNotFound) {
			return apperrors.Validation("Doctor validation failed", map[string]any{
				"specialty": "no treatment named " + doctor.Specialty,
			})
		}
		s.cfg.Log.Error("Failed to look up specialty", "specialty", doctor.Specialty, "error", err)
		return apperrors.Internal("Failed to save doctor", err)
	}

	if err := s.repo.Upsert(ctx, doctor); err != nil {
		s.cfg.Log.Error("Failed to upsert doctor", "email", doctor.Email, "error", err)
		return apperrors.Internal("Failed to save doctor", err)
	}

	s.cfg.Log.Info("Doctor saved", "email", doctor.Email, "specialty", doctor.Specialty, "by", caller.SubjectID)
	return nil
}

func (s *doctorService) Delete(ctx context.Context, email string, caller *auth.Identity) (err error) {
	ctx, span := tracing.Start(ctx, "doctors.Delete")
	defer func() { tracing.End(span, err) }()

	if err := requireAdmin(caller); err != nil {
		return err
	}

	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return apperrors.InvalidInput("Doctor e-mail cannot be empty")
	}

	if err := s.repo.Delete(ctx, email); err != nil {
		if errors.Is(err, doctorserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Doctor", email)
		}
		s.cfg.Log.Error("Failed to delete doctor", "email", email, "error", err)
		return apperrors.Internal("Failed to delete doctor", err)
	}

	s.cfg.Log.Info("Doctor deleted", "email", email, "by", caller.SubjectID)
	return nil
}
