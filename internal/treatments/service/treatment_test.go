package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinicslots/internal/treatments/repository"
	"clinicslots/internal/treatments/validator"
	"clinicslots/pkg/auth"
	"clinicslots/pkg/config"
	apperrors "clinicslots/pkg/errors"
	"clinicslots/pkg/logger"
	"clinicslots/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct{}

func (failingRepo) FindAll(context.Context) ([]*model.Treatment, error) {
	return nil, errors.New("connection reset")
}
func (failingRepo) FindByName(context.Context, string) (*model.Treatment, error) {
	return nil, errors.New("connection reset")
}
func (failingRepo) Upsert(context.Context, *model.Treatment) error { return errors.New("connection reset") }

func newTestService(repo repository.TreatmentRepository) TreatmentService {
	cfg := &config.Config{Log: logger.Discard(), ReadTimeout: time.Second, WriteTimeout: time.Second}
	return NewTreatmentService(repo, validator.NewTreatmentValidator(cfg.Log), cfg)
}

var admin = &auth.Identity{SubjectID: "admin@clinic", IsAdmin: true}

func TestList_SortedByName(t *testing.T) {
	svc := newTestService(repository.NewMemoryTreatmentRepository(
		model.Treatment{Name: "Massage", BasePrice: 80, Slots: []string{"10:00"}},
		model.Treatment{Name: "Acupuncture", BasePrice: 60, Slots: []string{"09:00"}},
	))

	treatments, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, treatments, 2)
	assert.Equal(t, "Acupuncture", treatments[0].Name)
	assert.Equal(t, "Massage", treatments[1].Name)
}

func TestGetByName(t *testing.T) {
	svc := newTestService(repository.NewMemoryTreatmentRepository(
		model.Treatment{Name: "Massage", BasePrice: 80, Slots: []string{"10:00", "11:00"}},
	))

	got, err := svc.GetByName(context.Background(), "  Massage ")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "11:00"}, got.Slots)

	_, err = svc.GetByName(context.Background(), "Yoga")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = svc.GetByName(context.Background(), " ")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestUpsert_RequiresAdmin(t *testing.T) {
	svc := newTestService(repository.NewMemoryTreatmentRepository())
	treatment := &model.Treatment{Name: "Massage", BasePrice: 80, Slots: []string{"10:00"}}

	err := svc.Upsert(context.Background(), treatment, nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	err = svc.Upsert(context.Background(), treatment, &auth.Identity{SubjectID: "p@x"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}

func TestUpsert_NormalizesSlots(t *testing.T) {
	repo := repository.NewMemoryTreatmentRepository()
	svc := newTestService(repo)

	err := svc.Upsert(context.Background(), &model.Treatment{
		Name:      " Massage ",
		BasePrice: 80,
		Slots:     []string{" 10:00", "11:00", "10:00 ", ""},
	}, admin)
	require.NoError(t, err)

	stored, err := repo.FindByName(context.Background(), "Massage")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "11:00"}, stored.Slots)
}

func TestUpsert_Validation(t *testing.T) {
	svc := newTestService(repository.NewMemoryTreatmentRepository())

	err := svc.Upsert(context.Background(), &model.Treatment{Name: "Massage", BasePrice: 0, Slots: []string{}}, admin)

	appErr := apperrors.AsAppError(err)
	require.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Details, "base_price")
	assert.Contains(t, appErr.Details, "slots")
}

func TestRepositoryFailuresAreInternal(t *testing.T) {
	svc := newTestService(failingRepo{})

	_, err := svc.List(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))

	_, err = svc.GetByName(context.Background(), "Massage")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}
