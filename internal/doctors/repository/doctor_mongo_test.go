//go:build integration

package repository_test

import (
	"context"
	"testing"

	doctorserrors "clinicslots/internal/doctors/errors"
	"clinicslots/internal/doctors/repository"
	"clinicslots/internal/testutil"
	"clinicslots/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoDoctorRepository_UpsertAndDelete(t *testing.T) {
	repo := repository.NewMongoDoctorRepository(testutil.MongoConfig(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &model.Doctor{Email: "ann@clinic.example", Name: "Ann", Specialty: "Massage"}))
	require.NoError(t, repo.Upsert(ctx, &model.Doctor{Email: "ann@clinic.example", Name: "Ann Lee", Specialty: "Massage"}))

	doctors, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Ann Lee", doctors[0].Name)

	require.NoError(t, repo.Delete(ctx, "ann@clinic.example"))
	assert.ErrorIs(t, repo.Delete(ctx, "ann@clinic.example"), doctorserrors.ErrNotFound)

	_, err = repo.FindByEmail(ctx, "ann@clinic.example")
	assert.ErrorIs(t, err, doctorserrors.ErrNotFound)
}
