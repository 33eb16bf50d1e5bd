package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuthorizer_RoundTrip(t *testing.T) {
	a := NewJWTAuthorizer("0123456789abcdef")

	token, err := a.Issue("patient@example.com", RolePatient, time.Hour)
	require.NoError(t, err)

	id, err := a.Authorize(token)
	require.NoError(t, err)
	assert.Equal(t, "patient@example.com", id.SubjectID)
	assert.False(t, id.IsAdmin)
}

func TestJWTAuthorizer_AdminRole(t *testing.T) {
	a := NewJWTAuthorizer("0123456789abcdef")

	token, err := a.Issue("root@example.com", RoleAdmin, time.Hour)
	require.NoError(t, err)

	id, err := a.Authorize(token)
	require.NoError(t, err)
	assert.True(t, id.IsAdmin)
}

func TestJWTAuthorizer_Rejects(t *testing.T) {
	a := NewJWTAuthorizer("0123456789abcdef")
	other := NewJWTAuthorizer("fedcba9876543210")

	foreign, err := other.Issue("p@example.com", RolePatient, time.Hour)
	require.NoError(t, err)

	expiredIssuer := NewJWTAuthorizer("0123456789abcdef")
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredIssuer.Issue("p@example.com", RolePatient, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"wrong secret", foreign},
		{"expired", expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Authorize(tt.token)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}

func TestIdentity_CanAccess(t *testing.T) {
	var anonymous *Identity
	patient := &Identity{SubjectID: "p@example.com"}
	admin := &Identity{SubjectID: "a@example.com", IsAdmin: true}

	assert.False(t, anonymous.CanAccess("p@example.com"))
	assert.True(t, patient.CanAccess("p@example.com"))
	assert.False(t, patient.CanAccess("q@example.com"))
	assert.True(t, admin.CanAccess("q@example.com"))
}

func TestContextRoundTrip(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	id := &Identity{SubjectID: "p@example.com"}
	assert.Same(t, id, FromContext(WithIdentity(context.Background(), id)))
}
