package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	RoleAdmin   = "admin"
	RolePatient = "patient"
)

// Identity is what the rest of the system knows about a caller.
type Identity struct {
	SubjectID string
	IsAdmin   bool
}

// CanAccess reports whether the caller may act on a record owned by ownerID.
func (id *Identity) CanAccess(ownerID string) bool {
	if id == nil {
		return false
	}
	return id.IsAdmin || id.SubjectID == ownerID
}

type Authorizer interface {
	Authorize(token string) (*Identity, error)
}

// JWTAuthorizer validates HS256 tokens whose "sub" claim is the patient id
// and whose optional "role" claim marks administrators.
type JWTAuthorizer struct {
	secret []byte
	now    func() time.Time
}

func NewJWTAuthorizer(secret string) *JWTAuthorizer {
	return &JWTAuthorizer{secret: []byte(secret), now: time.Now}
}

func (a *JWTAuthorizer) Issue(subject, role string, ttl time.Duration) (string, error) {
	now := a.now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *JWTAuthorizer) Authorize(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}

	role, _ := claims["role"].(string)
	return &Identity{SubjectID: sub, IsAdmin: role == RoleAdmin}, nil
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the authenticated caller, or nil for anonymous requests.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
