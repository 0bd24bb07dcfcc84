package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired   = apperr.WithReason(apperr.KindUnauthenticated, apperr.ReasonExpired, "Login token expired", "Please login again")
	ErrTokenMalformed = apperr.WithReason(apperr.KindUnauthenticated, apperr.ReasonMalformed, "Invalid login token", "Please login again")
	ErrTokenInvalid   = apperr.WithReason(apperr.KindUnauthenticated, apperr.ReasonInvalid, "Not authorized to access this resource")
	ErrTokenMissing   = apperr.WithReason(apperr.KindUnauthenticated, apperr.ReasonMissing, "Not authorized to access this resource", "Please login")
)

// TokenManager issues and verifies HS256 session tokens carrying the user id
// in the sub claim.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *TokenManager) Issue(userID uuid.UUID) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Verify checks signature and expiry and returns the embedded user id.
func (m *TokenManager) Verify(raw string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, m.Keyfunc,
		jwt.WithTimeFunc(m.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, ClassifyTokenError(err)
	}
	return SubjectOf(token)
}

// Keyfunc resolves the verification key. Only HS256 is accepted, so every
// caller of Keyfunc enforces the same algorithm as Verify.
func (m *TokenManager) Keyfunc(t *jwt.Token) (interface{}, error) {
	if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return m.secret, nil
}

// SubjectOf extracts the user id from a parsed, valid token.
func SubjectOf(token *jwt.Token) (uuid.UUID, error) {
	if token == nil || !token.Valid {
		return uuid.Nil, ErrTokenInvalid
	}
	if exp, err := token.Claims.GetExpirationTime(); err != nil || exp == nil {
		return uuid.Nil, ErrTokenMalformed
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, ErrTokenMalformed
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrTokenMalformed
	}
	return id, nil
}

// ClassifyTokenError maps jwt parse failures onto expired, malformed or invalid.
func ClassifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenInvalidClaims) && !errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrTokenMalformed
	default:
		return ErrTokenInvalid
	}
}
