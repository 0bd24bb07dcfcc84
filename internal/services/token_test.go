package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueVerify(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	id := uuid.New()

	raw, err := tm.Issue(id)
	require.NoError(t, err)

	got, err := tm.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, err := tm.Issue(uuid.New())
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Verify(raw)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
	assert.Equal(t, apperr.ReasonExpired, apperr.As(err).Reason)
}

func TestTokenManager_Malformed(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	raw, err := tm.Issue(uuid.New())
	require.NoError(t, err)

	other, err := tm.Issue(uuid.New())
	require.NoError(t, err)
	// payload of one token under the signature of another
	parts, otherParts := strings.Split(raw, "."), strings.Split(other, ".")
	tampered := parts[0] + "." + otherParts[1] + "." + parts[2]

	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "not-a-token"},
		{"tampered signature", tampered},
		{"other secret", mustSign(t, "another-secret", jwt.MapClaims{"sub": uuid.NewString(), "exp": time.Now().Add(time.Hour).Unix()})},
		{"no subject", mustSign(t, testSecret, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})},
		{"subject not a uuid", mustSign(t, testSecret, jwt.MapClaims{"sub": "42", "exp": time.Now().Add(time.Hour).Unix()})},
		{"no expiry", mustSign(t, testSecret, jwt.MapClaims{"sub": uuid.NewString()})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.Verify(tt.raw)
			assert.ErrorIs(t, err, ErrTokenMalformed)
		})
	}
}

func TestTokenManager_RejectsNoneAlgorithm(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.Verify(raw)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestClassifyTokenError(t *testing.T) {
	assert.Equal(t, ErrTokenExpired, ClassifyTokenError(jwt.ErrTokenExpired))
	assert.Equal(t, ErrTokenMalformed, ClassifyTokenError(jwt.ErrTokenMalformed))
	assert.Equal(t, ErrTokenMalformed, ClassifyTokenError(jwt.ErrTokenSignatureInvalid))
	assert.Equal(t, ErrTokenInvalid, ClassifyTokenError(jwt.ErrTokenNotValidYet))
	assert.Equal(t, ErrTokenInvalid, ClassifyTokenError(errors.New("boom")))
}

func mustSign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func TestTokenManager_KeyfuncOnlyHS256(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	key, err := tm.Keyfunc(jwt.New(jwt.SigningMethodHS256))
	require.NoError(t, err)
	assert.Equal(t, []byte(testSecret), key)

	for _, m := range []jwt.SigningMethod{jwt.SigningMethodHS384, jwt.SigningMethodHS512, jwt.SigningMethodNone} {
		_, err := tm.Keyfunc(jwt.New(m))
		assert.Error(t, err, m.Alg())
	}
}

func TestTokenManager_RejectsOtherHMAC(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tm.Verify(raw)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
