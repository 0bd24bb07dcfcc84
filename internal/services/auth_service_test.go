package services

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resetBase = "http://shop.test/api/v1"

var resetLink = regexp.MustCompile(`/auth/reset-password\?token=([^"&<]+)`)

func signup(t *testing.T, f *fixture, email, password string) *models.User {
	t.Helper()
	user, err := f.auth.Signup(context.Background(), &dto.SignupRequest{
		Name: "Test User", Email: email, Phone: "+905551112233", Password: password,
	})
	require.NoError(t, err)
	return user
}

func tokenFromMail(t *testing.T, f *fixture) string {
	t.Helper()
	m := resetLink.FindStringSubmatch(f.mail.last().HTML)
	require.Len(t, m, 2)
	plain, err := url.QueryUnescape(m[1])
	require.NoError(t, err)
	return plain
}

func TestAuthService_SignupHashesPassword(t *testing.T) {
	f := newFixture(t)
	user := signup(t, f, "new@example.com", "secret123")

	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, f.hasher.Verify("secret123", user.Password))
}

func TestAuthService_SignupDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	signup(t, f, "dup@example.com", "secret123")

	_, err := f.auth.Signup(context.Background(), &dto.SignupRequest{
		Name: "Other", Email: "dup@example.com", Phone: "+905551112233", Password: "secret456",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := signup(t, f, "login@example.com", "secret123")

	token, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "login@example.com", Password: "secret123"})
	require.NoError(t, err)
	id, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	_, err = f.auth.Login(ctx, &dto.LoginRequest{Email: "login@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidPassword)
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrEmailNotFound)
}

func TestAuthService_UpdatePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := signup(t, f, "upd@example.com", "secret123")

	_, err := f.auth.UpdatePassword(ctx, user, &dto.UpdatePasswordRequest{Password: "wrong", NewPassword: "newsecret"})
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = f.auth.UpdatePassword(ctx, user, &dto.UpdatePasswordRequest{Password: "secret123", NewPassword: "newsecret"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, &dto.LoginRequest{Email: "upd@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidPassword)
	_, err = f.auth.Login(ctx, &dto.LoginRequest{Email: "upd@example.com", Password: "newsecret"})
	assert.NoError(t, err)
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := signup(t, f, "forgot@example.com", "secret123")

	require.NoError(t, f.auth.ForgotPassword(ctx, resetBase, "forgot@example.com"))

	msg := f.mail.last()
	assert.Equal(t, "forgot@example.com", msg.To)
	assert.Contains(t, msg.Subject, "10 minutes")
	assert.True(t, strings.Contains(msg.HTML, resetBase+"/auth/reset-password?token="))

	plain := tokenFromMail(t, f)
	reset, err := f.auth.ResetPassword(ctx, plain, &dto.ResetPasswordRequest{Password: "brandnew"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, reset.ID)
	assert.Equal(t, models.NoPendingReset{}, reset.ResetState())

	_, err = f.auth.Login(ctx, &dto.LoginRequest{Email: "forgot@example.com", Password: "brandnew"})
	assert.NoError(t, err)

	// a redeemed token cannot be used again
	_, err = f.auth.ResetPassword(ctx, plain, &dto.ResetPasswordRequest{Password: "another1"})
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestAuthService_ForgotPasswordUnknownEmail(t *testing.T) {
	f := newFixture(t)
	err := f.auth.ForgotPassword(context.Background(), resetBase, "ghost@example.com")
	assert.ErrorIs(t, err, ErrEmailNotFound)
	assert.Empty(t, f.mail.sent)
}

func TestAuthService_ForgotPasswordDeliveryFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := signup(t, f, "fail@example.com", "secret123")
	f.mail.err = errSMTPDown

	err := f.auth.ForgotPassword(ctx, resetBase, "fail@example.com")
	assert.ErrorIs(t, err, apperr.ErrDeliveryFailed)
	assert.ErrorIs(t, err, errSMTPDown)

	var stored models.User
	require.NoError(t, f.db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, models.NoPendingReset{}, stored.ResetState())
}

func TestAuthService_ResetPasswordRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.ResetPassword(ctx, "", &dto.ResetPasswordRequest{Password: "brandnew"})
	assert.ErrorIs(t, err, ErrResetTokenMissing)

	_, err = f.auth.ResetPassword(ctx, "made-up", &dto.ResetPasswordRequest{Password: "brandnew"})
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}
