package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken      = apperr.New(apperr.KindConflict, "A user already exists with the entered email")
	ErrEmailNotFound   = apperr.New(apperr.KindNotFound, "No user exists with the entered email")
	ErrInvalidPassword = apperr.New(apperr.KindInvalidCredentials, "Invalid password")
	ErrEmailNotSent    = apperr.New(apperr.KindDeliveryFailed, "Email could not be sent")
)

// timingDecoy is hashed once per service so unknown-email logins can spend
// the same bcrypt work as known ones.
const timingDecoy = "timing-decoy-password"

type AuthService struct {
	db         *gorm.DB
	hasher     Hasher
	tokens     *TokenManager
	resets     *ResetTokenManager
	mail       mailer.Mailer
	timingSafe bool
	decoyHash  string
}

func NewAuthService(db *gorm.DB, cfg *config.Config, hasher Hasher, tokens *TokenManager, resets *ResetTokenManager, mail mailer.Mailer) *AuthService {
	s := &AuthService{
		db:         db,
		hasher:     hasher,
		tokens:     tokens,
		resets:     resets,
		mail:       mail,
		timingSafe: cfg.LoginTimingSafe,
	}
	if s.timingSafe {
		if hash, err := hasher.Hash(timingDecoy); err == nil {
			s.decoyHash = hash
		} else {
			slog.Error("failed to prepare login timing decoy", "error", err)
		}
	}
	return s
}

func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*models.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	user := models.User{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  models.RoleUser,
	}
	if err := setPassword(s.hasher, &user, req.Password); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user signed up", "user_id", user.ID.String())
	return &user, nil
}

// Login returns a session token for valid credentials. Unknown emails are
// reported as not found; with LOGIN_TIMING_SAFE the decoy hash is still
// compared so the response time does not reveal which case occurred.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if s.timingSafe && s.decoyHash != "" {
			s.hasher.Verify(req.Password, s.decoyHash)
		}
		return "", ErrEmailNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.Password) {
		return "", ErrInvalidPassword
	}

	return s.tokens.Issue(user.ID)
}

func (s *AuthService) UpdatePassword(ctx context.Context, actor *models.User, req *dto.UpdatePasswordRequest) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", actor.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.Password) {
		return nil, ErrInvalidPassword
	}

	if err := setPassword(s.hasher, &user, req.NewPassword); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&user).Update("password", user.Password).Error; err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password updated", "user_id", user.ID.String())
	return &user, nil
}

// ForgotPassword stores a reset-token pair for the account and mails the
// reset link rooted at baseURL. The pair is rolled back when delivery fails.
func (s *AuthService) ForgotPassword(ctx context.Context, baseURL, email string) error {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEmailNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	secret, err := s.resets.Issue(ctx, &user)
	if err != nil {
		return err
	}

	resetURL := baseURL + "/auth/reset-password?token=" + url.QueryEscape(secret.Plain)
	msg := mailer.PasswordReset(user.Name, user.Email, resetURL, s.resets.TTL())

	if err := s.mail.Send(ctx, msg); err != nil {
		slog.Error("password reset email failed", "user_id", user.ID.String(), "action", "forgot_password", "error", err)
		if clearErr := s.resets.Clear(ctx, &user); clearErr != nil {
			slog.Error("failed to roll back reset token", "user_id", user.ID.String(), "error", clearErr)
		}
		return apperr.Wrap(apperr.KindDeliveryFailed, err, ErrEmailNotSent.Messages...)
	}
	return nil
}

// ResetPassword redeems a reset token and stores the new password.
func (s *AuthService) ResetPassword(ctx context.Context, token string, req *dto.ResetPasswordRequest) (*models.User, error) {
	if token == "" {
		return nil, ErrResetTokenMissing
	}

	var scratch models.User
	if err := setPassword(s.hasher, &scratch, req.Password); err != nil {
		return nil, err
	}

	user, err := s.resets.Consume(ctx, token, map[string]interface{}{"password": scratch.Password})
	if err != nil {
		return nil, err
	}

	slog.Info("password reset", "user_id", user.ID.String())
	return user, nil
}
