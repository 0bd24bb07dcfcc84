package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"gorm.io/gorm"
)

// DefaultResetTokenTTL is the validity window promised in the reset email.
const DefaultResetTokenTTL = 10 * time.Minute

const resetTokenBytes = 20

var (
	ErrResetTokenMissing = apperr.WithReason(apperr.KindInvalidToken, apperr.ReasonMissing, "Invalid password reset token", "Request a new password reset link")
	ErrResetTokenInvalid = apperr.WithReason(apperr.KindInvalidToken, apperr.ReasonInvalid, "Invalid password reset token", "Request a new password reset link")
	ErrResetTokenExpired = apperr.WithReason(apperr.KindInvalidToken, apperr.ReasonExpired, "Password reset token expired", "Request a new password reset link")
)

// ResetSecret is a freshly generated reset token. Plain goes to the user,
// only Hash is stored.
type ResetSecret struct {
	Plain     string
	Hash      string
	ExpiresAt time.Time
}

func (s ResetSecret) State() models.PendingReset {
	return models.PendingReset{Hash: s.Hash, ExpiresAt: s.ExpiresAt}
}

type ResetTokenManager struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewResetTokenManager(db *gorm.DB, ttl time.Duration) *ResetTokenManager {
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	return &ResetTokenManager{db: db, ttl: ttl, now: time.Now}
}

func (m *ResetTokenManager) TTL() time.Duration { return m.ttl }

func (m *ResetTokenManager) Generate() (ResetSecret, error) {
	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return ResetSecret{}, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	plain := base64.RawURLEncoding.EncodeToString(raw)
	return ResetSecret{
		Plain:     plain,
		Hash:      HashResetToken(plain),
		ExpiresAt: m.now().Add(m.ttl),
	}, nil
}

// HashResetToken is the deterministic digest stored for a reset token:
// base64 of SHA-256.
func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Issue generates a secret and stores its pending-reset pair on the user.
func (m *ResetTokenManager) Issue(ctx context.Context, user *models.User) (ResetSecret, error) {
	secret, err := m.Generate()
	if err != nil {
		return ResetSecret{}, err
	}

	state := secret.State()
	if err := m.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(models.ResetColumns(state)).Error; err != nil {
		return ResetSecret{}, fmt.Errorf("failed to store reset token: %w", err)
	}
	user.SetResetState(state)
	return secret, nil
}

// Clear drops any pending reset on the user.
func (m *ResetTokenManager) Clear(ctx context.Context, user *models.User) error {
	if err := m.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(models.ResetColumns(models.NoPendingReset{})).Error; err != nil {
		return fmt.Errorf("failed to clear reset token: %w", err)
	}
	user.SetResetState(models.NoPendingReset{})
	return nil
}

// Consume redeems plain. The pending pair is cleared and changes are applied
// in one conditional update keyed on the stored digest, so a token can be
// redeemed at most once even under concurrent attempts. An expired token is
// cleared and rejected.
func (m *ResetTokenManager) Consume(ctx context.Context, plain string, changes map[string]interface{}) (*models.User, error) {
	if plain == "" {
		return nil, ErrResetTokenMissing
	}
	hash := HashResetToken(plain)

	var user models.User
	err := m.db.WithContext(ctx).Where("reset_password_token = ?", hash).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResetTokenInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}

	pending, ok := user.ResetState().(models.PendingReset)
	if !ok {
		return nil, ErrResetTokenInvalid
	}

	if pending.Expired(m.now()) {
		if err := m.db.WithContext(ctx).Model(&models.User{}).
			Where("id = ? AND reset_password_token = ?", user.ID, hash).
			Updates(models.ResetColumns(models.NoPendingReset{})).Error; err != nil {
			return nil, fmt.Errorf("failed to clear expired reset token: %w", err)
		}
		return nil, ErrResetTokenExpired
	}

	update := models.ResetColumns(models.NoPendingReset{})
	for col, val := range changes {
		update[col] = val
	}
	result := m.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND reset_password_token = ?", user.ID, hash).
		Updates(update)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to redeem reset token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrResetTokenInvalid
	}

	if err := m.db.WithContext(ctx).First(&user, "id = ?", user.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return &user, nil
}
