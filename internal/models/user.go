package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a registered identity. The reset-token columns are only read and
// written through ResetState/SetResetState so they always move as a pair.
type User struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string    `gorm:"size:100;not null" json:"name"`
	Email               string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password            string    `gorm:"not null" json:"-"`
	Phone               string    `gorm:"size:32" json:"phone"`
	Role                Role      `gorm:"size:20;not null;default:'user'" json:"role"`
	ResetPasswordToken  *string   `gorm:"size:64;index" json:"-"`
	ResetPasswordExpire *int64    `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	Reviews             []Review  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// ResetState is either NoPendingReset or PendingReset.
type ResetState interface {
	isResetState()
}

type NoPendingReset struct{}

// PendingReset holds the stored digest of an outstanding reset token.
type PendingReset struct {
	Hash      string
	ExpiresAt time.Time
}

func (NoPendingReset) isResetState() {}
func (PendingReset) isResetState()   {}

// Expired compares at millisecond precision, the resolution the expiry is stored at.
func (p PendingReset) Expired(now time.Time) bool {
	return now.UnixMilli() > p.ExpiresAt.UnixMilli()
}

// ResetState reads the reset-token pair. A half-populated pair is treated as
// no pending reset.
func (u *User) ResetState() ResetState {
	if u.ResetPasswordToken == nil || u.ResetPasswordExpire == nil {
		return NoPendingReset{}
	}
	return PendingReset{
		Hash:      *u.ResetPasswordToken,
		ExpiresAt: time.UnixMilli(*u.ResetPasswordExpire),
	}
}

func (u *User) SetResetState(s ResetState) {
	if p, ok := s.(PendingReset); ok {
		hash := p.Hash
		expire := p.ExpiresAt.UnixMilli()
		u.ResetPasswordToken = &hash
		u.ResetPasswordExpire = &expire
		return
	}
	u.ResetPasswordToken = nil
	u.ResetPasswordExpire = nil
}

// ResetColumns is the column update that persists s.
func ResetColumns(s ResetState) map[string]interface{} {
	if p, ok := s.(PendingReset); ok {
		return map[string]interface{}{
			"reset_password_token":  p.Hash,
			"reset_password_expire": p.ExpiresAt.UnixMilli(),
		}
	}
	return map[string]interface{}{
		"reset_password_token":  nil,
		"reset_password_expire": nil,
	}
}
