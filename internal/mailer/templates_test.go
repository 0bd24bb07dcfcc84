package mailer

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestPasswordReset(t *testing.T) {
	msg := PasswordReset("<Eve>", "eve@example.com", "http://shop.test/api/v1/auth/reset-password?token=abc&x=1", 10*time.Minute)

	assert.Equal(t, "eve@example.com", msg.To)
	assert.Equal(t, "Password reset link - Expires in 10 minutes", msg.Subject)
	assert.Contains(t, msg.HTML, "&lt;Eve&gt;")
	assert.Contains(t, msg.HTML, "token=abc&amp;x=1")
	assert.Contains(t, msg.HTML, "expire in 10 minutes")
}

func TestSMTPMailer_NotConfigured(t *testing.T) {
	m := NewSMTPMailer(&config.Config{})
	assert.False(t, m.Configured())
	assert.ErrorIs(t, m.Send(context.Background(), Message{To: "a@example.com"}), ErrNotConfigured)
}
