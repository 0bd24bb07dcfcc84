// Package mailer delivers transactional email.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("smtp not configured")

type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
	fromName string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.FromEmail,
		fromName: cfg.FromName,
	}
}

func (m *SMTPMailer) Configured() bool {
	return m.host != "" && m.from != ""
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.from, m.fromName)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	d := gomail.NewDialer(m.host, m.port, m.user, m.password)
	if err := d.DialAndSend(gm); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	slog.Info("email sent", slog.String("to", msg.To), slog.String("subject", msg.Subject))
	return nil
}
