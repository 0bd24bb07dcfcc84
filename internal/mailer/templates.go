package mailer

import (
	"fmt"
	"html"
	"time"
)

// PasswordReset builds the reset-link email. ttl is stated in whole minutes.
func PasswordReset(name, to, resetURL string, ttl time.Duration) Message {
	minutes := int(ttl.Minutes())
	link := html.EscapeString(resetURL)

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <p>Dear %s,</p>
  <p>We have received your request for a password reset.
  Please use the following link to reset your password: <a href="%s" target="_blank">%s</a></p>
  <p>Please note that this link will expire in %d minutes for security purposes, so please reset your password as soon as possible.
  If you do not reset your password within the given time, you will need to request a new password reset link.</p>
  <p>If you did not request a password reset, please ignore this email.</p>
</body>
</html>`, html.EscapeString(name), link, link, minutes)

	return Message{
		To:      to,
		Subject: fmt.Sprintf("Password reset link - Expires in %d minutes", minutes),
		HTML:    body,
	}
}
