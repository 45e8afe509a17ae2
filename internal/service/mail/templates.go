package mail

import (
	"fmt"
	"time"
)

// VerifyEmailMessage builds the message with the email confirmation link.
// The code id is the only secret in the URL.
func VerifyEmailMessage(to, origin, codeID string) Message {
	url := fmt.Sprintf("%s/email/verify/%s", origin, codeID)

	return Message{
		To:      to,
		Subject: "Verify your email address",
		HTML: fmt.Sprintf(
			`<p>Welcome to AgriMarket!</p>
<p>Click the link below to verify your email address:</p>
<p><a href="%s">Verify email</a></p>
<p>If you did not create an account you can ignore this message.</p>`,
			url,
		),
	}
}

// PasswordResetMessage builds the message with the reset link. The exp query
// parameter is informational only; the persisted code record stays the
// authoritative expiry.
func PasswordResetMessage(to, origin, codeID string, expiresAt time.Time) Message {
	url := fmt.Sprintf("%s/password/reset?code=%s&exp=%d", origin, codeID, expiresAt.UnixMilli())

	return Message{
		To:      to,
		Subject: "Reset your password",
		HTML: fmt.Sprintf(
			`<p>You requested a password reset.</p>
<p>Click the link below to choose a new password. The link expires in one hour:</p>
<p><a href="%s">Reset password</a></p>
<p>If you did not request this you can ignore this message.</p>`,
			url,
		),
	}
}
