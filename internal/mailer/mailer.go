// Package mailer delivers transactional email for the account lifecycle.
package mailer

import (
	"context"
	"fmt"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender defines the interface for delivering email through a specific provider.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg *Message) error
}

// VerificationMessage builds the email carrying a registration one-time code.
func VerificationMessage(to, code string) *Message {
	return &Message{
		To:      to,
		Subject: "Verify your email",
		Body:    fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code),
	}
}

// WelcomeMessage builds the email sent once an account becomes verified.
func WelcomeMessage(to, firstName string) *Message {
	return &Message{
		To:      to,
		Subject: "Welcome to HireLane",
		Body:    fmt.Sprintf("Hi %s, your email is verified and your account is ready to use.", firstName),
	}
}

// PasswordResetMessage builds the email carrying a password reset one-time code.
func PasswordResetMessage(to, code string) *Message {
	return &Message{
		To:      to,
		Subject: "Reset your password",
		Body:    fmt.Sprintf("Your password reset code is %s. It expires in 10 minutes.", code),
	}
}
