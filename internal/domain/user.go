package domain

import (
	"time"
)

// User represents a registered account in the portal. An account is created
// unverified by local registration (verified later by OTP) or pre-verified by
// external-identity registration.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Phone         string     `json:"phone,omitempty"`
	Role          string     `json:"role"`
	EmailVerified bool       `json:"email_verified"`
	EmailOTP      *string    `json:"-"`
	OTPExpires    *time.Time `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HasPendingOTP reports whether the account currently carries an unconsumed
// one-time code. The code and its expiry are always set and cleared together.
func (u *User) HasPendingOTP() bool {
	return u.EmailOTP != nil && u.OTPExpires != nil
}

// OTPExpired reports whether the pending code's expiry has passed at the
// given instant. False when no code is pending.
func (u *User) OTPExpired(now time.Time) bool {
	return u.HasPendingOTP() && now.After(*u.OTPExpires)
}
