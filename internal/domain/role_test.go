package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"jobseeker", "jobseeker", true},
		{"recruiter", "recruiter", true},
		{"admin", "admin", true},
		{"uppercase is normalized", "Recruiter", true},
		{"surrounding whitespace is trimmed", "  admin ", true},
		{"unknown role", "superuser", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidRole(tt.input))
		})
	}
}

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, "jobseeker", NormalizeRole(" JobSeeker "))
	assert.Equal(t, "", NormalizeRole("   "))
}

func TestUser_HasPendingOTP(t *testing.T) {
	u := &User{}
	assert.False(t, u.HasPendingOTP())

	code := "123456"
	expires := time.Now().Add(10 * time.Minute)
	u.EmailOTP = &code
	u.OTPExpires = &expires
	assert.True(t, u.HasPendingOTP())
}

func TestUser_OTPExpired(t *testing.T) {
	now := time.Now()
	code := "123456"

	t.Run("no pending code", func(t *testing.T) {
		u := &User{}
		assert.False(t, u.OTPExpired(now))
	})

	t.Run("pending and fresh", func(t *testing.T) {
		expires := now.Add(10 * time.Minute)
		u := &User{EmailOTP: &code, OTPExpires: &expires}
		assert.False(t, u.OTPExpired(now))
	})

	t.Run("pending and stale", func(t *testing.T) {
		expires := now.Add(-time.Second)
		u := &User{EmailOTP: &code, OTPExpires: &expires}
		assert.True(t, u.OTPExpired(now))
	})
}
