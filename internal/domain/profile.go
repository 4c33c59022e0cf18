package domain

import "time"

// SeekerProfile is the jobseeker-side profile attached to an account.
type SeekerProfile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Headline  string    `json:"headline,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecruiterProfile is the recruiter-side profile attached to an account.
// CompanyName is required; GSTNumber is optional.
type RecruiterProfile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CompanyName string    `json:"company_name"`
	GSTNumber   string    `json:"gst_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
