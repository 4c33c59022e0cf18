package auth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// Identity is the subset of an external identity-provider token payload the
// auth flows need. SubjectID is the provider-scoped stable account id.
type Identity struct {
	Email      string
	GivenName  string
	FamilyName string
	SubjectID  string
}

// IdentityVerifier validates a third-party identity token and extracts the
// identity it attests to. Cryptographic validation (signature, audience,
// issuer, expiry) is the verifier's responsibility; callers only see a
// verified identity or an error.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// GoogleVerifier validates Google ID tokens against a configured OAuth
// client ID as the expected audience.
type GoogleVerifier struct {
	clientID string
}

// NewGoogleVerifier creates a verifier for the given OAuth client ID.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

// Verify validates the token with Google's public keys and returns the
// attested identity.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("validate google id token: %w", err)
	}

	identity := &Identity{
		Email:      claimString(payload.Claims, "email"),
		GivenName:  claimString(payload.Claims, "given_name"),
		FamilyName: claimString(payload.Claims, "family_name"),
		SubjectID:  payload.Subject,
	}

	if identity.Email == "" {
		return nil, fmt.Errorf("google id token carries no email claim")
	}

	return identity, nil
}

func claimString(claims map[string]any, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
