package server

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

// GoogleProfile is the identity asserted by a verified Google ID token.
type GoogleProfile struct {
	Email   string
	Name    string
	Picture string
}

// IDTokenVerifier verifies Google Sign-In credentials.
type IDTokenVerifier interface {
	Verify(ctx context.Context, credential string) (*GoogleProfile, error)
}

// GoogleVerifier checks ID tokens against Google's signing keys and the
// configured OAuth client id.
type GoogleVerifier struct {
	clientID string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewGoogleVerifier creates a verifier for tokens issued to clientID.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, validate: idtoken.Validate}
}

// Verify validates credential and extracts the profile claims.
func (v *GoogleVerifier) Verify(ctx context.Context, credential string) (*GoogleProfile, error) {
	payload, err := v.validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, &ErrInvalidGoogleToken{Err: err}
	}
	return profileFromClaims(payload.Claims)
}

func profileFromClaims(claims map[string]interface{}) (*GoogleProfile, error) {
	str := func(key string) string {
		s, _ := claims[key].(string)
		return strings.TrimSpace(s)
	}

	profile := &GoogleProfile{
		Email:   str("email"),
		Name:    str("name"),
		Picture: str("picture"),
	}
	if profile.Email == "" {
		return nil, &ErrInvalidGoogleToken{Err: fmt.Errorf("token has no email claim")}
	}
	if verified, ok := claims["email_verified"].(bool); ok && !verified {
		return nil, &ErrInvalidGoogleToken{Err: fmt.Errorf("email %s is not verified", profile.Email)}
	}
	if profile.Name == "" {
		profile.Name = strings.SplitN(profile.Email, "@", 2)[0]
	}
	return profile, nil
}
