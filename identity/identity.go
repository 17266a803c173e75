// Package identity describes the authenticated end user as asserted by the
// external identity provider. The provider owns the account; this service only
// reads it.
package identity

import (
	"context"

	"reelreviews/errs"
)

var (
	ErrNotConfigured = errs.Errorf(errs.EINTERNAL,
		"Supabase is not configured on the server. Set SUPABASE_URL and SUPABASE_ANON_KEY.")
	ErrTokenRequired  = errs.Errorf(errs.EUNAUTHORIZED, "Missing Authorization: Bearer <token>.")
	ErrSessionInvalid = errs.Errorf(errs.EUNAUTHORIZED, "Invalid or expired session.")
)

// Metadata carries the free-form profile fields the provider stores alongside
// an account.
type Metadata struct {
	FullName  string `json:"full_name"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
}

type Principal struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Metadata Metadata `json:"user_metadata"`
}

// Verifier validates a bearer token against the identity provider.
//
// Verify returns ErrNotConfigured when the provider credentials are missing,
// ErrTokenRequired when token is empty, and ErrSessionInvalid when the
// provider rejects the token or returns no user.
type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}
