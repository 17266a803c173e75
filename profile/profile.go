// Package profile holds the denormalized user profile displayed next to
// reviews. Profiles mirror identity-provider metadata and are overwritten on
// every review submission, last write wins.
package profile

import (
	"context"

	"reelreviews/identity"
)

type UserProfile struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
	Bio         *string `json:"bio"`
}

// Repository upserts and reads profiles keyed by the identity-provider user id.
type Repository interface {
	// Upsert creates the profile or unconditionally overwrites displayName,
	// avatarUrl and bio. There is no read-modify merge.
	Upsert(ctx context.Context, p UserProfile) (UserProfile, error)
	GetByUserID(ctx context.Context, userID string) (UserProfile, error)
}

// FromPrincipal derives the stored profile from provider metadata.
// Display name priority: full name, then name, then email, then "User".
func FromPrincipal(principal identity.Principal) UserProfile {
	displayName := principal.Metadata.FullName
	if displayName == "" {
		displayName = principal.Metadata.Name
	}
	if displayName == "" {
		displayName = principal.Email
	}
	if displayName == "" {
		displayName = "User"
	}

	return UserProfile{
		UserID:      principal.ID,
		DisplayName: displayName,
		AvatarURL:   optional(principal.Metadata.AvatarURL),
		Bio:         optional(principal.Metadata.Bio),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
