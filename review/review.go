// Package review holds the review domain: the record a user writes about a
// movie, its visibility scope, and the denormalized movie snapshot embedded at
// write time.
package review

import (
	"strings"
	"time"

	"reelreviews/errs"
	"reelreviews/profile"
)

var (
	ErrInvalidBody    = errs.Errorf(errs.EINVALID, "Invalid JSON body")
	ErrTextRequired   = errs.Errorf(errs.EINVALID, "Review text is required.")
	ErrInvalidRating  = errs.Errorf(errs.EINVALID, "Rating must be an integer between 1 and 5.")
	ErrQueryRequired  = errs.Errorf(errs.EINVALID, "Missing query parameter. Provide either movieId or userId.")
	ErrInvalidMovieID = errs.Errorf(errs.EINVALID, "movieId must be an integer")
)

type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityFriends Visibility = "FRIENDS"
)

// NormalizeVisibility maps any case-insensitive spelling of "friends" to
// FRIENDS and everything else, including the empty string, to PUBLIC.
// Unrecognized values are coerced rather than rejected.
func NormalizeVisibility(value string) Visibility {
	if strings.EqualFold(strings.TrimSpace(value), string(VisibilityFriends)) {
		return VisibilityFriends
	}
	return VisibilityPublic
}

// MovieRef is the minimal movie identity snapshot copied onto a review.
// Title and poster can drift from the metadata source afterwards; there is no
// foreign key to a movie table.
type MovieRef struct {
	MovieID         int     `json:"movieId"`
	MovieTitle      string  `json:"movieTitle"`
	MoviePosterPath *string `json:"moviePosterPath"`
}

// Review is immutable once created; there is no update or delete path.
type Review struct {
	ID              int64                `json:"id"`
	UserID          string               `json:"userId"`
	MovieID         int                  `json:"movieId"`
	MovieTitle      string               `json:"movieTitle"`
	MoviePosterPath *string              `json:"moviePosterPath"`
	Rating          int                  `json:"rating"`
	Text            string               `json:"text"`
	Visibility      Visibility           `json:"visibility"`
	CreatedAt       time.Time            `json:"createdAt"`
	UserProfile     *profile.UserProfile `json:"userProfile"`
}

// Summary aggregates all PUBLIC reviews of a movie, not just the listed page.
type Summary struct {
	AverageRating *float64 `json:"averageRating"`
	RatingCount   int      `json:"ratingCount"`
}

// CreateInput is a fully validated review ready for persistence. The store
// performs no validation of its own.
type CreateInput struct {
	UserID          string
	MovieID         int
	MovieTitle      string
	MoviePosterPath *string
	Rating          int
	Text            string
	Visibility      Visibility
}

func ValidateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrTextRequired
	}
	return text, nil
}

// ValidateRating accepts a float so JSON numbers pass through untouched;
// 2.5 is rejected, 3.0 is accepted as 3.
func ValidateRating(rating float64) (int, error) {
	r := int(rating)
	if float64(r) != rating || r < 1 || r > 5 {
		return 0, ErrInvalidRating
	}
	return r, nil
}
