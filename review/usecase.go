package review

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"reelreviews/errs"
	"reelreviews/identity"
	"reelreviews/profile"
)

type Service interface {
	// SubmitReview runs the full ingestion pipeline: verify the bearer token,
	// validate the input, resolve the movie upstream, upsert the author
	// profile and persist the review.
	SubmitReview(ctx context.Context, token string, in SubmitInput) (Review, error)

	// ListReviews dispatches on the raw movieId/userId query parameters.
	ListReviews(ctx context.Context, movieIDParam, userIDParam string) (ListResult, error)
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (Review, error)
	ListByMovie(ctx context.Context, movieID int) ([]Review, Summary, error)
	ListByUser(ctx context.Context, userID string) ([]Review, error)
}

// MovieResolver resolves a movie reference against the metadata provider.
// movieID wins when positive; otherwise query must be a non-empty string.
type MovieResolver interface {
	ResolveMovie(ctx context.Context, movieID int, query string) (MovieRef, error)
}

// SubmitInput carries the raw request body. Rating and MovieID stay untyped
// because callers send arbitrary JSON; coercion rules live here, not in the
// transport layer.
type SubmitInput struct {
	Text       string      `json:"text"`
	Rating     interface{} `json:"rating"`
	Visibility string      `json:"visibility"`
	MovieID    interface{} `json:"movieId"`
	MovieQuery string      `json:"movieQuery"`

	// DecodeErr records a request body that failed to parse. Authentication
	// still runs first; an unauthenticated caller with a malformed body gets
	// the auth error, not ErrInvalidBody.
	DecodeErr error `json:"-"`
}

type ListResult struct {
	Reviews []Review `json:"reviews"`
	Summary *Summary `json:"summary,omitempty"`
}

type Usecase struct {
	verifier identity.Verifier
	resolver MovieResolver
	profiles profile.Repository
	reviews  Repository
}

func NewUsecase(v identity.Verifier, m MovieResolver, p profile.Repository, r Repository) *Usecase {
	return &Usecase{
		verifier: v,
		resolver: m,
		profiles: p,
		reviews:  r,
	}
}

func (uc *Usecase) SubmitReview(ctx context.Context, token string, in SubmitInput) (Review, error) {
	principal, err := uc.verifier.Verify(ctx, token)
	if err != nil {
		return Review{}, err
	}

	if in.DecodeErr != nil {
		return Review{}, ErrInvalidBody
	}

	text, err := ValidateText(in.Text)
	if err != nil {
		return Review{}, err
	}
	rating, err := coerceRating(in.Rating)
	if err != nil {
		return Review{}, err
	}
	visibility := NormalizeVisibility(in.Visibility)

	ref, err := uc.resolver.ResolveMovie(ctx, coerceMovieID(in.MovieID), strings.TrimSpace(in.MovieQuery))
	if err != nil {
		return Review{}, asSubmitError(err)
	}

	// The profile upsert and the review insert are not one transaction: a
	// failed insert leaves the overwritten profile in place. The upsert is an
	// idempotent overwrite, so a resubmission converges.
	if _, err := uc.profiles.Upsert(ctx, profile.FromPrincipal(principal)); err != nil {
		return Review{}, asSubmitError(err)
	}

	created, err := uc.reviews.Create(ctx, CreateInput{
		UserID:          principal.ID,
		MovieID:         ref.MovieID,
		MovieTitle:      ref.MovieTitle,
		MoviePosterPath: ref.MoviePosterPath,
		Rating:          rating,
		Text:            text,
		Visibility:      visibility,
	})
	if err != nil {
		return Review{}, asSubmitError(err)
	}

	return created, nil
}

func (uc *Usecase) ListReviews(ctx context.Context, movieIDParam, userIDParam string) (ListResult, error) {
	switch {
	case movieIDParam != "":
		movieID, err := strconv.Atoi(movieIDParam)
		if err != nil {
			return ListResult{}, ErrInvalidMovieID
		}
		reviews, summary, err := uc.reviews.ListByMovie(ctx, movieID)
		if err != nil {
			return ListResult{}, asListError(err)
		}
		return ListResult{Reviews: reviews, Summary: &summary}, nil

	case userIDParam != "":
		reviews, err := uc.reviews.ListByUser(ctx, userIDParam)
		if err != nil {
			return ListResult{}, asListError(err)
		}
		return ListResult{Reviews: reviews}, nil

	default:
		return ListResult{}, ErrQueryRequired
	}
}

// coerceRating accepts JSON numbers only. Strings and fractional values are
// rejected, matching the documented validation contract.
func coerceRating(v interface{}) (int, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, ErrInvalidRating
	}
	return ValidateRating(f)
}

// coerceMovieID returns the id when v is a positive integral JSON number and 0
// otherwise, which pushes resolution onto the free-text query path.
func coerceMovieID(v interface{}) int {
	f, ok := v.(float64)
	if !ok || f <= 0 || math.Trunc(f) != f {
		return 0
	}
	return int(f)
}

// asSubmitError surfaces resolution and persistence failures as 400s with the
// underlying message. Upstream outages therefore read as client errors, which
// mirrors the contract this service replaces.
func asSubmitError(err error) error {
	var appErr *errs.Error
	if errors.As(err, &appErr) && appErr.Code == errs.EINVALID {
		return appErr
	}
	return errs.Errorf(errs.EINVALID, "%s", submitErrorMessage(err))
}

func submitErrorMessage(err error) string {
	var appErr *errs.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unable to save review. Please try again later."
}

// asListError masks read-path persistence failures behind a 500, unlike the
// write path above. The status split is part of the published API.
func asListError(err error) error {
	return errs.Errorf(errs.EINTERNAL, "Internal server error while fetching reviews.")
}
