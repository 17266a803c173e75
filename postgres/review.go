package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"reelreviews/review"
)

// listCap bounds the number of rows a single listing returns. The aggregate
// summary is computed over the full matching set, not the capped page.
const listCap = 50

// ReviewModel represents the database model for reviews. Movie title and
// poster are denormalized snapshots taken at write time.
type ReviewModel struct {
	ID              int64  `gorm:"primaryKey"`
	UserID          string `gorm:"column:user_id;not null;index"`
	MovieID         int    `gorm:"column:movie_id;not null;index"`
	MovieTitle      string `gorm:"not null"`
	MoviePosterPath *string
	Rating          int       `gorm:"not null"`
	Text            string    `gorm:"not null"`
	Visibility      string    `gorm:"not null;default:PUBLIC"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (ReviewModel) TableName() string {
	return "reviews"
}

// ReviewRepository implements review.Repository
type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts the already-validated review and returns it joined with the
// author's profile. Nothing prevents the same user reviewing the same movie
// twice; each submission is its own row.
func (r *ReviewRepository) Create(ctx context.Context, in review.CreateInput) (review.Review, error) {
	model := ReviewModel{
		UserID:          in.UserID,
		MovieID:         in.MovieID,
		MovieTitle:      in.MovieTitle,
		MoviePosterPath: in.MoviePosterPath,
		Rating:          in.Rating,
		Text:            in.Text,
		Visibility:      string(in.Visibility),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return review.Review{}, err
	}

	created := toDomainReview(model)

	var authorProfile UserProfileModel
	err := r.db.WithContext(ctx).Where("user_id = ?", in.UserID).First(&authorProfile).Error
	switch {
	case err == nil:
		p := toDomainProfile(authorProfile)
		created.UserProfile = &p
	case !IsNotFound(err):
		return review.Review{}, err
	}

	return created, nil
}

// ListByMovie returns the newest PUBLIC reviews for a movie, capped at 50,
// plus the average and count over every PUBLIC review of that movie.
func (r *ReviewRepository) ListByMovie(ctx context.Context, movieID int) ([]review.Review, review.Summary, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("movie_id = ? AND visibility = ?", movieID, string(review.VisibilityPublic))
	}

	var models []ReviewModel
	err := r.db.WithContext(ctx).Scopes(scope).
		Order("created_at DESC, id DESC").
		Limit(listCap).
		Find(&models).Error
	if err != nil {
		return nil, review.Summary{}, err
	}

	var summary struct {
		AverageRating *float64
		RatingCount   int
	}
	err = r.db.WithContext(ctx).Model(&ReviewModel{}).Scopes(scope).
		Select("AVG(rating) AS average_rating, COUNT(*) AS rating_count").
		Scan(&summary).Error
	if err != nil {
		return nil, review.Summary{}, err
	}

	reviews, err := r.withProfiles(ctx, models)
	if err != nil {
		return nil, review.Summary{}, err
	}

	return reviews, review.Summary{
		AverageRating: summary.AverageRating,
		RatingCount:   summary.RatingCount,
	}, nil
}

// ListByUser returns the author's reviews regardless of visibility, same
// ordering and cap as the movie listing, no summary.
func (r *ReviewRepository) ListByUser(ctx context.Context, userID string) ([]review.Review, error) {
	var models []ReviewModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(listCap).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return r.withProfiles(ctx, models)
}

// DistinctMovieIDs lists every movie referenced by at least one review.
func (r *ReviewRepository) DistinctMovieIDs(ctx context.Context) ([]int, error) {
	var ids []int
	err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Distinct("movie_id").
		Order("movie_id").
		Pluck("movie_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateMovieRef rewrites the denormalized title and poster of every review of
// a movie. Used by the poster refresh tool; the request path never calls this.
func (r *ReviewRepository) UpdateMovieRef(ctx context.Context, ref review.MovieRef) (int64, error) {
	result := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("movie_id = ?", ref.MovieID).
		Updates(map[string]interface{}{
			"movie_title":       ref.MovieTitle,
			"movie_poster_path": ref.MoviePosterPath,
		})
	return result.RowsAffected, result.Error
}

func (r *ReviewRepository) withProfiles(ctx context.Context, models []ReviewModel) ([]review.Review, error) {
	userIDs := make([]string, 0, len(models))
	seen := make(map[string]bool, len(models))
	for _, model := range models {
		if !seen[model.UserID] {
			seen[model.UserID] = true
			userIDs = append(userIDs, model.UserID)
		}
	}

	profiles, err := profilesByUserID(ctx, r.db, userIDs)
	if err != nil {
		return nil, err
	}

	reviews := make([]review.Review, len(models))
	for i, model := range models {
		reviews[i] = toDomainReview(model)
		if p, ok := profiles[model.UserID]; ok {
			reviews[i].UserProfile = &p
		}
	}
	return reviews, nil
}

func toDomainReview(model ReviewModel) review.Review {
	return review.Review{
		ID:              model.ID,
		UserID:          model.UserID,
		MovieID:         model.MovieID,
		MovieTitle:      model.MovieTitle,
		MoviePosterPath: model.MoviePosterPath,
		Rating:          model.Rating,
		Text:            model.Text,
		Visibility:      review.Visibility(model.Visibility),
		CreatedAt:       model.CreatedAt,
	}
}
