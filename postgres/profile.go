package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reelreviews/profile"
)

// UserProfileModel represents the database model for user profiles.
// user_id is the identity-provider id, one row per user.
type UserProfileModel struct {
	UserID      string `gorm:"column:user_id;primaryKey"`
	DisplayName string `gorm:"not null"`
	AvatarURL   *string
	Bio         *string
	CreatedAt   time.Time `gorm:"not null;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (UserProfileModel) TableName() string {
	return "user_profiles"
}

// UserProfileRepository implements profile.Repository
type UserProfileRepository struct {
	db *gorm.DB
}

func NewUserProfileRepository(db *gorm.DB) *UserProfileRepository {
	return &UserProfileRepository{db: db}
}

// Upsert writes the profile, overwriting display_name, avatar_url and bio on
// conflict. Concurrent upserts for the same user race last-write-wins.
func (r *UserProfileRepository) Upsert(ctx context.Context, p profile.UserProfile) (profile.UserProfile, error) {
	model := UserProfileModel{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		Bio:         p.Bio,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "avatar_url", "bio", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		return profile.UserProfile{}, err
	}

	return toDomainProfile(model), nil
}

func (r *UserProfileRepository) GetByUserID(ctx context.Context, userID string) (profile.UserProfile, error) {
	var model UserProfileModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error
	if err != nil {
		return profile.UserProfile{}, err
	}
	return toDomainProfile(model), nil
}

func toDomainProfile(model UserProfileModel) profile.UserProfile {
	return profile.UserProfile{
		UserID:      model.UserID,
		DisplayName: model.DisplayName,
		AvatarURL:   model.AvatarURL,
		Bio:         model.Bio,
	}
}

// profilesByUserID loads the profiles referenced by a batch of reviews.
func profilesByUserID(ctx context.Context, db *gorm.DB, userIDs []string) (map[string]profile.UserProfile, error) {
	byID := make(map[string]profile.UserProfile, len(userIDs))
	if len(userIDs) == 0 {
		return byID, nil
	}

	var models []UserProfileModel
	if err := db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&models).Error; err != nil {
		return nil, err
	}
	for _, model := range models {
		byID[model.UserID] = toDomainProfile(model)
	}
	return byID, nil
}

// IsNotFound reports whether err is the gorm record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
