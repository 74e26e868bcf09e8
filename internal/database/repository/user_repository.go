package repository

import (
	"context"
	"errors"
	"time"

	"github.com/arent-kient/api-key-dashboard/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// UpsertFromProfile creates the user on first sign-in and refreshes the
// profile fields and last login on later ones
func (r *UserRepository) UpsertFromProfile(ctx context.Context, profile *models.GoogleProfile) (*models.User, error) {
	now := time.Now()
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", profile.Email).First(&user).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{
				Email:         profile.Email,
				Name:          profile.Name,
				Picture:       profile.Picture,
				GoogleSubject: profile.Subject,
				LastLoginAt:   &now,
			}
			return tx.Create(&user).Error
		}
		user.Name = profile.Name
		user.Picture = profile.Picture
		user.GoogleSubject = profile.Subject
		user.LastLoginAt = &now
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// IncrementTokenVersion increments the token version for a user, revoking every issued session
func (r *UserRepository) IncrementTokenVersion(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
