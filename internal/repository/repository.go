package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"marketplace/internal/api"
	"marketplace/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn against a repository bound to a single database
// transaction. Any error returned by fn rolls the transaction back.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// notFound translates gorm's missing-row error into an api.NotFoundError
func notFound(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &api.NotFoundError{Resource: resource, ID: id}
	}
	return err
}

// CreateUser creates a new user
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFound(err, "user", userID)
	}
	return &user, nil
}

// UpdateUserContacts stores the contact details given in a verification request
func (r *Repository) UpdateUserContacts(ctx context.Context, userID uint, phone, email string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"phone": phone, "email": email}).Error
}

// MarkUserVerified grants the verified badge to a user and all their listings
func (r *Repository) MarkUserVerified(ctx context.Context, userID uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"verified":           true,
			"verification_level": models.VerificationLevelVerified,
		}).Error; err != nil {
		return err
	}

	return db.Model(&models.Product{}).
		Where("seller_id = ?", userID).
		Update("verified_seller", true).Error
}
