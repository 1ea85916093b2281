package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dkotelnikov/sweet-shop/internal/apperr"
	"github.com/dkotelnikov/sweet-shop/internal/hash"
	"github.com/dkotelnikov/sweet-shop/internal/models"
)

type UserStore struct {
	DB *gorm.DB
}

// Create registers a new user with a bcrypt-hashed password. Returns
// apperr.ErrConflict when the email is already taken.
func (s *UserStore) Create(ctx context.Context, email, password, name, role string) (*models.User, error) {
	var existing models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperr.ErrConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
		Name:         name,
		Role:         role,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) VerifyPassword(user *models.User, candidate string) bool {
	return hash.CheckPassword(user.PasswordHash, candidate)
}
