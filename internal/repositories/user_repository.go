package repositories

import "agrimarket/internal/models"

// UserRepository defines the interface for user data access. Lookups
// for a missing user return ErrUserNotFound.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
