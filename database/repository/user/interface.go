package userRepo

import "homeserve/models"

// UserRepository defines access to user accounts and role assignments.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	List(page, perPage int) (*models.UserPage, error)
	// RecordLogin stamps last_login and bumps the login counter metadata.
	RecordLogin(id string) error
	AddRole(id, role string) error
	RemoveRole(id, role string) error
}
