package models

import "time"

// Role names.
const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// User is a registered account. Roles gate the admin surface; customers own
// bookings.
type User struct {
	ID            string         `bson:"id" json:"user_id"`
	Email         string         `bson:"email" json:"email"`
	Name          string         `bson:"name" json:"name"`
	PasswordHash  string         `bson:"passwordHash" json:"-"`
	EmailVerified bool           `bson:"emailVerified" json:"email_verified"`
	Roles         []string       `bson:"roles" json:"roles"`
	Metadata      map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
	LastLogin     *time.Time     `bson:"lastLogin,omitempty" json:"last_login,omitempty"`
	CreatedAt     time.Time      `bson:"createdAt" json:"created_at"`
	UpdatedAt     time.Time      `bson:"updatedAt" json:"updated_at"`
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// UserPage is a paginated admin listing of users.
type UserPage struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}
