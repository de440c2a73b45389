package entities

import (
	"time"
)

// Role gates what a user may do
type Role string

const (
	RoleClient   Role = "client"
	RoleBusiness Role = "business"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleBusiness, RoleAdmin:
		return true
	}
	return false
}

// User represents a user in the system. Business fields are only filled for business accounts.
// Password holds the bcrypt hash and never leaves the process.
type User struct {
	ID                  int64     `json:"id" db:"id"`
	Email               string    `json:"email" db:"email"`
	Password            string    `json:"-" db:"password"`
	FirstName           string    `json:"firstName" db:"first_name"`
	LastName            string    `json:"lastName" db:"last_name"`
	Phone               *string   `json:"phone" db:"phone"`
	Role                Role      `json:"role" db:"role"`
	BusinessName        *string   `json:"businessName" db:"business_name"`
	BusinessDescription *string   `json:"businessDescription" db:"business_description"`
	BusinessAddress     *string   `json:"businessAddress" db:"business_address"`
	BusinessPhone       *string   `json:"businessPhone" db:"business_phone"`
	BusinessWebsite     *string   `json:"businessWebsite" db:"business_website"`
	BusinessImage       *string   `json:"businessImage" db:"business_image"`
	BusinessVerified    bool      `json:"businessVerified" db:"business_verified"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
}

// UnknownUser stands in for an owner or reviewer row that no longer exists
func UnknownUser() *User {
	return &User{FirstName: "Utilisateur", LastName: "Inconnu"}
}

// UserProfileUpdate lists the fields a user may change on their own account.
// Nil fields are left untouched; an empty string clears an optional field.
type UserProfileUpdate struct {
	FirstName           *string
	LastName            *string
	Phone               *string
	BusinessName        *string
	BusinessDescription *string
	BusinessAddress     *string
	BusinessPhone       *string
	BusinessWebsite     *string
	BusinessImage       *string
}

// UserUpdate is a partial column update of a user row
type UserUpdate struct {
	UserProfileUpdate
	Role             *Role
	BusinessVerified *bool
}

// IsEmpty reports whether the update would not change any column
func (u UserUpdate) IsEmpty() bool {
	p := u.UserProfileUpdate
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil &&
		p.BusinessName == nil && p.BusinessDescription == nil && p.BusinessAddress == nil &&
		p.BusinessPhone == nil && p.BusinessWebsite == nil && p.BusinessImage == nil &&
		u.Role == nil && u.BusinessVerified == nil
}
