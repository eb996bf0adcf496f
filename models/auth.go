package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the base session claims issued at login
type JWTClaims struct {
	UserID    string     `json:"user_id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      UserRole   `json:"role"`
	Status    UserStatus `json:"status"`
	CompanyID *string    `json:"company_id,omitempty"`

	jwt.RegisteredClaims
}

// Identity is the authenticated principal for a request, built from the
// base session claims. Immutable for the lifetime of the session.
type Identity struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Role        UserRole `json:"role"`
	CompanyID   *string  `json:"company_id,omitempty"`
	CompanyName *string  `json:"company_name,omitempty"`
}
