package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// ImpersonationClaims is the signed payload carried by the impersonation
// token and, pre-decoded, by the trusted internal header. The camelCase
// JSON keys are the wire contract shared with the frontend and the edge
// layer, so they must not change.
type ImpersonationClaims struct {
	OriginalUserID     string   `json:"originalUserId"`
	OriginalRole       UserRole `json:"originalRole"`
	OriginalEmail      string   `json:"originalEmail"`
	ImpersonatedUserID string   `json:"impersonatedUserId"`
	ImpersonatedRole   UserRole `json:"impersonatedRole"`
	ImpersonatedEmail  string   `json:"impersonatedEmail"`
	CompanyID          string   `json:"companyId"`
	CompanyName        string   `json:"companyName"`
	IsImpersonating    bool     `json:"isImpersonating"`
	// Timestamp is the issuance time in unix milliseconds
	Timestamp int64 `json:"timestamp"`

	jwt.RegisteredClaims
}

// EffectiveIdentity is the identity a request handler should trust for
// authorization: the base Identity, overlaid with impersonation claims
// when impersonation is active. Recomputed on every request.
type EffectiveIdentity struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Role        UserRole `json:"role"`
	CompanyID   *string  `json:"company_id,omitempty"`
	CompanyName *string  `json:"company_name,omitempty"`

	IsImpersonating bool     `json:"is_impersonating"`
	OriginalUserID  string   `json:"original_user_id,omitempty"`
	OriginalRole    UserRole `json:"original_role,omitempty"`
	OriginalEmail   string   `json:"original_email,omitempty"`
}

// ImpersonateRequest represents the request body for starting impersonation
// @Description Impersonation request targeting a company's administrator
type ImpersonateRequest struct {
	CompanyID string `json:"company_id" binding:"required" example:"7f8b1c2d-0a3e-4f5b-9c6d-1e2f3a4b5c6d"`
	Type      string `json:"type" binding:"required,oneof=company" example:"company"`
}

// ImpersonationSummary is the public confirmation payload returned to the
// super admin after issuance. It never carries the raw token.
type ImpersonationSummary struct {
	CompanyID       string   `json:"companyId"`
	CompanyName     string   `json:"companyName"`
	AdminEmail      string   `json:"adminEmail"`
	Role            UserRole `json:"role"`
	IsImpersonating bool     `json:"isImpersonating"`
}
