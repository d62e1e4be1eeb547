package types

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in a JWT token
type TokenClaims struct {
	jwt.RegisteredClaims
	// Permissions is nil when the claim is absent or null. An empty list
	// decodes to a non-nil slice and grants nothing.
	Permissions []string `json:"permissions"`
}

// HasPermission reports whether permission is granted by the token.
func (c *TokenClaims) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}

// Authorize checks that the token grants permission.
func (c *TokenClaims) Authorize(permission string) error {
	if c.Permissions == nil {
		return NewAuthError(CodePermissionsMissing, "permissions not included in token", nil)
	}
	if !c.HasPermission(permission) {
		return NewAuthError(CodeForbidden, "permission not found", nil)
	}
	return nil
}
