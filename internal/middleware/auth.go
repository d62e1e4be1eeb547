package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pageza/coffeeshop/backend/internal/types"
)

// Context keys set by RequiresAuth.
const (
	ClaimsKey      = "claims"
	PermissionsKey = "permissions"
	SubjectKey     = "subject"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// RequiresAuth creates a middleware that admits only requests carrying a
// valid bearer token that grants permission.
func RequiresAuth(validator TokenValidator, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, authErr := bearerToken(c.GetHeader("Authorization"))
		if authErr != nil {
			abortAuth(c, authErr)
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			var ae *types.AuthError
			if !errors.As(err, &ae) {
				ae = types.NewAuthError(types.CodeMalformedToken, "unable to parse authentication token", err)
			}
			abortAuth(c, ae)
			return
		}

		if err := claims.Authorize(permission); err != nil {
			var ae *types.AuthError
			errors.As(err, &ae)
			abortAuth(c, ae)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(PermissionsKey, claims.Permissions)
		c.Set(SubjectKey, claims.Subject)
		c.Next()
	}
}

func bearerToken(header string) (string, *types.AuthError) {
	if header == "" {
		return "", types.NewAuthError(types.CodeHeaderMissing, "authorization header is expected", nil)
	}

	parts := strings.Split(header, " ")
	switch {
	case !strings.EqualFold(parts[0], "bearer"):
		return "", types.NewAuthError(types.CodeInvalidHeader, `authorization header must start with "Bearer"`, nil)
	case len(parts) == 1 || parts[1] == "":
		return "", types.NewAuthError(types.CodeInvalidHeader, "token not found", nil)
	case len(parts) > 2:
		return "", types.NewAuthError(types.CodeInvalidHeader, "authorization header must be bearer token", nil)
	}
	return parts[1], nil
}

func abortAuth(c *gin.Context, err *types.AuthError) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(err.Status, ErrorResponse{
		Success: false,
		Error:   err.Status,
		Code:    err.Code,
		Message: err.Description,
	})
}

// GetClaims returns the verified claims of the current request.
func GetClaims(c *gin.Context) (*types.TokenClaims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*types.TokenClaims)
	return claims, ok
}

// GetSubject returns the token subject, or "" before authentication.
func GetSubject(c *gin.Context) string {
	return c.GetString(SubjectKey)
}
