package types

import (
	"fmt"
	"net/http"
)

// Authorization failure codes.
const (
	CodeHeaderMissing      = "authorization_header_missing"
	CodeInvalidHeader      = "invalid_header"
	CodeInvalidKey         = "invalid_key"
	CodeTokenExpired       = "token_expired"
	CodeInvalidClaims      = "invalid_claims"
	CodeInvalidSignature   = "invalid_signature"
	CodeMalformedToken     = "malformed_token"
	CodePermissionsMissing = "permissions_missing"
	CodeForbidden          = "forbidden"
)

// AuthError is returned when a request fails authentication or authorization.
type AuthError struct {
	Code        string
	Description string
	Status      int
	Err         error
}

// NewAuthError builds an AuthError whose status is derived from code.
func NewAuthError(code, description string, err error) *AuthError {
	status := http.StatusUnauthorized
	if code == CodePermissionsMissing || code == CodeForbidden {
		status = http.StatusForbidden
	}
	return &AuthError{Code: code, Description: description, Status: status, Err: err}
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
