package types

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name        string
		permissions []string
		wantCode    string
	}{
		{"granted", []string{"get:drinks", "post:drinks"}, ""},
		{"claim absent", nil, CodePermissionsMissing},
		{"empty claim", []string{}, CodeForbidden},
		{"not granted", []string{"get:drinks"}, CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &TokenClaims{Permissions: tt.permissions}
			err := claims.Authorize("post:drinks")
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var authErr *AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tt.wantCode, authErr.Code)
			assert.Equal(t, http.StatusForbidden, authErr.Status)
		})
	}
}

func TestAuthorize_DecodedClaim(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantCode string
	}{
		{"absent", `{"sub":"auth0|u"}`, CodePermissionsMissing},
		{"null", `{"sub":"auth0|u","permissions":null}`, CodePermissionsMissing},
		{"empty list", `{"sub":"auth0|u","permissions":[]}`, CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var claims TokenClaims
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &claims))

			var authErr *AuthError
			require.True(t, errors.As(claims.Authorize("get:drinks-detail"), &authErr))
			assert.Equal(t, tt.wantCode, authErr.Code)
		})
	}
}

func TestTokenClaims_NilPermissionsEncodeAsNull(t *testing.T) {
	raw, err := json.Marshal(&TokenClaims{})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"permissions":null`)

	raw, err = json.Marshal(&TokenClaims{Permissions: []string{}})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"permissions":[]`)
}

func TestNewAuthErrorStatus(t *testing.T) {
	cause := errors.New("boom")
	err := NewAuthError(CodeTokenExpired, "token expired", cause)

	assert.Equal(t, http.StatusUnauthorized, err.Status)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "token_expired: token expired: boom", err.Error())
}
