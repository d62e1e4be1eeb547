package service_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pageza/coffeeshop/backend/internal/service"
	"github.com/pageza/coffeeshop/backend/internal/testhelpers"
	"github.com/pageza/coffeeshop/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDomain   = "coffeeshop.example.auth0.com"
	testAudience = "drinks"
	testKeyID    = "key-1"
)

func generateKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func validClaims(permissions ...string) *types.TokenClaims {
	now := time.Now()
	return &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    service.Auth0Issuer(testDomain),
			Subject:   "auth0|barista",
			Audience:  jwt.ClaimStrings{testAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Permissions: permissions,
	}
}

func sign(t *testing.T, key *rsa.PrivateKey, kid string, claims *types.TokenClaims) string {
	t.Helper()
	token, err := service.IssueToken(jwt.SigningMethodRS256, key, kid, claims)
	require.NoError(t, err)
	return token
}

func authCode(t *testing.T, err error) string {
	t.Helper()
	var authErr *types.AuthError
	require.True(t, errors.As(err, &authErr), "expected *types.AuthError, got %v", err)
	return authErr.Code
}

func TestAuthService_ValidateToken(t *testing.T) {
	key := generateKey(t)
	keys := service.NewStaticKeySet(map[string]any{testKeyID: &key.PublicKey})
	svc := service.NewAuthService(keys, service.Auth0Issuer(testDomain), testAudience)

	claims, err := svc.ValidateToken(context.Background(), sign(t, key, testKeyID, validClaims("get:drinks-detail", "post:drinks")))
	require.NoError(t, err)
	assert.Equal(t, "auth0|barista", claims.Subject)
	assert.Equal(t, []string{"get:drinks-detail", "post:drinks"}, claims.Permissions)
	assert.NoError(t, claims.Authorize("post:drinks"))
}

func TestAuthService_ValidateTokenFailures(t *testing.T) {
	key := generateKey(t)
	otherKey := generateKey(t)
	keys := service.NewStaticKeySet(map[string]any{testKeyID: &key.PublicKey})
	svc := service.NewAuthService(keys, service.Auth0Issuer(testDomain), testAudience)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"someone-else"}

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "https://evil.example.com/"

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	notYetValid := validClaims()
	notYetValid.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))

	hsToken, err := service.IssueToken(jwt.SigningMethodHS256, []byte("secret"), testKeyID, validClaims())
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		code  string
	}{
		{name: "expired", token: sign(t, key, testKeyID, expired), code: types.CodeTokenExpired},
		{name: "wrong audience", token: sign(t, key, testKeyID, wrongAudience), code: types.CodeInvalidClaims},
		{name: "wrong issuer", token: sign(t, key, testKeyID, wrongIssuer), code: types.CodeInvalidClaims},
		{name: "missing expiry", token: sign(t, key, testKeyID, noExpiry), code: types.CodeInvalidClaims},
		{name: "not yet valid", token: sign(t, key, testKeyID, notYetValid), code: types.CodeInvalidClaims},
		{name: "unknown kid", token: sign(t, key, "key-2", validClaims()), code: types.CodeInvalidKey},
		{name: "empty kid", token: sign(t, key, "", validClaims()), code: types.CodeInvalidKey},
		{name: "foreign signature", token: sign(t, otherKey, testKeyID, validClaims()), code: types.CodeInvalidSignature},
		{name: "unexpected algorithm", token: hsToken, code: types.CodeInvalidSignature},
		{name: "garbage", token: "not-a-jwt", code: types.CodeMalformedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(context.Background(), tt.token)
			assert.Nil(t, claims)
			require.Error(t, err)
			assert.Equal(t, tt.code, authCode(t, err))
		})
	}
}

func TestAuthService_Leeway(t *testing.T) {
	key := generateKey(t)
	keys := service.NewStaticKeySet(map[string]any{testKeyID: &key.PublicKey})
	svc := service.NewAuthService(keys, service.Auth0Issuer(testDomain), testAudience, service.WithLeeway(time.Minute))

	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-10 * time.Second))

	_, err := svc.ValidateToken(context.Background(), sign(t, key, testKeyID, claims))
	assert.NoError(t, err)
}

func TestAuthService_DevTokens(t *testing.T) {
	auth := testhelpers.NewTestAuth(t)
	ctx := context.Background()

	claims, err := auth.Service.ValidateToken(ctx, auth.Token(t, "delete:drinks"))
	require.NoError(t, err)
	assert.Equal(t, service.DevIssuer, claims.Issuer)
	assert.NoError(t, claims.Authorize("delete:drinks"))
	assert.Equal(t, types.CodeForbidden, authCode(t, claims.Authorize("post:drinks")))

	claims, err = auth.Service.ValidateToken(ctx, auth.Token(t))
	require.NoError(t, err)
	assert.Nil(t, claims.Permissions)
	assert.Equal(t, types.CodePermissionsMissing, authCode(t, claims.Authorize("get:drinks-detail")))
}

func TestAuthService_EmptyPermissionsAreForbidden(t *testing.T) {
	auth := testhelpers.NewTestAuth(t)
	devClaims := service.NewDevClaims("auth0|test-user", testhelpers.TestAudience, time.Hour)
	devClaims.Permissions = []string{}
	token, err := service.IssueToken(jwt.SigningMethodHS256, auth.Secret, service.DevKeyID, devClaims)
	require.NoError(t, err)

	claims, err := auth.Service.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.NotNil(t, claims.Permissions)
	assert.Empty(t, claims.Permissions)
	assert.Equal(t, types.CodeForbidden, authCode(t, claims.Authorize("get:drinks-detail")))
}

func TestAuth0Issuer(t *testing.T) {
	assert.Equal(t, "https://tenant.us.auth0.com/", service.Auth0Issuer("tenant.us.auth0.com"))
	assert.Equal(t, "https://tenant.us.auth0.com/.well-known/jwks.json", service.JWKSURL("tenant.us.auth0.com"))
}
