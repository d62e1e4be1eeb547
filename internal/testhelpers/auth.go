package testhelpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pageza/coffeeshop/backend/internal/service"
)

// TestAudience is the audience accepted by NewTestAuth.
const TestAudience = "coffeeshop-test"

// TestAuth verifies and mints HS256 development tokens.
type TestAuth struct {
	Service *service.AuthService
	Secret  []byte
}

// NewTestAuth creates an AuthService trusting a random HS256 secret.
func NewTestAuth(t *testing.T) *TestAuth {
	t.Helper()
	secret := []byte("test-signing-secret-" + t.Name())
	keys := service.NewStaticKeySet(map[string]any{service.DevKeyID: secret})
	return &TestAuth{
		Service: service.NewAuthService(keys, service.DevIssuer, TestAudience,
			service.WithSigningMethods(jwt.SigningMethodHS256.Alg())),
		Secret: secret,
	}
}

// Token returns a bearer token granting permissions. With no permissions
// the claim is encoded as null, which validates the same as an absent claim.
func (a *TestAuth) Token(t *testing.T, permissions ...string) string {
	t.Helper()
	claims := service.NewDevClaims("auth0|test-user", TestAudience, time.Hour, permissions...)
	token, err := service.IssueToken(jwt.SigningMethodHS256, a.Secret, service.DevKeyID, claims)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}
