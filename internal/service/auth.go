package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pageza/coffeeshop/backend/internal/types"
)

// Development signing settings used when no identity provider is configured.
const (
	DevKeyID  = "dev"
	DevIssuer = "coffeeshop-dev"
)

var errMissingKeyID = errors.New("token header has no kid")

// AuthService verifies bearer tokens against a trusted key set
type AuthService struct {
	keys     KeySet
	issuer   string
	audience string
	methods  []string
	leeway   time.Duration
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithSigningMethods sets the accepted "alg" values. RS256 is the default.
func WithSigningMethods(methods ...string) AuthOption {
	return func(s *AuthService) { s.methods = methods }
}

// WithLeeway tolerates clock skew when checking time based claims.
func WithLeeway(d time.Duration) AuthOption {
	return func(s *AuthService) { s.leeway = d }
}

func NewAuthService(keys KeySet, issuer, audience string, opts ...AuthOption) *AuthService {
	s := &AuthService{
		keys:     keys,
		issuer:   issuer,
		audience: audience,
		methods:  []string{jwt.SigningMethodRS256.Alg()},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Auth0Issuer returns the issuer claim of tokens minted by an Auth0 tenant.
func Auth0Issuer(domain string) string {
	return "https://" + domain + "/"
}

// ValidateToken checks the signature and standard claims of token. Failures
// are returned as *types.AuthError.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods(s.methods),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.leeway),
	)

	claims := &types.TokenClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if keyID(t) == "" {
			return nil, errMissingKeyID
		}
		return s.keys.Key(ctx, t)
	})
	if err != nil {
		return nil, classifyTokenError(err)
	}
	return claims, nil
}

func classifyTokenError(err error) *types.AuthError {
	switch {
	case errors.Is(err, errMissingKeyID), errors.Is(err, ErrKeyNotFound), errors.Is(err, jwt.ErrTokenUnverifiable):
		return types.NewAuthError(types.CodeInvalidKey, "unable to find the appropriate key", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return types.NewAuthError(types.CodeTokenExpired, "token expired", err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing), errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued), errors.Is(err, jwt.ErrTokenInvalidClaims):
		return types.NewAuthError(types.CodeInvalidClaims, "incorrect claims, please check the audience and issuer", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return types.NewAuthError(types.CodeInvalidSignature, "token signature is invalid", err)
	default:
		return types.NewAuthError(types.CodeMalformedToken, "unable to parse authentication token", err)
	}
}

// IssueToken signs claims with key and stamps kid into the token header.
// Tokens are normally minted by the identity provider; this serves local
// development and tests.
func IssueToken(method jwt.SigningMethod, key any, kid string, claims *types.TokenClaims) (string, error) {
	token := jwt.NewWithClaims(method, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// NewDevClaims builds claims accepted by a development AuthService.
func NewDevClaims(subject, audience string, ttl time.Duration, permissions ...string) *types.TokenClaims {
	now := time.Now()
	return &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    DevIssuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Permissions: permissions,
	}
}
