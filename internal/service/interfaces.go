package service

import (
	"context"
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pageza/coffeeshop/backend/internal/model"
	"github.com/pageza/coffeeshop/backend/internal/types"
)

// IAuthService defines the interface for token verification
type IAuthService interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// IDrinkService defines the interface for drink operations
type IDrinkService interface {
	List(ctx context.Context, view model.View) ([]any, error)
	Create(ctx context.Context, title string, recipe json.RawMessage) (*model.LongDrink, error)
	Update(ctx context.Context, id uint, update DrinkUpdate) error
	Delete(ctx context.Context, id uint) (uint, error)
}

// KeySet resolves the verification key of a token by its "kid" header.
type KeySet interface {
	Key(ctx context.Context, token *jwt.Token) (any, error)
}

var (
	_ IAuthService  = (*AuthService)(nil)
	_ IDrinkService = (*DrinkService)(nil)
	_ KeySet        = (*StaticKeySet)(nil)
	_ KeySet        = (*RemoteKeySet)(nil)
)
