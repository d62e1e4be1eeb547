package main

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pageza/coffeeshop/backend/config"
	"github.com/pageza/coffeeshop/backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// newAuthService trusts the Auth0 tenant when one is configured and falls
// back to the development HS256 secret otherwise.
func newAuthService(cfg *config.Config, log *logrus.Logger, redisClient *redis.Client) *service.AuthService {
	if cfg.Auth0Domain != "" {
		opts := []service.RemoteKeySetOption{service.WithKeySetLogger(log)}
		if redisClient != nil {
			opts = append(opts, service.WithRedisCache(redisClient))
		}
		keys := service.NewRemoteKeySet(service.JWKSURL(cfg.Auth0Domain), cfg.JWKSCacheTTL, opts...)
		log.WithFields(logrus.Fields{
			"domain":   cfg.Auth0Domain,
			"audience": cfg.APIAudience,
		}).Info("Verifying tokens against Auth0")
		return service.NewAuthService(keys, service.Auth0Issuer(cfg.Auth0Domain), cfg.APIAudience)
	}

	log.Warn("AUTH0_DOMAIN not set, accepting development tokens signed with DEV_SIGNING_SECRET")
	keys := service.NewStaticKeySet(map[string]any{service.DevKeyID: []byte(cfg.DevSigningSecret)})
	return service.NewAuthService(keys, service.DevIssuer, cfg.APIAudience,
		service.WithSigningMethods(jwt.SigningMethodHS256.Alg()))
}
