package service

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// ErrKeyNotFound is returned when no verification key matches a key id.
var ErrKeyNotFound = errors.New("signing key not found")

const (
	maxJWKSBytes     = 1 << 20
	forcedRefreshGap = time.Minute
	staleRetryGap    = 30 * time.Second
)

func keyID(token *jwt.Token) string {
	kid, _ := token.Header["kid"].(string)
	return kid
}

// StaticKeySet serves a fixed set of verification keys.
type StaticKeySet struct {
	keys map[string]any
}

// NewStaticKeySet creates a key set from kid to key. Keys are *rsa.PublicKey
// for RS256 tokens or []byte secrets for HS256 tokens.
func NewStaticKeySet(keys map[string]any) *StaticKeySet {
	return &StaticKeySet{keys: keys}
}

func (s *StaticKeySet) Key(_ context.Context, token *jwt.Token) (any, error) {
	kid := keyID(token)
	key, ok := s.keys[kid]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, kid)
	}
	return key, nil
}

// RemoteKeySet serves the signing keys published in a JWKS document. Key
// selection is delegated to keyfunc.
//
// Keys are cached in memory for the configured TTL. When a redis client is
// set, the raw document is shared through redis with the same TTL. If a
// refresh fails after the TTL expired, the previous keys stay in use. A token
// carrying an unknown kid triggers one refetch that bypasses both caches, at
// most once per minute. Fetches never hold the lookup lock.
type RemoteKeySet struct {
	url    string
	ttl    time.Duration
	client *http.Client
	redis  *redis.Client
	log    *logrus.Logger
	now    func() time.Time
	group  singleflight.Group

	mu          sync.RWMutex
	keys        keyfunc.Keyfunc
	nextRefresh time.Time
	lastForced  time.Time
}

// RemoteKeySetOption configures a RemoteKeySet.
type RemoteKeySetOption func(*RemoteKeySet)

func WithHTTPClient(c *http.Client) RemoteKeySetOption {
	return func(s *RemoteKeySet) { s.client = c }
}

func WithRedisCache(c *redis.Client) RemoteKeySetOption {
	return func(s *RemoteKeySet) { s.redis = c }
}

func WithKeySetLogger(l *logrus.Logger) RemoteKeySetOption {
	return func(s *RemoteKeySet) { s.log = l }
}

// NewRemoteKeySet creates a key set backed by the JWKS document at url.
func NewRemoteKeySet(url string, ttl time.Duration, opts ...RemoteKeySetOption) *RemoteKeySet {
	s := &RemoteKeySet{
		url:    url,
		ttl:    ttl,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    logrus.StandardLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// JWKSURL returns the JWKS location of an Auth0 tenant domain.
func JWKSURL(domain string) string {
	return "https://" + domain + "/.well-known/jwks.json"
}

func (s *RemoteKeySet) Key(ctx context.Context, token *jwt.Token) (any, error) {
	s.mu.RLock()
	keys, fresh := s.keys, s.keys != nil && s.now().Before(s.nextRefresh)
	s.mu.RUnlock()

	if !fresh {
		refreshed, err := s.refresh(ctx, false)
		switch {
		case err == nil:
			keys = refreshed
		case keys == nil:
			return nil, err
		default:
			s.log.WithError(err).WithField("url", s.url).Warn("jwks refresh failed, using previous signing keys")
			s.mu.Lock()
			s.nextRefresh = s.now().Add(min(s.ttl, staleRetryGap))
			s.mu.Unlock()
		}
	}

	if key, err := keys.Keyfunc(token); err == nil {
		return key, nil
	}

	kid := keyID(token)
	if !s.allowForcedRefresh() {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, kid)
	}
	refreshed, err := s.refresh(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrKeyNotFound, kid, err)
	}
	key, err := refreshed.Keyfunc(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrKeyNotFound, kid, err)
	}
	return key, nil
}

func (s *RemoteKeySet) allowForcedRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.now().Sub(s.lastForced) < forcedRefreshGap {
		return false
	}
	s.lastForced = s.now()
	return true
}

// refresh loads the key set once for every concurrent caller and installs it.
func (s *RemoteKeySet) refresh(ctx context.Context, bypassCache bool) (keyfunc.Keyfunc, error) {
	flight := "cached"
	if bypassCache {
		flight = "forced"
	}
	// The shared fetch must outlive the caller that happened to start it.
	ctx = context.WithoutCancel(ctx)

	v, err, _ := s.group.Do(flight, func() (any, error) {
		doc, err := s.document(ctx, bypassCache)
		if err != nil {
			return nil, err
		}
		keys, err := keyfunc.NewJWKSetJSON(doc)
		if err != nil {
			return nil, fmt.Errorf("parse jwks: %w", err)
		}

		s.mu.Lock()
		s.keys = keys
		s.nextRefresh = s.now().Add(s.ttl)
		s.mu.Unlock()

		s.log.WithField("url", s.url).Debug("loaded signing keys")
		return keys, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(keyfunc.Keyfunc), nil
}

func (s *RemoteKeySet) document(ctx context.Context, bypassCache bool) ([]byte, error) {
	if s.redis != nil && !bypassCache {
		cached, err := s.redis.Get(ctx, s.cacheKey()).Bytes()
		switch {
		case err == nil:
			return cached, nil
		case !errors.Is(err, redis.Nil):
			s.log.WithError(err).Warn("jwks cache read failed")
		}
	}

	doc, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if s.redis != nil {
		if err := s.redis.Set(ctx, s.cacheKey(), doc, s.ttl).Err(); err != nil {
			s.log.WithError(err).Warn("jwks cache write failed")
		}
	}
	return doc, nil
}

func (s *RemoteKeySet) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build jwks request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch jwks: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJWKSBytes))
	if err != nil {
		return nil, fmt.Errorf("read jwks: %w", err)
	}
	return body, nil
}

func (s *RemoteKeySet) cacheKey() string {
	return "jwks:" + s.url
}

// EncodeJWK renders an RSA public key as a JWKS entry.
func EncodeJWK(kid string, key *rsa.PublicKey) map[string]string {
	return map[string]string{
		"kty": "RSA",
		"kid": kid,
		"use": "sig",
		"alg": "RS256",
		"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
		"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
	}
}
