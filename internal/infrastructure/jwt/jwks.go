package jwtinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"go.uber.org/zap"
)

// JWKSOptions controls how the signing key set is kept fresh.
type JWKSOptions struct {
	RefreshInterval  time.Duration
	RefreshRateLimit time.Duration
	RefreshTimeout   time.Duration
}

// NewJWKS fetches the key set at url and keeps refreshing it in the
// background until ctx is done or EndBackground is called. A token signed
// with an unknown kid triggers a rate-limited refresh.
func NewJWKS(ctx context.Context, url string, o JWKSOptions, log *zap.Logger) (*keyfunc.JWKS, error) {
	if o.RefreshTimeout == 0 {
		o.RefreshTimeout = 10 * time.Second
	}
	jwks, err := keyfunc.Get(url, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   o.RefreshInterval,
		RefreshRateLimit:  o.RefreshRateLimit,
		RefreshTimeout:    o.RefreshTimeout,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Warn("jwks refresh failed", zap.String("url", url), zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch jwks %s: %w", url, err)
	}
	log.Info("jwks loaded", zap.String("url", url), zap.Int("keys", jwks.Len()))
	return jwks, nil
}
