package places

import (
	"context"
	"fmt"

	"tapright/internal/models"
	"tapright/pkg/config"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// throttledProvider wraps a provider with a short-TTL response cache
// and a rate limiter. Position updates can arrive every few seconds
// while the user barely moves; caching on rounded coordinates keeps
// repeat lookups off the network, and the limiter caps what does go
// out.
type throttledProvider struct {
	inner   Provider
	cache   *gocache.Cache
	limiter *rate.Limiter
	logger  *zap.Logger
}

func newThrottledProvider(inner Provider, cfg config.PlacesConfig, logger *zap.Logger) *throttledProvider {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &throttledProvider{
		inner:   inner,
		cache:   gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}
}

func (p *throttledProvider) Name() string {
	return p.inner.Name()
}

func (p *throttledProvider) Nearby(ctx context.Context, coord models.Coordinate) ([]RawPlace, error) {
	key := cacheKey(p.inner.Name(), coord)
	if val, found := p.cache.Get(key); found {
		p.logger.Debug("Places cache hit", zap.String("key", key))
		return val.([]RawPlace), nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	hits, err := p.inner.Nearby(ctx, coord)
	if err != nil {
		return nil, err
	}

	p.cache.Set(key, hits, gocache.DefaultExpiration)
	return hits, nil
}

func (p *throttledProvider) Normalize(rawType string) models.Category {
	return p.inner.Normalize(rawType)
}

// cacheKey rounds coordinates to ~10 meters so jittery GPS fixes from
// the same spot share a cache entry.
func cacheKey(provider string, coord models.Coordinate) string {
	return fmt.Sprintf("%s:%.4f:%.4f", provider, coord.Latitude, coord.Longitude)
}
