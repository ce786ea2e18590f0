package render

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/architectures/pkg/cache"
	"github.com/matzehuels/architectures/pkg/observability"
)

const keyTypeArtifact = "artifact"

// CachedRenderer serves renders from a cache, delegating misses.
type CachedRenderer struct {
	inner  Renderer
	cache  cache.Cache
	ttl    time.Duration
	logger *log.Logger
}

// Cached wraps r with c. Cache failures are logged and fall through to r.
func Cached(r Renderer, c cache.Cache, ttl time.Duration) *CachedRenderer {
	return &CachedRenderer{inner: r, cache: c, ttl: ttl, logger: log.Default()}
}

// WithLogger sets the logger used for cache failures.
func (r *CachedRenderer) WithLogger(l *log.Logger) *CachedRenderer {
	r.logger = l
	return r
}

// Name returns the wrapped renderer's name.
func (r *CachedRenderer) Name() string { return r.inner.Name() }

// Render returns the cached artifact for (src, format) or renders and stores it.
func (r *CachedRenderer) Render(ctx context.Context, src []byte, format string) ([]byte, error) {
	key := cache.ArtifactKey(src, r.inner.Name(), format)

	data, hit, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("cache read failed", "err", err)
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
		r.logger.Debug("render cache hit", "format", format)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)

	out, err := r.inner.Render(ctx, src, format)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, key, out, r.ttl); err != nil {
		r.logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(out))
	}
	return out, nil
}
