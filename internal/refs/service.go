package refs

import (
	"context"
	"encoding/json"
	"time"

	"lawoffice_crm_backend/platform/cache"
	"lawoffice_crm_backend/platform/logger"
)

const bundleCacheKey = "refs:bundle"

// Service provides per-cycle reference maps, backed by an explicit cache with
// a TTL. A cache failure is never fatal: the bundle is rebuilt from the
// database instead.
type Service struct {
	repo  *Repository
	cache cache.Cache
	ttl   time.Duration
	log   *logger.Logger
}

// NewService creates a refs service.
func NewService(repo *Repository, c cache.Cache, ttl time.Duration, log *logger.Logger) *Service {
	return &Service{repo: repo, cache: c, ttl: ttl, log: log}
}

// Maps returns resolution maps for one search cycle. The underlying bundle
// may be up to TTL stale; callers needing fresh taxonomies call Invalidate
// first.
func (s *Service) Maps(ctx context.Context) (*Maps, error) {
	if raw, ok, err := s.cache.Get(ctx, bundleCacheKey); err == nil && ok {
		var b Bundle
		if err := json.Unmarshal(raw, &b); err == nil {
			return NewMaps(b), nil
		}
		// A corrupt cache entry is dropped and rebuilt.
		_ = s.cache.Invalidate(ctx, bundleCacheKey)
	} else if err != nil {
		s.log.Warn("refs cache read failed", "error", err)
	}

	b, err := s.repo.LoadBundle(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(b); err == nil {
		if err := s.cache.Set(ctx, bundleCacheKey, raw, s.ttl); err != nil {
			s.log.Warn("refs cache write failed", "error", err)
		}
	}

	return NewMaps(b), nil
}

// Invalidate drops the cached taxonomy bundle.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, bundleCacheKey)
}
