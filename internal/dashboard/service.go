package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/richxcame/devcert-dashboard/internal/developers"
	"github.com/richxcame/devcert-dashboard/pkg/logger"
	redisClient "github.com/richxcame/devcert-dashboard/pkg/redis"
	"go.uber.org/zap"
)

const (
	generationKey     = "dashboard:generation"
	overviewKeyPrefix = "dashboard:overview"
	defaultCacheTTL   = 5 * time.Minute
)

// Filter selects the records an overview is computed over
type Filter struct {
	PartnerCode string
	Start       *time.Time
	End         *time.Time
}

// Overview is the full dashboard view model
type Overview struct {
	Metrics     Metrics            `json:"metrics"`
	Chart       []ChartPoint       `json:"chart"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// Service computes dashboard overviews and caches them in Redis
type Service struct {
	source RecordSource
	cache  redisClient.ClientInterface
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a new dashboard service. cache may be nil to disable caching.
func NewService(source RecordSource, cache redisClient.ClientInterface, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Service{source: source, cache: cache, ttl: ttl, now: time.Now}
}

// GetOverview returns metrics and chart for the date range and the partner
// leaderboard. The leaderboard ignores the date range.
func (s *Service) GetOverview(ctx context.Context, filter Filter) (*Overview, error) {
	key, cacheable := s.cacheKey(ctx, filter)
	if cacheable {
		if overview, ok := s.lookup(ctx, key); ok {
			return overview, nil
		}
	}

	records, err := s.source.List(ctx, filter.PartnerCode)
	if err != nil {
		return nil, err
	}

	overview := Build(records, filter.Start, filter.End)
	overview.GeneratedAt = s.now().UTC()

	if cacheable {
		s.store(ctx, key, overview)
	}
	return overview, nil
}

// Build computes an overview from an in-memory batch
func Build(records []developers.DeveloperRecord, start, end *time.Time) *Overview {
	return &Overview{
		Metrics:     ComputeMetrics(records, start, end),
		Chart:       BucketByMonth(records, start, end),
		Leaderboard: TopPartners(records),
	}
}

// Invalidate moves the cache to a new generation so every cached overview is
// ignored from now on
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if _, err := s.cache.Increment(ctx, generationKey); err != nil {
		return fmt.Errorf("failed to bump dashboard cache generation: %w", err)
	}
	return nil
}

// cacheKey returns false when caching is disabled or the generation is unreadable
func (s *Service) cacheKey(ctx context.Context, filter Filter) (string, bool) {
	if s.cache == nil {
		cacheRequestsTotal.WithLabelValues(cacheDisabled).Inc()
		return "", false
	}

	generation, err := s.cache.GetString(ctx, generationKey)
	switch {
	case redisClient.IsNil(err):
		generation = "0"
	case err != nil:
		cacheRequestsTotal.WithLabelValues(cacheError).Inc()
		logger.WithContext(ctx).Warn("Failed to read dashboard cache generation", zap.Error(err))
		return "", false
	}

	partner := strings.TrimSpace(filter.PartnerCode)
	if partner == "" {
		partner = developers.AllPartners
	}

	return strings.Join([]string{
		overviewKeyPrefix,
		generation,
		partner,
		boundKey(filter.Start),
		boundKey(filter.End),
	}, ":"), true
}

func (s *Service) lookup(ctx context.Context, key string) (*Overview, bool) {
	data, err := s.cache.GetString(ctx, key)
	if redisClient.IsNil(err) {
		cacheRequestsTotal.WithLabelValues(cacheMiss).Inc()
		return nil, false
	}
	if err != nil {
		cacheRequestsTotal.WithLabelValues(cacheError).Inc()
		logger.WithContext(ctx).Warn("Failed to read dashboard cache", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var overview Overview
	if err := json.Unmarshal([]byte(data), &overview); err != nil {
		cacheRequestsTotal.WithLabelValues(cacheError).Inc()
		logger.WithContext(ctx).Warn("Discarding undecodable dashboard cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	cacheRequestsTotal.WithLabelValues(cacheHit).Inc()
	return &overview, true
}

func (s *Service) store(ctx context.Context, key string, overview *Overview) {
	data, err := json.Marshal(overview)
	if err != nil {
		logger.WithContext(ctx).Warn("Failed to encode dashboard overview", zap.Error(err))
		return
	}
	if err := s.cache.SetWithExpiration(ctx, key, data, s.ttl); err != nil {
		logger.WithContext(ctx).Warn("Failed to cache dashboard overview", zap.String("key", key), zap.Error(err))
	}
}

func boundKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
