package developers

import (
	"context"
	"errors"
	"time"

	"github.com/richxcame/devcert-dashboard/pkg/common"
	fb "github.com/richxcame/devcert-dashboard/pkg/firebase"
	"github.com/richxcame/devcert-dashboard/pkg/logger"
	"github.com/richxcame/devcert-dashboard/pkg/resilience"
	"go.uber.org/zap"
)

// Service handles developer record business logic
type Service struct {
	repo        RepositoryInterface
	assessor    Assessor
	invalidator CacheInvalidator
	breaker     *resilience.CircuitBreaker
	retry       resilience.RetryConfig
	now         func() time.Time
}

// NewService creates a new developers service. assessor may be nil.
func NewService(repo RepositoryInterface, assessor Assessor) *Service {
	retry := resilience.DefaultRetryConfig()
	retry.RetryableChecker = fb.IsRetryable

	return &Service{
		repo:     repo,
		assessor: assessor,
		retry:    retry,
		now:      time.Now,
	}
}

// SetCircuitBreaker routes repository calls through breaker
func (s *Service) SetCircuitBreaker(breaker *resilience.CircuitBreaker) {
	s.breaker = breaker
}

// SetCacheInvalidator registers the cache to drop after writes
func (s *Service) SetCacheInvalidator(invalidator CacheInvalidator) {
	s.invalidator = invalidator
}

// SetRetryConfig overrides the write retry policy
func (s *Service) SetRetryConfig(cfg resilience.RetryConfig) {
	s.retry = cfg
}

// Create validates and stores a new record, scoring it first
func (s *Service) Create(ctx context.Context, req *CreateDeveloperRequest) (*DeveloperRecord, error) {
	rec := s.assess(req.ToRecord(s.now()))

	if _, err := s.repo.FindByEmail(ctx, rec.Email); err == nil {
		return nil, common.NewConflictError("developer with this email already exists")
	} else if !errors.Is(err, ErrDeveloperNotFound) {
		logger.WithContext(ctx).Error("Failed to check developer email", zap.Error(err))
		return nil, s.unavailableOr(err, "failed to create developer")
	}

	if _, err := s.write(ctx, func(ctx context.Context) (interface{}, error) {
		return s.repo.Create(ctx, &rec)
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to create developer", zap.String("email", rec.Email), zap.Error(err))
		return nil, s.unavailableOr(err, "failed to create developer")
	}

	s.invalidate(ctx)
	return &rec, nil
}

// GetByID returns a record by id
func (s *Service) GetByID(ctx context.Context, id string) (*DeveloperRecord, error) {
	result, err := s.read(ctx, func(ctx context.Context) (interface{}, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		if errors.Is(err, ErrDeveloperNotFound) {
			return nil, common.NewNotFoundError("developer not found", err)
		}
		return nil, s.unavailableOr(err, "failed to get developer")
	}
	return result.(*DeveloperRecord), nil
}

// List returns all records for a partner code ("" or "All" for every partner)
func (s *Service) List(ctx context.Context, partnerCode string) ([]DeveloperRecord, error) {
	result, err := s.read(ctx, func(ctx context.Context) (interface{}, error) {
		return s.repo.List(ctx, partnerCode)
	})
	if err != nil {
		logger.WithContext(ctx).Error("Failed to list developers", zap.String("partner_code", partnerCode), zap.Error(err))
		return nil, s.unavailableOr(err, "failed to list developers")
	}
	return result.([]DeveloperRecord), nil
}

// Update applies a partial update and re-scores the merged record
func (s *Service) Update(ctx context.Context, id string, req *UpdateDeveloperRequest) (*DeveloperRecord, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(existing)
	if existing.CompletedAt != nil && existing.CompletedAt.Before(existing.CreatedAt) {
		return nil, common.NewBadRequestError("completed_at must not be before created_at", nil)
	}
	rec := s.assess(*existing)
	rec.ID = id

	if _, err := s.write(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, s.repo.Update(ctx, &rec)
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to update developer", zap.String("id", id), zap.Error(err))
		return nil, s.unavailableOr(err, "failed to update developer")
	}

	s.invalidate(ctx)
	return &rec, nil
}

// Save stores rec as-is. Used when the fraud assessment has been recomputed.
func (s *Service) Save(ctx context.Context, rec *DeveloperRecord) error {
	if _, err := s.write(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, s.repo.Update(ctx, rec)
	}); err != nil {
		return s.unavailableOr(err, "failed to save developer")
	}
	return nil
}

// Delete removes a record
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.write(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, s.repo.Delete(ctx, id)
	}); err != nil {
		if errors.Is(err, ErrDeveloperNotFound) {
			return common.NewNotFoundError("developer not found", err)
		}
		logger.WithContext(ctx).Error("Failed to delete developer", zap.String("id", id), zap.Error(err))
		return s.unavailableOr(err, "failed to delete developer")
	}

	s.invalidate(ctx)
	return nil
}

// BulkUpsert stores each record, updating the existing document with the
// same email or creating a new one. A failing record never aborts the batch.
func (s *Service) BulkUpsert(ctx context.Context, records []DeveloperRecord) []UpsertOutcome {
	outcomes := make([]UpsertOutcome, 0, len(records))
	changed := false

	for i := range records {
		rec := records[i]
		outcome := s.upsertOne(ctx, &rec)
		if outcome.Status != UpsertFailed {
			changed = true
		}
		outcomes = append(outcomes, outcome)
	}

	if changed {
		s.invalidate(ctx)
	}
	return outcomes
}

// InvalidateCache tells the registered cache that stored records changed
func (s *Service) InvalidateCache(ctx context.Context) {
	s.invalidate(ctx)
}

func (s *Service) upsertOne(ctx context.Context, rec *DeveloperRecord) UpsertOutcome {
	outcome := UpsertOutcome{Email: rec.Email}

	existing, err := s.read(ctx, func(ctx context.Context) (interface{}, error) {
		return s.repo.FindByEmail(ctx, rec.Email)
	})
	switch {
	case err == nil:
		rec.ID = existing.(*DeveloperRecord).ID
		_, err = s.write(ctx, func(ctx context.Context) (interface{}, error) {
			return nil, s.repo.Update(ctx, rec)
		})
		outcome.Status = UpsertUpdated
	case errors.Is(err, ErrDeveloperNotFound):
		_, err = s.write(ctx, func(ctx context.Context) (interface{}, error) {
			return s.repo.Create(ctx, rec)
		})
		outcome.Status = UpsertCreated
	}

	if err != nil {
		logger.WithContext(ctx).Warn("Bulk upsert failed for record", zap.String("email", rec.Email), zap.Error(err))
		outcome.Status = UpsertFailed
		outcome.Error = err.Error()
		return outcome
	}

	outcome.ID = rec.ID
	return outcome
}

func (s *Service) assess(rec DeveloperRecord) DeveloperRecord {
	if s.assessor == nil {
		return rec
	}
	return s.assessor.Assess(rec)
}

func (s *Service) read(ctx context.Context, op func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if s.breaker == nil {
		return op(ctx)
	}
	return s.breaker.Execute(ctx, op)
}

func (s *Service) write(ctx context.Context, op func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	return resilience.Retry(ctx, s.retry, func(ctx context.Context) (interface{}, error) {
		return s.read(ctx, op)
	})
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		logger.WithContext(ctx).Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}
}

func (s *Service) unavailableOr(err error, message string) *common.AppError {
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return common.NewServiceUnavailableError("record store temporarily unavailable")
	}
	return common.NewInternalError(message, err)
}
