package fraud

import (
	"context"

	"github.com/richxcame/devcert-dashboard/internal/developers"
)

// RecordStore is the developer record store the fraud service reads and rewrites
type RecordStore interface {
	List(ctx context.Context, partnerCode string) ([]developers.DeveloperRecord, error)
	Save(ctx context.Context, rec *developers.DeveloperRecord) error
	InvalidateCache(ctx context.Context)
}

// ServiceInterface is the fraud service as seen by the HTTP handler
type ServiceInterface interface {
	Check(rec developers.DeveloperRecord) CheckResult
	Sybil(ctx context.Context, partnerCode string) (*SybilReport, error)
	Rescan(ctx context.Context) (*RescanReport, error)
}
