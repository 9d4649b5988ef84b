package csvimport

import (
	"context"

	"github.com/richxcame/devcert-dashboard/internal/developers"
)

// Enricher attaches fraud assessments to a parsed batch
type Enricher interface {
	Enrich(records []developers.DeveloperRecord) []developers.DeveloperRecord
}

// Upserter persists a batch keyed by email
type Upserter interface {
	BulkUpsert(ctx context.Context, records []developers.DeveloperRecord) []developers.UpsertOutcome
}

// ServiceInterface is the import service as seen by the HTTP handler
type ServiceInterface interface {
	Import(ctx context.Context, req ImportRequest) (*Report, error)
	ArchiveURL(ctx context.Context, key string) (string, error)
}
