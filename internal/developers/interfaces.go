package developers

import (
	"context"
	"errors"
)

// ErrDeveloperNotFound is returned when no record matches
var ErrDeveloperNotFound = errors.New("developer not found")

// AllPartners is the partner filter value meaning "no filter"
const AllPartners = "All"

// RepositoryInterface defines the persistence contract for developer records
type RepositoryInterface interface {
	// Create stores a new record and returns its identifier
	Create(ctx context.Context, rec *DeveloperRecord) (string, error)

	// GetByID returns ErrDeveloperNotFound when the document does not exist
	GetByID(ctx context.Context, id string) (*DeveloperRecord, error)

	// List returns all records, optionally filtered by partner code
	List(ctx context.Context, partnerCode string) ([]DeveloperRecord, error)

	// Update replaces the stored document with rec
	Update(ctx context.Context, rec *DeveloperRecord) error

	// Delete removes a record
	Delete(ctx context.Context, id string) error

	// FindByEmail returns ErrDeveloperNotFound when no record has the email
	FindByEmail(ctx context.Context, email string) (*DeveloperRecord, error)
}

// Assessor attaches the per-record fraud assessment to a record
type Assessor interface {
	Assess(rec DeveloperRecord) DeveloperRecord
}

// CacheInvalidator is notified after writes so cached aggregates are dropped
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}
