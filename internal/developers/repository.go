package developers

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	fb "github.com/richxcame/devcert-dashboard/pkg/firebase"
	"github.com/richxcame/devcert-dashboard/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

const collectionName = "developers"

// Repository handles Firestore operations for developer records
type Repository struct {
	client *firestore.Client
}

// NewRepository creates a new developers repository
func NewRepository(client *firestore.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName)
}

// Create adds a new document and sets rec.ID
func (r *Repository) Create(ctx context.Context, rec *DeveloperRecord) (string, error) {
	ref, _, err := r.collection().Add(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("failed to create developer: %w", err)
	}
	rec.ID = ref.ID
	return ref.ID, nil
}

// GetByID retrieves a record by document id
func (r *Repository) GetByID(ctx context.Context, id string) (*DeveloperRecord, error) {
	snap, err := r.collection().Doc(id).Get(ctx)
	if err != nil {
		if fb.IsNotFound(err) {
			return nil, ErrDeveloperNotFound
		}
		return nil, fmt.Errorf("failed to get developer: %w", err)
	}
	return decode(snap)
}

// List returns every record, filtered by partner code unless it is empty or "All"
func (r *Repository) List(ctx context.Context, partnerCode string) ([]DeveloperRecord, error) {
	query := r.collection().Query
	if partnerCode != "" && partnerCode != AllPartners {
		query = query.Where("partnerCode", "==", partnerCode)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var records []DeveloperRecord
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list developers: %w", err)
		}
		rec, err := decode(snap)
		if err != nil {
			logger.WithContext(ctx).Warn("Skipping undecodable developer document", zap.Error(err))
			continue
		}
		records = append(records, *rec)
	}
	return records, nil
}

// Update overwrites the stored document
func (r *Repository) Update(ctx context.Context, rec *DeveloperRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("failed to update developer: missing id")
	}
	if _, err := r.collection().Doc(rec.ID).Set(ctx, rec); err != nil {
		return fmt.Errorf("failed to update developer: %w", err)
	}
	return nil
}

// Delete removes a document, returning ErrDeveloperNotFound when it does not exist
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.collection().Doc(id).Delete(ctx, firestore.Exists); err != nil {
		if fb.IsNotFound(err) {
			return ErrDeveloperNotFound
		}
		return fmt.Errorf("failed to delete developer: %w", err)
	}
	return nil
}

// FindByEmail returns the first record with the given email
func (r *Repository) FindByEmail(ctx context.Context, email string) (*DeveloperRecord, error) {
	iter := r.collection().Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, ErrDeveloperNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find developer by email: %w", err)
	}
	return decode(snap)
}

func decode(snap *firestore.DocumentSnapshot) (*DeveloperRecord, error) {
	rec, err := recordFromData(snap.Ref.ID, snap.Data())
	if err != nil {
		return nil, fmt.Errorf("failed to decode developer %s: %w", snap.Ref.ID, err)
	}
	return rec, nil
}
