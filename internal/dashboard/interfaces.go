package dashboard

import (
	"context"

	"github.com/richxcame/devcert-dashboard/internal/developers"
)

// RecordSource lists stored records for a partner ("" or "All" for every partner)
type RecordSource interface {
	List(ctx context.Context, partnerCode string) ([]developers.DeveloperRecord, error)
}

// ServiceInterface is the dashboard service as seen by the HTTP handler
type ServiceInterface interface {
	GetOverview(ctx context.Context, filter Filter) (*Overview, error)
}
