package fraud

import (
	"context"
	"errors"
	"testing"

	"github.com/richxcame/devcert-dashboard/internal/developers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRecordStore struct {
	mock.Mock
}

func (m *mockRecordStore) List(ctx context.Context, partnerCode string) ([]developers.DeveloperRecord, error) {
	args := m.Called(ctx, partnerCode)
	records, _ := args.Get(0).([]developers.DeveloperRecord)
	return records, args.Error(1)
}

func (m *mockRecordStore) Save(ctx context.Context, rec *developers.DeveloperRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockRecordStore) InvalidateCache(ctx context.Context) {
	m.Called(ctx)
}

func TestService_Sybil(t *testing.T) {
	store := new(mockRecordStore)
	svc := NewService(NewEngine(DefaultRules()), store)

	store.On("List", mock.Anything, "ACME").Return([]developers.DeveloperRecord{
		{WalletAddress: "0.0.100"},
		{WalletAddress: "0.0.100"},
		{WalletAddress: "0.0.101"},
	}, nil)

	report, err := svc.Sybil(context.Background(), "ACME")

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"0.0.100": 2}, report.Duplicates)
	assert.Equal(t, 2, report.AffectedRecords)
	assert.Equal(t, 3, report.RecordsScanned)
}

func TestService_Sybil_StoreError(t *testing.T) {
	store := new(mockRecordStore)
	svc := NewService(NewEngine(DefaultRules()), store)

	store.On("List", mock.Anything, "").Return(nil, errors.New("unavailable"))

	_, err := svc.Sybil(context.Background(), "")

	assert.Error(t, err)
}

func TestService_Rescan_SavesOnlyChangedRecords(t *testing.T) {
	store := new(mockRecordStore)
	svc := NewService(NewEngine(DefaultRules()), store)

	// dev-1 already carries its current assessment, dev-2 has a stale one
	stored := []developers.DeveloperRecord{
		{ID: "dev-1", Email: "a+1@x.com", CreatedAt: base, IsSuspicious: true, RiskScore: 15, SuspicionReason: "Email alias", FraudSignals: []string{"email_alias"}},
		{ID: "dev-2", Email: "b@x.com", CreatedAt: base, IsSuspicious: true, RiskScore: 60, SuspicionReason: "Bot activity (<30min)", FraudSignals: []string{"bot_activity"}},
	}
	store.On("List", mock.Anything, "").Return(stored, nil)
	store.On("Save", mock.Anything, mock.MatchedBy(func(r *developers.DeveloperRecord) bool {
		return r.ID == "dev-2" && !r.IsSuspicious && r.RiskScore == 0
	})).Return(nil).Once()
	store.On("InvalidateCache", mock.Anything).Once()

	report, err := svc.Rescan(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &RescanReport{Scanned: 2, Changed: 1, Flagged: 1, Failed: 0}, report)
	store.AssertExpectations(t)
}

func TestService_Rescan_CountsFailures(t *testing.T) {
	store := new(mockRecordStore)
	svc := NewService(NewEngine(DefaultRules()), store)

	store.On("List", mock.Anything, "").Return([]developers.DeveloperRecord{
		{ID: "dev-1", Email: "a+1@x.com", CreatedAt: base},
	}, nil)
	store.On("Save", mock.Anything, mock.Anything).Return(errors.New("write failed"))

	report, err := svc.Rescan(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Changed)
	store.AssertNotCalled(t, "InvalidateCache", mock.Anything)
}

func TestService_Rescan_CancelledKeepsPartialReport(t *testing.T) {
	store := new(mockRecordStore)
	svc := NewService(NewEngine(DefaultRules()), store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store.On("List", mock.Anything, "").Return([]developers.DeveloperRecord{
		{ID: "dev-1", Email: "a+1@x.com", CreatedAt: base},
		{ID: "dev-2", Email: "b+1@x.com", CreatedAt: base},
	}, nil)
	store.On("Save", mock.Anything, mock.Anything).Return(nil).Run(func(mock.Arguments) { cancel() }).Once()
	store.On("InvalidateCache", mock.Anything).Once()

	report, err := svc.Rescan(ctx)

	require.Error(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Changed)
	store.AssertExpectations(t)
}

func TestService_Check(t *testing.T) {
	svc := NewService(NewEngine(DefaultRules()), nil)

	result := svc.Check(developers.DeveloperRecord{Email: "a@guerrillamail.com"})

	assert.Equal(t, 40, result.RiskScore)
}
