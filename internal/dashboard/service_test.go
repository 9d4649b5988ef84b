package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/richxcame/devcert-dashboard/internal/developers"
	redisClient "github.com/richxcame/devcert-dashboard/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) List(ctx context.Context, partnerCode string) ([]developers.DeveloperRecord, error) {
	args := m.Called(ctx, partnerCode)
	records, _ := args.Get(0).([]developers.DeveloperRecord)
	return records, args.Error(1)
}

var generatedAt = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func sampleRecords() []developers.DeveloperRecord {
	return []developers.DeveloperRecord{
		certified("ACME", at(2023, 1, 1, 0), 48*time.Hour),
		registered("BETA", at(2023, 2, 1, 0), 10),
	}
}

func newCachedService(t *testing.T, source RecordSource) (*Service, redismock.ClientMock) {
	t.Helper()
	db, cacheMock := redismock.NewClientMock()
	svc := NewService(source, redisClient.NewFromClient(db), time.Minute)
	svc.now = func() time.Time { return generatedAt }
	return svc, cacheMock
}

func TestGetOverview_WithoutCache(t *testing.T) {
	source := new(mockSource)
	source.On("List", mock.Anything, "ACME").Return(sampleRecords(), nil)
	svc := NewService(source, nil, 0)

	overview, err := svc.GetOverview(context.Background(), Filter{PartnerCode: "ACME"})

	require.NoError(t, err)
	assert.Equal(t, 2, overview.Metrics.TotalRegistered)
	assert.Len(t, overview.Chart, 2)
	assert.Equal(t, []LeaderboardEntry{{Code: "ACME", CertifiedCount: 1}}, overview.Leaderboard)
	assert.Equal(t, defaultCacheTTL, svc.ttl)
}

func TestGetOverview_LeaderboardIgnoresDates(t *testing.T) {
	source := new(mockSource)
	source.On("List", mock.Anything, "").Return(sampleRecords(), nil)
	svc := NewService(source, nil, 0)

	overview, err := svc.GetOverview(context.Background(), Filter{Start: ptr(at(2023, 2, 1, 0))})

	require.NoError(t, err)
	assert.Equal(t, 1, overview.Metrics.TotalRegistered)
	assert.Len(t, overview.Leaderboard, 1)
}

func TestGetOverview_CacheMissStores(t *testing.T) {
	source := new(mockSource)
	source.On("List", mock.Anything, "").Return(sampleRecords(), nil).Once()
	svc, cacheMock := newCachedService(t, source)

	expected := Build(sampleRecords(), nil, nil)
	expected.GeneratedAt = generatedAt
	payload, err := json.Marshal(expected)
	require.NoError(t, err)

	key := "dashboard:overview:0:All:-:-"
	cacheMock.ExpectGet(generationKey).RedisNil()
	cacheMock.ExpectGet(key).RedisNil()
	cacheMock.ExpectSet(key, payload, time.Minute).SetVal("OK")

	overview, err := svc.GetOverview(context.Background(), Filter{})

	require.NoError(t, err)
	assert.Equal(t, expected, overview)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
	source.AssertExpectations(t)
}

func TestGetOverview_CacheHitSkipsSource(t *testing.T) {
	source := new(mockSource)
	svc, cacheMock := newCachedService(t, source)

	cached := Build(sampleRecords(), nil, nil)
	cached.GeneratedAt = generatedAt
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	start := at(2023, 1, 1, 0)
	key := "dashboard:overview:7:ACME:2023-01-01T00:00:00Z:-"
	cacheMock.ExpectGet(generationKey).SetVal("7")
	cacheMock.ExpectGet(key).SetVal(string(payload))

	overview, err := svc.GetOverview(context.Background(), Filter{PartnerCode: "ACME", Start: &start})

	require.NoError(t, err)
	assert.Equal(t, cached.Metrics, overview.Metrics)
	assert.Equal(t, cached.Leaderboard, overview.Leaderboard)
	source.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestGetOverview_CacheErrorFallsBack(t *testing.T) {
	source := new(mockSource)
	source.On("List", mock.Anything, "").Return(sampleRecords(), nil)
	svc, cacheMock := newCachedService(t, source)

	cacheMock.ExpectGet(generationKey).SetErr(errors.New("NOAUTH Authentication required"))

	overview, err := svc.GetOverview(context.Background(), Filter{})

	require.NoError(t, err)
	assert.Equal(t, 2, overview.Metrics.TotalRegistered)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestGetOverview_SourceError(t *testing.T) {
	source := new(mockSource)
	source.On("List", mock.Anything, "").Return(nil, errors.New("firestore down"))
	svc := NewService(source, nil, 0)

	_, err := svc.GetOverview(context.Background(), Filter{})

	assert.Error(t, err)
}

func TestInvalidate(t *testing.T) {
	svc, cacheMock := newCachedService(t, new(mockSource))
	cacheMock.ExpectIncr(generationKey).SetVal(8)

	require.NoError(t, svc.Invalidate(context.Background()))
	assert.NoError(t, cacheMock.ExpectationsWereMet())

	assert.NoError(t, NewService(new(mockSource), nil, 0).Invalidate(context.Background()))
}
