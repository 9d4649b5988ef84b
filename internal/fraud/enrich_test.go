package fraud

import (
	"testing"
	"time"

	"github.com/richxcame/devcert-dashboard/internal/developers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDuplicateWallets(t *testing.T) {
	records := []developers.DeveloperRecord{
		{WalletAddress: "0.0.100"},
		{WalletAddress: " 0.0.100 "},
		{WalletAddress: "0.0.200"},
		{WalletAddress: ""},
		{WalletAddress: "   "},
	}

	assert.Equal(t, map[string]int{"0.0.100": 2}, FindDuplicateWallets(records))
}

func TestFindDuplicateWallets_CaseInsensitive(t *testing.T) {
	records := []developers.DeveloperRecord{
		{WalletAddress: "0xABC"},
		{WalletAddress: "0xabc"},
		{WalletAddress: "0xAbC"},
	}

	assert.Equal(t, map[string]int{"0xabc": 3}, FindDuplicateWallets(records))
}

func TestEnrich_SybilPair(t *testing.T) {
	engine := NewEngine(DefaultRules())
	records := []developers.DeveloperRecord{
		{Email: "a@x.com", WalletAddress: "0.0.100", CreatedAt: base},
		{Email: "b@x.com", WalletAddress: "0.0.100", CreatedAt: base},
		{Email: "c@x.com", WalletAddress: "0.0.300", CreatedAt: base},
	}

	out := engine.Enrich(records)

	require.Len(t, out, 3)
	for _, rec := range out[:2] {
		assert.True(t, rec.IsSuspicious)
		assert.Equal(t, 35, rec.RiskScore)
		assert.Equal(t, "Sybil (2 accounts)", rec.SuspicionReason)
		assert.Equal(t, []string{"sybil"}, rec.FraudSignals)
	}
	assert.False(t, out[2].IsSuspicious)
	assert.Equal(t, 0, out[2].RiskScore)
	assert.Equal(t, "c@x.com", out[2].Email)
}

func TestEnrich_AppendsSybilToExistingReason(t *testing.T) {
	engine := NewEngine(DefaultRules())
	completed := base.Add(10 * time.Minute)
	records := []developers.DeveloperRecord{
		{Email: "a+1@x.com", WalletAddress: "W1", CreatedAt: base, CompletedAt: &completed},
		{Email: "b@x.com", WalletAddress: "w1", CreatedAt: base},
	}

	out := engine.Enrich(records)

	assert.Equal(t, "Email alias; Bot activity (<30min); Sybil (2 accounts)", out[0].SuspicionReason)
	assert.Equal(t, 100, out[0].RiskScore)
	assert.Equal(t, "Sybil (2 accounts)", out[1].SuspicionReason)
}

func TestEnrich_DoesNotMutateInput(t *testing.T) {
	engine := NewEngine(DefaultRules())
	records := []developers.DeveloperRecord{
		{Email: "a+1@x.com", CreatedAt: base},
	}

	out := engine.Enrich(records)

	assert.True(t, out[0].IsSuspicious)
	assert.False(t, records[0].IsSuspicious)
	assert.Empty(t, records[0].SuspicionReason)
}

func TestEnrich_RecomputesOnStoredOutput(t *testing.T) {
	engine := NewEngine(DefaultRules())
	records := []developers.DeveloperRecord{
		{Email: "a@x.com", WalletAddress: "0.0.100", CreatedAt: base},
		{Email: "b@x.com", WalletAddress: "0.0.100", CreatedAt: base},
	}

	once := engine.Enrich(records)
	twice := engine.Enrich(once)

	for i := range once {
		assert.True(t, once[i].SameAssessment(&twice[i]))
	}
}

func TestEnrich_Empty(t *testing.T) {
	engine := NewEngine(DefaultRules())

	assert.Empty(t, engine.Enrich(nil))
}
