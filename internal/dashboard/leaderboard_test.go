package dashboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/richxcame/devcert-dashboard/internal/developers"
	"github.com/stretchr/testify/assert"
)

func TestTopPartners_RanksCertified(t *testing.T) {
	start := at(2023, 1, 1, 0)
	records := []developers.DeveloperRecord{
		certified("BETA", start, time.Hour),
		certified("ACME", start, time.Hour),
		certified("ACME", start, time.Hour),
		registered("GAMMA", start, 100),
		registered("GAMMA", start, 100),
		certified("DELTA", start, time.Hour),
	}

	entries := TopPartners(records)

	assert.Equal(t, []LeaderboardEntry{
		{Code: "ACME", CertifiedCount: 2},
		{Code: "BETA", CertifiedCount: 1},
		{Code: "DELTA", CertifiedCount: 1},
	}, entries)
}

func TestTopPartners_LimitsToTen(t *testing.T) {
	var records []developers.DeveloperRecord
	for i := 0; i < 15; i++ {
		for j := 0; j <= i; j++ {
			records = append(records, certified(fmt.Sprintf("P%02d", i), at(2023, 1, 1, 0), time.Hour))
		}
	}

	entries := TopPartners(records)

	assert.Len(t, entries, LeaderboardSize)
	assert.Equal(t, LeaderboardEntry{Code: "P14", CertifiedCount: 15}, entries[0])
	assert.Equal(t, LeaderboardEntry{Code: "P05", CertifiedCount: 6}, entries[9])
}

func TestTopPartners_NoneCertified(t *testing.T) {
	entries := TopPartners([]developers.DeveloperRecord{registered("A", at(2023, 1, 1, 0), 10)})

	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
