package dashboard

import (
	"sort"

	"github.com/richxcame/devcert-dashboard/internal/developers"
)

// LeaderboardSize is the number of partners returned by TopPartners
const LeaderboardSize = 10

// LeaderboardEntry is a partner code and its certified record count
type LeaderboardEntry struct {
	Code           string `json:"code"`
	CertifiedCount int    `json:"certified_count"`
}

// TopPartners ranks partner codes by certified records, highest first.
// Ties keep the order in which the codes first appear.
func TopPartners(records []developers.DeveloperRecord) []LeaderboardEntry {
	index := make(map[string]int)
	entries := []LeaderboardEntry{}

	for i := range records {
		if !records[i].IsCertified() {
			continue
		}
		code := records[i].PartnerCode
		pos, ok := index[code]
		if !ok {
			pos = len(entries)
			index[code] = pos
			entries = append(entries, LeaderboardEntry{Code: code})
		}
		entries[pos].CertifiedCount++
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CertifiedCount > entries[j].CertifiedCount
	})

	if len(entries) > LeaderboardSize {
		entries = entries[:LeaderboardSize]
	}
	return entries
}
