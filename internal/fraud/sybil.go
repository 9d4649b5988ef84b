package fraud

import "github.com/richxcame/devcert-dashboard/internal/developers"

// FindDuplicateWallets counts normalized wallet addresses shared by two or
// more records. Empty wallets are ignored.
func FindDuplicateWallets(records []developers.DeveloperRecord) map[string]int {
	counts := make(map[string]int)
	for i := range records {
		if w := records[i].NormalizedWallet(); w != "" {
			counts[w]++
		}
	}

	duplicates := make(map[string]int)
	for w, n := range counts {
		if n >= 2 {
			duplicates[w] = n
		}
	}
	return duplicates
}
