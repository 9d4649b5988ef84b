package fraud

import "github.com/richxcame/devcert-dashboard/internal/developers"

// Enrich returns copies of records carrying their fraud assessment, in input
// order. Assessments are derived from raw fields only, so enriching stored
// records again recomputes rather than accumulates.
func (e *Engine) Enrich(records []developers.DeveloperRecord) []developers.DeveloperRecord {
	duplicates := FindDuplicateWallets(records)

	out := make([]developers.DeveloperRecord, len(records))
	for i, rec := range records {
		result := e.Score(rec)
		if k := duplicates[rec.NormalizedWallet()]; k > 1 {
			result.Findings = append(result.Findings, Finding{
				Signal: SignalSybil,
				Score:  e.rules.SybilScore,
				Label:  sybilLabel(k),
			})
			result = e.finish(result)
		}
		out[i] = apply(rec, result)
	}
	return out
}
