package dashboard

import (
	"time"

	"github.com/richxcame/devcert-dashboard/internal/developers"
)

// Metrics is the aggregate view over a filtered batch of records
type Metrics struct {
	TotalRegistered          int     `json:"total_registered"`
	TotalCertified           int     `json:"total_certified"`
	UsersStartedCourse       int     `json:"users_started_course"`
	UsersStartedCoursePct    float64 `json:"users_started_course_pct"`
	AvgCompletionTimeDays    float64 `json:"avg_completion_time_days"`
	ActiveCommunities        int     `json:"active_communities"`
	CertificationRate        float64 `json:"certification_rate"`
	PotentialFakeAccounts    int     `json:"potential_fake_accounts"`
	PotentialFakeAccountsPct float64 `json:"potential_fake_accounts_pct"`
	RapidCompletions         int     `json:"rapid_completions"`
	// OverallSubscriberRate is always null: records carry no subscription status
	OverallSubscriberRate *float64 `json:"overall_subscriber_rate"`
}

// FilterByCreatedAt keeps records created within [start, end]. A nil bound is open.
func FilterByCreatedAt(records []developers.DeveloperRecord, start, end *time.Time) []developers.DeveloperRecord {
	if start == nil && end == nil {
		return records
	}

	filtered := make([]developers.DeveloperRecord, 0, len(records))
	for i := range records {
		created := records[i].CreatedAt
		if start != nil && created.Before(*start) {
			continue
		}
		if end != nil && created.After(*end) {
			continue
		}
		filtered = append(filtered, records[i])
	}
	return filtered
}

// ComputeMetrics aggregates the records created within [start, end]
func ComputeMetrics(records []developers.DeveloperRecord, start, end *time.Time) Metrics {
	filtered := FilterByCreatedAt(records, start, end)

	var m Metrics
	m.TotalRegistered = len(filtered)

	communities := make(map[string]struct{})
	var totalDays float64
	var timed int

	for i := range filtered {
		rec := &filtered[i]
		communities[rec.PartnerCode] = struct{}{}

		if rec.PercentageCompleted > 0 {
			m.UsersStartedCourse++
		}

		rapid := rec.IsRapidCertification()
		if rapid {
			m.RapidCompletions++
		}
		// each record counts once even when it is both flagged and rapid
		if rapid || rec.HasFlaggedCAStatus() {
			m.PotentialFakeAccounts++
		}

		if !rec.IsCertified() {
			continue
		}
		m.TotalCertified++
		if hours, ok := rec.CompletionHours(); ok {
			totalDays += hours / 24
			timed++
		}
	}

	if timed > 0 {
		m.AvgCompletionTimeDays = totalDays / float64(timed)
	}
	m.ActiveCommunities = len(communities)
	m.UsersStartedCoursePct = percentage(m.UsersStartedCourse, m.TotalRegistered)
	m.CertificationRate = percentage(m.TotalCertified, m.TotalRegistered)
	m.PotentialFakeAccountsPct = percentage(m.PotentialFakeAccounts, m.TotalRegistered)

	return m
}

func percentage(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
