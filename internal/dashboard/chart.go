package dashboard

import (
	"sort"
	"time"

	"github.com/richxcame/devcert-dashboard/internal/developers"
)

const chartLabelLayout = "Jan 2006"

// ChartPoint is one calendar month of activity
type ChartPoint struct {
	Label          string `json:"label"`
	Registrations  int    `json:"registrations"`
	Certifications int    `json:"certifications"`
}

// BucketByMonth counts registrations by creation month and certifications by
// completion month over the records created within [start, end]. Months are
// UTC and the result is in chronological order.
func BucketByMonth(records []developers.DeveloperRecord, start, end *time.Time) []ChartPoint {
	buckets := make(map[time.Time]*ChartPoint)
	bucket := func(t time.Time) *ChartPoint {
		month := monthOf(t)
		p, ok := buckets[month]
		if !ok {
			p = &ChartPoint{Label: month.Format(chartLabelLayout)}
			buckets[month] = p
		}
		return p
	}

	for _, rec := range FilterByCreatedAt(records, start, end) {
		bucket(rec.CreatedAt).Registrations++
		if rec.IsCertified() && rec.CompletedAt != nil {
			bucket(*rec.CompletedAt).Certifications++
		}
	}

	months := make([]time.Time, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	points := make([]ChartPoint, 0, len(months))
	for _, m := range months {
		points = append(points, *buckets[m])
	}
	return points
}

func monthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
