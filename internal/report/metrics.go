package report

import (
	"github.com/YusovID/agency-backoffice/internal/domain"
)

const (
	NoMetricsMessage     = "No website metrics data available for this period"
	MetricsFailedMessage = "Failed to fetch website metrics"
)

// AggregateMetrics reduces the snapshots already filtered to a project URL and
// window. No rows is reported as a message rather than as zero traffic.
func AggregateMetrics(rows []domain.WebsiteMetric) *domain.Section[domain.MetricsSummary] {
	if len(rows) == 0 {
		return domain.SectionMessage[domain.MetricsSummary](NoMetricsMessage)
	}

	var (
		summary    domain.MetricsSummary
		bounceRate float64
	)

	summary.FirstSnapshotAt = rows[0].CreatedAt
	summary.LastSnapshotAt = rows[0].CreatedAt

	for _, m := range rows {
		summary.TotalPageViews += int64(m.PageViews)
		summary.TotalSessions += int64(m.Sessions)
		bounceRate += m.BounceRate

		if m.CreatedAt.Before(summary.FirstSnapshotAt) {
			summary.FirstSnapshotAt = m.CreatedAt
		}

		if m.CreatedAt.After(summary.LastSnapshotAt) {
			summary.LastSnapshotAt = m.CreatedAt
		}
	}

	summary.DataPoints = len(rows)
	summary.AvgBounceRate = round2(bounceRate / float64(len(rows)))

	if summary.TotalSessions > 0 {
		summary.PagesPerSession = round2(float64(summary.TotalPageViews) / float64(summary.TotalSessions))
	}

	return domain.SectionOK(summary)
}
