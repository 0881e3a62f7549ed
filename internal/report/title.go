package report

import (
	"fmt"

	"github.com/YusovID/agency-backoffice/internal/domain"
)

const titleDateLayout = "Jan 2, 2006"

// TypeLabel is the human name of a report type used in titles and documents.
func TypeLabel(t domain.ReportType) string {
	switch t {
	case domain.ReportTypeMonthly:
		return "Monthly"
	case domain.ReportTypeQuarterly:
		return "Quarterly"
	default:
		return "Custom"
	}
}

func Title(t domain.ReportType, projectName string, w Window) string {
	return fmt.Sprintf("%s Report - %s (%s - %s)",
		TypeLabel(t),
		projectName,
		w.Start.Format(titleDateLayout),
		w.End.Format(titleDateLayout),
	)
}
