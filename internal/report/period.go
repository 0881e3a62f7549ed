// Package report holds the calendar and aggregation logic behind client
// reports. Nothing here touches the database.
package report

import (
	"time"

	"github.com/YusovID/agency-backoffice/internal/domain"
)

type PeriodSelector string

const (
	PeriodCurrent  PeriodSelector = "current"
	PeriodPrevious PeriodSelector = "previous"
)

// Window is a closed interval [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ResolvePeriod returns the reporting window for reportType and selector as
// seen at now. Current windows run from the start of the month or quarter up
// to now. Previous windows cover the whole prior month or quarter and end one
// nanosecond before the current window starts. Types other than QUARTERLY
// resolve as MONTHLY, and any selector other than previous as current.
func ResolvePeriod(reportType domain.ReportType, selector PeriodSelector, now time.Time) Window {
	loc := now.Location()
	year, month, _ := now.Date()

	var (
		start  time.Time
		length int
	)

	switch reportType {
	case domain.ReportTypeQuarterly:
		start = time.Date(year, quarterStart(month), 1, 0, 0, 0, 0, loc)
		length = 3
	default:
		start = time.Date(year, month, 1, 0, 0, 0, 0, loc)
		length = 1
	}

	if selector != PeriodPrevious {
		return Window{Start: start, End: now}
	}

	// time.Date normalises month 0 and below into the previous year.
	prevStart := time.Date(start.Year(), start.Month()-time.Month(length), 1, 0, 0, 0, 0, loc)

	return Window{Start: prevStart, End: start.Add(-time.Nanosecond)}
}

func quarterStart(m time.Month) time.Month {
	return (m-1)/3*3 + 1
}
