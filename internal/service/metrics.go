package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agency_reports_generated_total",
			Help: "Reports stored, by report type and trigger",
		},
		[]string{"type", "trigger"},
	)

	reportSectionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agency_report_section_failures_total",
			Help: "Report sections stored as errors, by section",
		},
		[]string{"section"},
	)

	emailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agency_emails_sent_total",
			Help: "Emails handed to the mail provider, by kind and result",
		},
		[]string{"kind", "result"},
	)

	leadsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agency_leads_captured_total",
			Help: "Leads stored from public forms, by source",
		},
		[]string{"source"},
	)
)

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}
