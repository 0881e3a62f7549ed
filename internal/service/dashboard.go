package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/report"
	"github.com/YusovID/agency-backoffice/internal/repository"
)

type DashboardService interface {
	Summary(ctx context.Context) (*domain.DashboardSummary, error)
}

type DashboardServiceImpl struct {
	log      *slog.Logger
	now      Clock
	contacts repository.ContactRepository
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	revenue  repository.RevenueRepository
}

func NewDashboardService(
	log *slog.Logger,
	now Clock,
	contacts repository.ContactRepository,
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	revenue repository.RevenueRepository,
) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		log:      log,
		now:      now,
		contacts: contacts,
		projects: projects,
		tasks:    tasks,
		revenue:  revenue,
	}
}

// Summary reports lead counts, active work and the current month's money.
func (s *DashboardServiceImpl) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	const op = "internal.service.dashboard.Summary"

	month := report.ResolvePeriod(domain.ReportTypeMonthly, report.PeriodCurrent, s.now())

	byStatus, err := s.contacts.CountContactsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count contacts: %w", op, err)
	}

	leads := domain.LeadStats{ByStatus: make(map[string]int, len(byStatus))}
	for _, row := range byStatus {
		leads.ByStatus[row.Status] = row.Count
		leads.Total += row.Count
	}

	if leads.NewThisMonth, err = s.contacts.CountContactsSince(ctx, month.Start); err != nil {
		return nil, fmt.Errorf("%s: failed to count new contacts: %w", op, err)
	}

	active, err := s.projects.CountProjectsByStatus(ctx, domain.ProjectStatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count projects: %w", op, err)
	}

	open, err := s.tasks.CountOpenTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count tasks: %w", op, err)
	}

	totals, err := s.revenue.SumRevenue(ctx, month.Start, month.End)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to sum revenue: %w", op, err)
	}

	return &domain.DashboardSummary{
		Leads:          leads,
		ActiveProjects: active,
		OpenTasks:      open,
		Revenue: domain.MonthRevenue{
			StartDate: month.Start,
			EndDate:   month.End,
			Revenue:   totals.Revenue,
			Costs:     totals.Costs,
			NetProfit: totals.Revenue.Sub(totals.Costs),
		},
	}, nil
}
