package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/service"
)

var (
	budgetRanges     = []string{"under-5k", "5k-10k", "10k-25k", "25k-50k", "50k+"}
	serviceInterests = []string{"web-design", "seo", "branding", "e-commerce", "maintenance"}
	leadSources      = []string{"website", "quote", "referral", "social"}
	revenueSources   = []string{"invoice", "retainer", "hosting", "consulting"}

	activeProjectStatuses = []domain.ProjectStatus{
		domain.ProjectStatusPlanning,
		domain.ProjectStatusInProgress,
		domain.ProjectStatusInProgress,
		domain.ProjectStatusOnHold,
	}
	taskStatuses = []domain.TaskStatus{
		domain.TaskStatusTodo,
		domain.TaskStatusInProgress,
		domain.TaskStatusReview,
		domain.TaskStatusCompleted,
		domain.TaskStatusPending,
	}
	taskPriorities = []domain.TaskPriority{
		domain.TaskPriorityLow,
		domain.TaskPriorityMedium,
		domain.TaskPriorityHigh,
		domain.TaskPriorityUrgent,
	}
)

// contactsPerProject controls how many leads turn into a project.
const (
	contactsPerProject = 3
	metricWeeks        = 8
	revenueWindowDays  = 90
)

type generator struct {
	faker *gofakeit.Faker
	now   time.Time
}

func newGenerator(seed int64, now time.Time) *generator {
	return &generator{faker: gofakeit.New(seed), now: now}
}

func pick[T any](f *gofakeit.Faker, items []T) T {
	return items[f.IntRange(0, len(items)-1)]
}

func (g *generator) contact() domain.ContactInput {
	f := g.faker

	return domain.ContactInput{
		Name:            f.Name(),
		Email:           f.Email(),
		Company:         f.Company(),
		ServiceInterest: pick(f, serviceInterests),
		BudgetRange:     pick(f, budgetRanges),
		Message:         f.Sentence(f.IntRange(5, 40)),
		Source:          pick(f, leadSources),
	}
}

func (g *generator) project(contactID string) domain.ProjectInput {
	f := g.faker

	budget := decimal.NewFromInt(int64(f.IntRange(50, 500)) * 100)
	start := g.now.AddDate(0, -f.IntRange(1, 6), 0)

	return domain.ProjectInput{
		Name:        f.AppName() + " Website",
		Description: f.Sentence(12),
		Status:      pick(f, activeProjectStatuses),
		Progress:    f.IntRange(0, 100),
		Budget:      &budget,
		URL:         "https://" + f.DomainName(),
		StartDate:   &start,
		ContactID:   &contactID,
		ManagerName: f.Name(),
	}
}

func (g *generator) task() domain.TaskInput {
	f := g.faker

	due := g.now.AddDate(0, 0, f.IntRange(-14, 45))

	return domain.TaskInput{
		Title:        f.HackerVerb() + " " + f.HackerNoun(),
		Description:  f.Sentence(10),
		Status:       pick(f, taskStatuses),
		Priority:     pick(f, taskPriorities),
		AssigneeName: f.FirstName(),
		DueDate:      &due,
	}
}

func (g *generator) revenue(projectID string) domain.RevenueInput {
	f := g.faker

	amount := decimal.NewFromInt(int64(f.IntRange(500, 15000)))
	costs := amount.Mul(decimal.NewFromInt(int64(f.IntRange(10, 60)))).Div(decimal.NewFromInt(100)).Round(2)

	return domain.RevenueInput{
		Amount:      amount,
		Costs:       costs,
		Date:        g.now.AddDate(0, 0, -f.IntRange(0, revenueWindowDays)),
		Source:      pick(f, revenueSources),
		Description: f.Sentence(6),
		ProjectID:   &projectID,
	}
}

// metrics returns weekly snapshots for url, oldest first, with slowly
// growing traffic.
func (g *generator) metrics(url string) []domain.MetricInput {
	f := g.faker

	views := f.IntRange(500, 5000)
	out := make([]domain.MetricInput, 0, metricWeeks)

	for week := metricWeeks; week > 0; week-- {
		recordedAt := g.now.AddDate(0, 0, -7*week)
		views += f.IntRange(-100, 400)
		if views < 0 {
			views = 0
		}

		out = append(out, domain.MetricInput{
			URL:        url,
			PageViews:  views,
			Sessions:   views * f.IntRange(40, 80) / 100,
			BounceRate: float64(f.IntRange(2000, 7000)) / 100,
			RecordedAt: &recordedAt,
		})
	}

	return out
}

type seeder struct {
	log      *slog.Logger
	gen      *generator
	contacts service.ContactService
	projects service.ProjectService
	tasks    service.TaskService
	revenue  service.RevenueService
	metrics  service.MetricService
}

type seedStats struct {
	Contacts int
	Projects int
	Tasks    int
	Revenue  int
	Metrics  int
}

func (s *seeder) run(ctx context.Context, contacts int) (seedStats, error) {
	const op = "cmd.seeder.run"

	var stats seedStats

	for i := 0; i < contacts; i++ {
		c, err := s.contacts.Create(ctx, s.gen.contact())
		if err != nil {
			return stats, fmt.Errorf("%s: failed to create contact: %w", op, err)
		}
		stats.Contacts++

		if i%contactsPerProject != 0 {
			continue
		}

		if err := s.seedProject(ctx, c.ID, &stats); err != nil {
			return stats, fmt.Errorf("%s: %w", op, err)
		}
	}

	return stats, nil
}

func (s *seeder) seedProject(ctx context.Context, contactID string, stats *seedStats) error {
	p, err := s.projects.Create(ctx, s.gen.project(contactID))
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	stats.Projects++

	for n := s.gen.faker.IntRange(3, 8); n > 0; n-- {
		if _, err := s.tasks.Create(ctx, p.ID, s.gen.task()); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		stats.Tasks++
	}

	for n := s.gen.faker.IntRange(1, 3); n > 0; n-- {
		if _, err := s.revenue.Create(ctx, s.gen.revenue(p.ID)); err != nil {
			return fmt.Errorf("failed to create revenue entry: %w", err)
		}
		stats.Revenue++
	}

	for _, m := range s.gen.metrics(p.URL) {
		if _, err := s.metrics.Record(ctx, m); err != nil {
			return fmt.Errorf("failed to record metric: %w", err)
		}
		stats.Metrics++
	}

	s.log.Debug("seeded project", slog.String("project_id", p.ID), slog.String("name", p.Name))

	return nil
}
