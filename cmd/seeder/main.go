package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/YusovID/agency-backoffice/internal/config"
	"github.com/YusovID/agency-backoffice/internal/mailer"
	"github.com/YusovID/agency-backoffice/internal/render"
	"github.com/YusovID/agency-backoffice/internal/repository/postgres"
	"github.com/YusovID/agency-backoffice/internal/service"
	"github.com/YusovID/agency-backoffice/pkg/logger/slogpretty"
)

const (
	defaultContacts = 30
	defaultSeed     = 42
)

// Usage: seeder [contacts] [seed]
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	_ = godotenv.Load()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	contacts, seed, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg := config.MustLoad()
	log := slogpretty.SetupLogger(cfg.Env, slogpretty.FileOptions{})

	db, err := postgres.NewDB(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to init db: %v", err)
	}
	defer db.DB().Close()

	contactRepo := postgres.NewContactRepository(db.DB(), log)
	projectRepo := postgres.NewProjectRepository(db.DB(), log)

	// Seeded contacts are created through the admin path, which never
	// sends mail, so the console mailer is enough.
	renderer := render.New(render.Agency{Name: cfg.Agency.Name, SiteURL: cfg.Agency.SiteURL}, time.Now)
	mail := mailer.NewConsole(mailer.Address{Name: cfg.Mail.FromName, Email: cfg.Mail.FromEmail}, log)

	s := &seeder{
		log:      log,
		gen:      newGenerator(seed, time.Now()),
		contacts: service.NewContactService(db.DB(), log, contactRepo, renderer, mail, ""),
		projects: service.NewProjectService(log, projectRepo),
		tasks:    service.NewTaskService(db.DB(), log, postgres.NewTaskRepository(db.DB(), log), projectRepo),
		revenue:  service.NewRevenueService(log, postgres.NewRevenueRepository(db.DB(), log)),
		metrics:  service.NewMetricService(log, time.Now, postgres.NewMetricRepository(db.DB(), log)),
	}

	stats, err := s.run(ctx, contacts)
	if err != nil {
		return err
	}

	log.Info("database seeded",
		slog.Int("contacts", stats.Contacts),
		slog.Int("projects", stats.Projects),
		slog.Int("tasks", stats.Tasks),
		slog.Int("revenue_entries", stats.Revenue),
		slog.Int("metrics", stats.Metrics),
	)

	return nil
}

func parseArgs(args []string) (contacts int, seed int64, err error) {
	contacts, seed = defaultContacts, defaultSeed

	if len(args) > 0 {
		if contacts, err = strconv.Atoi(args[0]); err != nil || contacts < 1 {
			return 0, 0, fmt.Errorf("contacts must be a positive number, got %q", args[0])
		}
	}

	if len(args) > 1 {
		if seed, err = strconv.ParseInt(args[1], 10, 64); err != nil {
			return 0, 0, fmt.Errorf("seed must be a number, got %q", args[1])
		}
	}

	return contacts, seed, nil
}
