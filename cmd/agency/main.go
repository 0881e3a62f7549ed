package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/YusovID/agency-backoffice/internal/auth"
	"github.com/YusovID/agency-backoffice/internal/cache"
	"github.com/YusovID/agency-backoffice/internal/config"
	"github.com/YusovID/agency-backoffice/internal/mailer"
	"github.com/YusovID/agency-backoffice/internal/render"
	"github.com/YusovID/agency-backoffice/internal/repository/postgres"
	"github.com/YusovID/agency-backoffice/internal/scheduler"
	"github.com/YusovID/agency-backoffice/internal/service"
	myhttp "github.com/YusovID/agency-backoffice/internal/transport/http"
	"github.com/YusovID/agency-backoffice/pkg/logger/sl"
	"github.com/YusovID/agency-backoffice/pkg/logger/slogpretty"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// A missing .env is fine: the variables may come from the environment.
	_ = godotenv.Load()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.MustLoad()
	log := slogpretty.SetupLogger(cfg.Env, slogpretty.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})

	log.Info("starting agency-backoffice", slog.String("env", cfg.Env))

	db, err := postgres.NewDB(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to init db: %v", err)
	}
	defer func() {
		if err := db.DB().Close(); err != nil {
			log.Error("db close failed", sl.Err(err))
		}
	}()

	var pdfCache cache.PDFCache = cache.Nop{}
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.Redis.URL, cfg.Redis.PDFCacheTTL, log)
		if err != nil {
			// Reports still render without the cache, only slower.
			log.Warn("pdf cache disabled", sl.Err(err))
		} else {
			pdfCache = redisCache
			defer func() {
				if err := redisCache.Close(); err != nil {
					log.Error("redis close failed", sl.Err(err))
				}
			}()
		}
	}

	mail, err := mailer.New(cfg.Mail, log)
	if err != nil {
		return fmt.Errorf("failed to init mailer: %v", err)
	}

	renderer := render.New(render.Agency{Name: cfg.Agency.Name, SiteURL: cfg.Agency.SiteURL}, time.Now)

	contactRepo := postgres.NewContactRepository(db.DB(), log)
	projectRepo := postgres.NewProjectRepository(db.DB(), log)
	taskRepo := postgres.NewTaskRepository(db.DB(), log)
	revenueRepo := postgres.NewRevenueRepository(db.DB(), log)
	metricRepo := postgres.NewMetricRepository(db.DB(), log)
	reportRepo := postgres.NewReportRepository(db.DB(), log)

	reports := service.NewReportService(log, time.Now, projectRepo, metricRepo, revenueRepo, reportRepo, renderer, pdfCache, mail)

	services := myhttp.Services{
		Reports:   reports,
		Contacts:  service.NewContactService(db.DB(), log, contactRepo, renderer, mail, cfg.Mail.NotifyEmail),
		Projects:  service.NewProjectService(log, projectRepo),
		Tasks:     service.NewTaskService(db.DB(), log, taskRepo, projectRepo),
		Revenue:   service.NewRevenueService(log, revenueRepo),
		Metrics:   service.NewMetricService(log, time.Now, metricRepo),
		Dashboard: service.NewDashboardService(log, time.Now, contactRepo, projectRepo, taskRepo, revenueRepo),
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(reports, log)
		if err := sched.Register(cfg.Scheduler.Spec); err != nil {
			return err
		}

		sched.Start()
	}

	srv := myhttp.NewServer(log, services, auth.NewManager(cfg.Auth, time.Now), db, cfg.RateLimit)
	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      srv.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)

	go startServer(log, httpServer, errChan)

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("http server error: %v", err)
		}

	case <-ctx.Done():
		log.Info("stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shuting down http server: %v", err)
	}

	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Warn("scheduler did not stop in time", sl.Err(err))
		}
	}

	return nil
}

func startServer(log *slog.Logger, httpServer *http.Server, errChan chan error) {
	defer close(errChan)

	log.Info("service started", slog.String("addr", httpServer.Addr))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errChan <- fmt.Errorf("error listening and serving: %v", err)
	}
}
