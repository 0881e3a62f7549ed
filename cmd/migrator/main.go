package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/YusovID/agency-backoffice/internal/config"
	"github.com/YusovID/agency-backoffice/pkg/logger/sl"
	"github.com/YusovID/agency-backoffice/pkg/logger/slogpretty"
)

// migratorConfig is the subset of the service config the migrator needs, so
// auth secrets and mail keys do not have to be present.
type migratorConfig struct {
	Env             string          `yaml:"env" env:"ENV" env-default:"local"`
	Postgres        config.Postgres `yaml:"postgres"`
	MigrationsPath  string          `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	MigrationsTable string          `yaml:"migrations_table" env:"MIGRATIONS_TABLE" env-default:"schema_migrations"`
}

func (c migratorConfig) databaseURL() string {
	return fmt.Sprintf("%s&x-migrations-table=%s", c.Postgres.DSN(), c.MigrationsTable)
}

type action string

const (
	actionUp      action = "up"
	actionDown    action = "down"
	actionSteps   action = "steps"
	actionVersion action = "version"
	actionForce   action = "force"
)

type command struct {
	action action
	n      int
}

// parseCommand reads "up" (the default), "down", "steps N", "version" and "force V".
func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{action: actionUp}, nil
	}

	a := action(strings.ToLower(args[0]))

	switch a {
	case actionUp, actionDown, actionVersion:
		if len(args) > 1 {
			return command{}, fmt.Errorf("%s takes no arguments", a)
		}

		return command{action: a}, nil
	case actionSteps, actionForce:
		if len(args) != 2 {
			return command{}, fmt.Errorf("%s needs exactly one number", a)
		}

		n, err := strconv.Atoi(args[1])
		if err != nil {
			return command{}, fmt.Errorf("%s: '%s' is not a number", a, args[1])
		}

		if a == actionSteps && n == 0 {
			return command{}, errors.New("steps must not be zero")
		}

		return command{action: a, n: n}, nil
	default:
		return command{}, fmt.Errorf("unknown command '%s'", args[0])
	}
}

func main() {
	// A missing .env is fine: the variables may come from the environment.
	_ = godotenv.Load()

	cmd, err := parseCommand(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nusage: migrator [up | down | steps N | version | force V]\n", err)
		os.Exit(2)
	}

	cfg, err := load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %s\n", err)
		os.Exit(1)
	}

	log := slogpretty.SetupLogger(cfg.Env, slogpretty.FileOptions{})

	if err := run(cfg, cmd, log); err != nil {
		log.Error("migration failed", slog.String("command", string(cmd.action)), sl.Err(err))
		os.Exit(1)
	}
}

func load() (*migratorConfig, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		return nil, errors.New("CONFIG_PATH is not set")
	}

	var cfg migratorConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	return &cfg, nil
}

func run(cfg *migratorConfig, cmd command, log *slog.Logger) error {
	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.databaseURL())
	if err != nil {
		return fmt.Errorf("can't create migrator: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn("failed to close migrator", sl.Err(errors.Join(srcErr, dbErr)))
		}
	}()

	m.Log = migrateLogger{log: log}

	switch cmd.action {
	case actionUp:
		err = m.Up()
	case actionDown:
		err = m.Down()
	case actionSteps:
		err = m.Steps(cmd.n)
	case actionForce:
		err = m.Force(cmd.n)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("no migrations to apply", slog.String("command", string(cmd.action)))
		err = nil
	}
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Info("schema is empty")
	case err != nil:
		return fmt.Errorf("can't read schema version: %w", err)
	default:
		log.Info("schema version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}

	return nil
}

// migrateLogger adapts slog to migrate.Logger.
type migrateLogger struct {
	log *slog.Logger
}

func (l migrateLogger) Printf(format string, v ...interface{}) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l migrateLogger) Verbose() bool {
	return false
}
