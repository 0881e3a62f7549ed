package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env       string    `yaml:"env" env:"ENV" env-default:"local"`
	Log       Log       `yaml:"log"`
	Postgres  Postgres  `yaml:"postgres"`
	Server    Server    `yaml:"server"`
	Auth      Auth      `yaml:"auth"`
	Mail      Mail      `yaml:"mail"`
	Redis     Redis     `yaml:"redis"`
	Scheduler Scheduler `yaml:"scheduler"`
	RateLimit RateLimit `yaml:"rate_limit"`
	Agency    Agency    `yaml:"agency"`
}

type Log struct {
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env-default:"50"`
	MaxBackups int    `yaml:"max_backups" env-default:"5"`
	MaxAgeDays int    `yaml:"max_age_days" env-default:"30"`
}

type Postgres struct {
	Username        string        `yaml:"username" env:"POSTGRES_USER" env-required:"true"`
	Password        string        `yaml:"password" env:"POSTGRES_PASSWORD" env-required:"true"`
	Host            string        `yaml:"host" env:"POSTGRES_HOST" env-required:"true"`
	Port            string        `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	Database        string        `yaml:"database" env:"POSTGRES_DB" env-required:"true"`
	SSLMode         string        `yaml:"ssl_mode" env:"POSTGRES_SSLMODE" env-default:"disable"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"25"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"5m"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env-default:"1m"`
}

// DSN builds a postgres:// connection string. Credentials are escaped.
func (p Postgres) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.Username, p.Password),
		Host:     p.Host + ":" + p.Port,
		Path:     "/" + p.Database,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}

	return u.String()
}

type Server struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"localhost"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type Auth struct {
	JWTSecret         string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	TokenTTL          time.Duration `yaml:"token_ttl" env-default:"12h"`
	AdminEmail        string        `yaml:"admin_email" env:"AUTH_ADMIN_EMAIL" env-required:"true"`
	AdminPasswordHash string        `yaml:"admin_password_hash" env:"AUTH_ADMIN_PASSWORD_HASH" env-required:"true"`
}

const (
	MailProviderSendGrid = "sendgrid"
	MailProviderSMTP     = "smtp"
	MailProviderConsole  = "console"
)

type Mail struct {
	Provider       string `yaml:"provider" env:"MAIL_PROVIDER" env-default:"console"`
	SendGridAPIKey string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
	SMTPHost       string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort       int    `yaml:"smtp_port" env:"SMTP_PORT" env-default:"587"`
	SMTPUsername   string `yaml:"smtp_username" env:"SMTP_USERNAME"`
	SMTPPassword   string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
	FromEmail      string `yaml:"from_email" env:"MAIL_FROM_EMAIL" env-default:"hello@localhost"`
	FromName       string `yaml:"from_name" env:"MAIL_FROM_NAME" env-default:"Agency"`
	NotifyEmail    string `yaml:"notify_email" env:"MAIL_NOTIFY_EMAIL"`
}

type Redis struct {
	URL         string        `yaml:"url" env:"REDIS_URL"`
	PDFCacheTTL time.Duration `yaml:"pdf_cache_ttl" env-default:"24h"`
}

type Scheduler struct {
	Enabled bool   `yaml:"enabled" env:"SCHEDULER_ENABLED" env-default:"false"`
	Spec    string `yaml:"spec" env:"SCHEDULER_SPEC" env-default:"0 6 1 * *"`
}

type RateLimit struct {
	RequestsPerMinute int `yaml:"requests_per_minute" env-default:"10"`
	Burst             int `yaml:"burst" env-default:"5"`
}

type Agency struct {
	Name    string `yaml:"name" env:"AGENCY_NAME" env-default:"Agency"`
	SiteURL string `yaml:"site_url" env:"AGENCY_SITE_URL" env-default:"http://localhost:3000"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		return nil, errors.New("CONFIG_PATH is not set")
	}

	return LoadFile(configPath)
}

func LoadFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file does not exist: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad is Load for main packages: it panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}

	return cfg
}

func (c *Config) validate() error {
	switch c.Mail.Provider {
	case MailProviderConsole:
	case MailProviderSendGrid:
		if c.Mail.SendGridAPIKey == "" {
			return errors.New("mail.sendgrid_api_key is required for the sendgrid provider")
		}
	case MailProviderSMTP:
		if c.Mail.SMTPHost == "" {
			return errors.New("mail.smtp_host is required for the smtp provider")
		}
	default:
		return fmt.Errorf("unknown mail provider %q", c.Mail.Provider)
	}

	if c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("rate_limit values must be positive")
	}

	return nil
}
