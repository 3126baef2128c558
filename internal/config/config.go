package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Session   SessionConfig
	Workspace WorkspaceConfig
	AMQP      AMQPConfig
	Telemetry TelemetryConfig
	LogLevel  string
}

type ServerConfig struct {
	Host string
	Port int
	// CookieSecure marks the session cookie Secure.
	CookieSecure bool
}

type BackendConfig struct {
	BaseURL          string
	Timeout          time.Duration
	FloorPlanTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Name, p.SSLMode,
	)
}

type SessionConfig struct {
	TTL time.Duration
	// LoginRateLimit is the number of login attempts allowed per client IP per
	// minute.
	LoginRateLimit int
}

type WorkspaceStore string

const (
	StorePostgres WorkspaceStore = "postgres"
	StoreMemory   WorkspaceStore = "memory"
)

type WorkspaceConfig struct {
	Store WorkspaceStore
	// TTL is how long an untouched workspace is kept.
	TTL               time.Duration
	JanitorInterval   time.Duration
	FloorPlanCacheTTL time.Duration
}

type AMQPConfig struct {
	// URL is empty when events are disabled.
	URL string
}

type TelemetryConfig struct {
	Endpoint string
	Insecure bool
}

// New reads the configuration from the environment after loading envFile
// (when it exists) into it. Variables already set win over the file.
func New(envFile string) (*Config, error) {
	const op = "config.New"

	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)

	var (
		cfg Config
		err error
	)

	cfg.Server.Host = getenv("SERVER_HOST", "localhost")
	if cfg.Server.Port, err = getInt("SERVER_PORT", 8080); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.Server.CookieSecure, err = getBool("COOKIE_SECURE", false); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cfg.Backend.BaseURL = os.Getenv("BACKEND_BASE_URL")
	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("%s: missing BACKEND_BASE_URL", op)
	}
	if cfg.Backend.Timeout, err = getDuration("BACKEND_TIMEOUT", 15*time.Second); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.Backend.FloorPlanTimeout, err = getDuration("FLOORPLAN_TIMEOUT", 12*time.Second); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cfg.Workspace.Store = WorkspaceStore(getenv("WORKSPACE_STORE", string(StorePostgres)))
	switch cfg.Workspace.Store {
	case StorePostgres:
		if cfg.Postgres, err = postgresFromEnv(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("%s: invalid WORKSPACE_STORE %q", op, cfg.Workspace.Store)
	}
	if cfg.Workspace.TTL, err = getDuration("WORKSPACE_TTL", 2*time.Hour); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.Workspace.JanitorInterval, err = getDuration("WORKSPACE_JANITOR_INTERVAL", 5*time.Minute); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.Workspace.FloorPlanCacheTTL, err = getDuration("FLOORPLAN_CACHE_TTL", 30*time.Second); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cfg.Redis.Addr = getenv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.Session.TTL, err = getDuration("SESSION_TTL", 7*24*time.Hour); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.Session.LoginRateLimit, err = getInt("LOGIN_RATE_LIMIT", 10); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cfg.AMQP.URL = os.Getenv("AMQP_URL")

	cfg.Telemetry.Endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if cfg.Telemetry.Insecure, err = getBool("OTEL_EXPORTER_OTLP_INSECURE", false); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cfg.LogLevel = strings.ToLower(getenv("LOG_LEVEL", "info"))

	return &cfg, nil
}

func postgresFromEnv() (PostgresConfig, error) {
	p := PostgresConfig{
		Host:     getenv("POSTGRES_HOST", "localhost"),
		User:     os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		Name:     os.Getenv("POSTGRES_DB"),
		SSLMode:  getenv("POSTGRES_SSLMODE", "disable"),
	}

	var err error
	if p.Port, err = getInt("POSTGRES_PORT", 5432); err != nil {
		return p, err
	}

	switch {
	case p.User == "":
		return p, fmt.Errorf("missing POSTGRES_USER")
	case p.Password == "":
		return p, fmt.Errorf("missing POSTGRES_PASSWORD")
	case p.Name == "":
		return p, fmt.Errorf("missing POSTGRES_DB")
	}
	return p, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// getDuration accepts Go durations ("12s") or a bare number of seconds.
func getDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
