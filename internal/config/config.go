// Package config loads storefront settings from a TOML file, an optional .env
// file and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	BackendBolt     = "bolt"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

const (
	defaultConfigPath      = "~/.config/storefront/config.toml"
	defaultEnvFile         = ".env"
	defaultStateFile       = "~/.local/share/storefront/state.db"
	defaultBackend         = BackendBolt
	defaultLogLevel        = "info"
	defaultCurrency        = "USD"
	defaultBudget          = 10000
	defaultNamespace       = "default"
	defaultRedisAddr       = "127.0.0.1:6379"
	defaultRedisPrefix     = "storefront"
	defaultRetryAttempts   = 3
	defaultRetryInitial    = 50 * time.Millisecond
	defaultRetryMaxBackoff = time.Second
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Backend       string
	LogLevel      string
	Currency      currency.Unit
	DefaultBudget decimal.Decimal
	// Namespace scopes entries in the bolt and postgres backends.
	Namespace string
	Bolt      BoltConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Retry     RetryConfig
}

type BoltConfig struct {
	Path string
}

type PostgresConfig struct {
	DSN string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RetryConfig bounds persistence retries; Attempts includes the first try.
type RetryConfig struct {
	Attempts        int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

type rawConfig struct {
	Backend       string  `toml:"backend"`
	LogLevel      string  `toml:"log_level"`
	Currency      string  `toml:"currency"`
	DefaultBudget float64 `toml:"default_budget"`
	Namespace     string  `toml:"namespace"`
	Bolt          struct {
		Path string `toml:"path"`
	} `toml:"bolt"`
	Postgres struct {
		DSN string `toml:"dsn"`
	} `toml:"postgres"`
	Redis struct {
		Addr     string `toml:"addr"`
		Password string `toml:"password"`
		DB       int    `toml:"db"`
		Prefix   string `toml:"prefix"`
	} `toml:"redis"`
	Retry struct {
		Attempts        int    `toml:"attempts"`
		InitialInterval string `toml:"initial_interval"`
		MaxInterval     string `toml:"max_interval"`
	} `toml:"retry"`
}

// Load reads the config file at path (the default location when empty),
// falling back to defaults when it does not exist, then applies .env and
// environment overrides.
func Load(path string) (Config, error) {
	raw, err := readFile(path)
	if err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", defaultEnvFile, err)
	}

	applyEnv(&raw)

	return build(raw)
}

func readFile(path string) (rawConfig, error) {
	var raw rawConfig

	resolved, err := resolvePath(path)
	if err != nil {
		return raw, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return raw, nil
		}
		return raw, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return raw, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return raw, fmt.Errorf("parse config: %w", err)
	}

	return raw, nil
}

func applyEnv(raw *rawConfig) {
	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	setString(&raw.Backend, "STOREFRONT_BACKEND")
	setString(&raw.LogLevel, "LOG_LEVEL")
	setString(&raw.Currency, "STOREFRONT_CURRENCY")
	setString(&raw.Bolt.Path, "STOREFRONT_STATE_FILE")
	setString(&raw.Postgres.DSN, "DATABASE_URL")
	setString(&raw.Namespace, "STOREFRONT_NAMESPACE")
	setString(&raw.Redis.Addr, "REDIS_ADDR")
	setString(&raw.Redis.Password, "REDIS_PASSWORD")
	setString(&raw.Redis.Prefix, "REDIS_PREFIX")

	if v := strings.TrimSpace(os.Getenv("REDIS_DB")); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			raw.Redis.DB = db
		}
	}
	if v := strings.TrimSpace(os.Getenv("STOREFRONT_DEFAULT_BUDGET")); v != "" {
		if budget, err := strconv.ParseFloat(v, 64); err == nil {
			raw.DefaultBudget = budget
		}
	}
}

func build(raw rawConfig) (Config, error) {
	cfg := Config{
		Backend:   strings.ToLower(strings.TrimSpace(raw.Backend)),
		LogLevel:  strings.TrimSpace(raw.LogLevel),
		Namespace: strings.TrimSpace(raw.Namespace),
		Postgres: PostgresConfig{
			DSN: strings.TrimSpace(raw.Postgres.DSN),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(raw.Redis.Addr),
			Password: raw.Redis.Password,
			DB:       raw.Redis.DB,
			Prefix:   strings.TrimSpace(raw.Redis.Prefix),
		},
		Retry: RetryConfig{
			Attempts:        raw.Retry.Attempts,
			InitialInterval: defaultRetryInitial,
			MaxInterval:     defaultRetryMaxBackoff,
		},
	}

	if cfg.Backend == "" {
		cfg.Backend = defaultBackend
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.Namespace == "" {
		cfg.Namespace = defaultNamespace
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = defaultRedisAddr
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = defaultRedisPrefix
	}
	if cfg.Retry.Attempts <= 0 {
		cfg.Retry.Attempts = defaultRetryAttempts
	}

	statePath := strings.TrimSpace(raw.Bolt.Path)
	if statePath == "" {
		statePath = defaultStateFile
	}
	expanded, err := expandPath(statePath)
	if err != nil {
		return Config{}, fmt.Errorf("state file: %w", err)
	}
	cfg.Bolt.Path = expanded

	code := strings.TrimSpace(raw.Currency)
	if code == "" {
		code = defaultCurrency
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Config{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}
	cfg.Currency = unit

	cfg.DefaultBudget = decimal.NewFromInt(defaultBudget)
	if raw.DefaultBudget != 0 {
		cfg.DefaultBudget = decimal.NewFromFloat(raw.DefaultBudget)
	}
	if !cfg.DefaultBudget.IsPositive() {
		return Config{}, fmt.Errorf("default budget must be positive, got %s", cfg.DefaultBudget)
	}

	if v := strings.TrimSpace(raw.Retry.InitialInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("retry.initial_interval: %w", err)
		}
		cfg.Retry.InitialInterval = d
	}
	if v := strings.TrimSpace(raw.Retry.MaxInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("retry.max_interval: %w", err)
		}
		cfg.Retry.MaxInterval = d
	}

	switch cfg.Backend {
	case BackendBolt, BackendMemory, BackendRedis:
	case BackendPostgres:
		if cfg.Postgres.DSN == "" {
			return Config{}, fmt.Errorf("backend %q requires DATABASE_URL or postgres.dsn", cfg.Backend)
		}
	default:
		return Config{}, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
