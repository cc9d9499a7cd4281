package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"

	"github.com/congo-pay/arithguard/internal/ledger"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName         string        `env:"APP_NAME" envDefault:"ArithGuard"`
	AppEnv          string        `env:"APP_ENV" envDefault:"development"`
	Port            string        `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	RedisURL        string        `env:"REDIS_URL"`
	Backend         string        `env:"STORAGE_BACKEND" envDefault:"memory"`
	ShutdownPeriod  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	IdempotencyTTL  time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
	Variants        []string      `env:"LEDGER_VARIANTS" envSeparator:"," envDefault:"safe,unsafe"`
	MaxDeposit      uint64        `env:"MAX_DEPOSIT" envDefault:"1000000000000"`
	MaxRewardRate   uint64        `env:"MAX_REWARD_RATE" envDefault:"10000"`
	MaxTokenDeposit uint64        `env:"MAX_TOKEN_DEPOSIT" envDefault:"1000000000000000000"`
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom behaves like Load but reads from environ instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL must be set when STORAGE_BACKEND=postgres")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL must be set when STORAGE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Backend)
	}

	if !c.IsDev() && c.Backend == BackendMemory {
		return fmt.Errorf("memory storage is not allowed when APP_ENV=%s", c.AppEnv)
	}

	if _, err := c.LedgerVariants(); err != nil {
		return err
	}
	if err := c.Limits().Validate(); err != nil {
		return err
	}
	if c.ShutdownPeriod <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// LedgerVariants parses the configured variant list, dropping duplicates.
func (c Config) LedgerVariants() ([]ledger.Variant, error) {
	var out []ledger.Variant
	seen := map[ledger.Variant]bool{}
	for _, raw := range c.Variants {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		v, err := ledger.ParseVariant(raw)
		if err != nil {
			return nil, fmt.Errorf("LEDGER_VARIANTS: %w", err)
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, errors.New("LEDGER_VARIANTS must name at least one variant")
	}
	return out, nil
}

// Limits returns the ceilings enforced by the safe ledger.
func (c Config) Limits() ledger.Limits {
	return ledger.Limits{
		MaxDeposit:      c.MaxDeposit,
		MaxRewardRate:   c.MaxRewardRate,
		MaxTokenDeposit: c.MaxTokenDeposit,
	}
}

// IsDev reports whether the app runs in a local development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}
