package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/resilience"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/scanner"
)

// Config is the resolved fraud-check configuration: compiled defaults, then the
// YAML file, then environment overrides.
type Config struct {
	HTTPAddr string
	GRPCAddr string
	NATSURL  string
	SeedFile string

	LookupDelay    time.Duration
	StartingPoints int
	SessionShards  uint8

	Retry   resilience.RetryPolicy
	Breaker BreakerConfig
	Limit   RateLimitConfig

	SessionIdleTTL time.Duration
	SweepSchedule  string

	ExtraPhrases []scanner.Phrase
}

type BreakerConfig struct {
	Window        time.Duration
	Buckets       int
	MinSamples    int
	FailureRate   float64
	HalfOpenAfter time.Duration
	Trials        int
}

type RateLimitConfig struct {
	Capacity     int64
	FillRate     float64
	Window       time.Duration
	MaxPerWindow int64
}

type configFile struct {
	Service struct {
		HTTPAddr string `yaml:"http_addr"`
		GRPCAddr string `yaml:"grpc_addr"`
	} `yaml:"service"`
	Dependencies struct {
		NATSURL string `yaml:"nats_url"`
	} `yaml:"dependencies"`
	Lookup struct {
		SeedFile string        `yaml:"seed_file"`
		Delay    time.Duration `yaml:"delay"`
		Retry    struct {
			Attempts  int           `yaml:"attempts"`
			BaseDelay time.Duration `yaml:"base_delay"`
			MaxDelay  time.Duration `yaml:"max_delay"`
		} `yaml:"retry"`
		Breaker struct {
			Window        time.Duration `yaml:"window"`
			Buckets       int           `yaml:"buckets"`
			MinSamples    int           `yaml:"min_samples"`
			FailureRate   float64       `yaml:"failure_rate"`
			HalfOpenAfter time.Duration `yaml:"half_open_after"`
			Trials        int           `yaml:"trials"`
		} `yaml:"breaker"`
	} `yaml:"lookup"`
	Sessions struct {
		StartingPoints *int          `yaml:"starting_points"`
		Shards         uint8         `yaml:"shard_pow"`
		IdleTTL        time.Duration `yaml:"idle_ttl"`
		SweepSchedule  string        `yaml:"sweep_schedule"`
	} `yaml:"sessions"`
	RateLimit struct {
		Capacity     int64         `yaml:"capacity"`
		FillRate     float64       `yaml:"fill_rate"`
		Window       time.Duration `yaml:"window"`
		MaxPerWindow int64         `yaml:"max_per_window"`
	} `yaml:"rate_limit"`
	Scanner struct {
		ExtraPhrases []scanner.Phrase `yaml:"extra_phrases"`
	} `yaml:"scanner"`
}

// DefaultConfig returns the compiled-in defaults.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:       ":8080",
		GRPCAddr:       ":9090",
		LookupDelay:    2 * time.Second,
		StartingPoints: 0,
		SessionShards:  5,
		Retry:          resilience.RetryPolicy{Attempts: 3, BaseDelay: 50 * time.Millisecond, MaxDelay: time.Second},
		Breaker: BreakerConfig{
			Window:        30 * time.Second,
			Buckets:       6,
			MinSamples:    10,
			FailureRate:   0.5,
			HalfOpenAfter: 10 * time.Second,
			Trials:        2,
		},
		Limit:          RateLimitConfig{Capacity: 20, FillRate: 5, Window: time.Minute, MaxPerWindow: 120},
		SessionIdleTTL: 30 * time.Minute,
		SweepSchedule:  "@every 5m",
	}
}

// LoadConfig reads path when it exists and applies environment overrides.
// A missing file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.applyFile(raw); err != nil {
				return Config{}, err
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.HTTPAddr = envOrDefault("INFINSAFE_HTTP_ADDR", cfg.HTTPAddr)
	cfg.GRPCAddr = envOrDefault("INFINSAFE_GRPC_ADDR", cfg.GRPCAddr)
	cfg.NATSURL = envOrDefault("NATS_URL", cfg.NATSURL)
	cfg.SeedFile = envOrDefault("INFINSAFE_SEED_FILE", cfg.SeedFile)
	cfg.LookupDelay = time.Duration(envInt("INFINSAFE_LOOKUP_DELAY_MS", int(cfg.LookupDelay.Milliseconds()))) * time.Millisecond
	cfg.StartingPoints = envInt("INFINSAFE_STARTING_POINTS", cfg.StartingPoints)
	cfg.SweepSchedule = envOrDefault("INFINSAFE_SWEEP_SCHEDULE", cfg.SweepSchedule)

	if cfg.StartingPoints < 0 {
		return Config{}, fmt.Errorf("starting points must be >= 0, got %d", cfg.StartingPoints)
	}
	return cfg, nil
}

func (cfg *Config) applyFile(raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if f.Service.HTTPAddr != "" {
		cfg.HTTPAddr = f.Service.HTTPAddr
	}
	if f.Service.GRPCAddr != "" {
		cfg.GRPCAddr = f.Service.GRPCAddr
	}
	cfg.NATSURL = f.Dependencies.NATSURL
	cfg.SeedFile = f.Lookup.SeedFile
	if f.Lookup.Delay > 0 {
		cfg.LookupDelay = f.Lookup.Delay
	}
	if r := f.Lookup.Retry; r.Attempts > 0 {
		cfg.Retry.Attempts = r.Attempts
		if r.BaseDelay > 0 {
			cfg.Retry.BaseDelay = r.BaseDelay
		}
		if r.MaxDelay > 0 {
			cfg.Retry.MaxDelay = r.MaxDelay
		}
	}
	if b := f.Lookup.Breaker; b.Window > 0 {
		cfg.Breaker = BreakerConfig{
			Window:        b.Window,
			Buckets:       b.Buckets,
			MinSamples:    b.MinSamples,
			FailureRate:   b.FailureRate,
			HalfOpenAfter: b.HalfOpenAfter,
			Trials:        b.Trials,
		}
	}
	if f.Sessions.StartingPoints != nil {
		cfg.StartingPoints = *f.Sessions.StartingPoints
	}
	if f.Sessions.Shards > 0 {
		cfg.SessionShards = f.Sessions.Shards
	}
	if f.Sessions.IdleTTL > 0 {
		cfg.SessionIdleTTL = f.Sessions.IdleTTL
	}
	if s := strings.TrimSpace(f.Sessions.SweepSchedule); s != "" {
		cfg.SweepSchedule = s
	}
	if rl := f.RateLimit; rl.Capacity > 0 {
		cfg.Limit = RateLimitConfig{Capacity: rl.Capacity, FillRate: rl.FillRate, Window: rl.Window, MaxPerWindow: rl.MaxPerWindow}
	}
	cfg.ExtraPhrases = append(cfg.ExtraPhrases, f.Scanner.ExtraPhrases...)
	return nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
