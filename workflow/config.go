package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-fpsensor/logger"
)

const (
	DefaultMaxScanAttempts = 50
	DefaultPollInterval    = 100 * time.Millisecond
	DefaultDebounce        = time.Second
)

// StageObserver is called each time a workflow enters a stage.
type StageObserver func(stage Stage)

// Config holds the settings of an Engine.
type Config struct {
	maxScanAttempts int
	pollInterval    time.Duration
	debounce        time.Duration
	observer        StageObserver
	logger          logger.Logger
}

// NewConfig creates a Config with defaults, then applies opts in order.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		maxScanAttempts: DefaultMaxScanAttempts,
		pollInterval:    DefaultPollInterval,
		debounce:        DefaultDebounce,
		logger:          logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *Config) MaxScanAttempts() int        { return cfg.maxScanAttempts }
func (cfg *Config) PollInterval() time.Duration { return cfg.pollInterval }
func (cfg *Config) Debounce() time.Duration     { return cfg.debounce }

// Option is a functional option for configuring an Engine.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithMaxScanAttempts bounds the number of captures ScanFinger tries.
func WithMaxScanAttempts(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n < 1 {
			return fmt.Errorf("workflow: max scan attempts %d must be positive", n)
		}
		cfg.maxScanAttempts = n

		return nil
	})
}

// WithPollInterval sets the pause between two captures while no finger is present.
func WithPollInterval(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < 0 {
			return fmt.Errorf("workflow: poll interval %v must not be negative", d)
		}
		cfg.pollInterval = d

		return nil
	})
}

// WithDebounce sets the pause between the two scans of an enrollment.
func WithDebounce(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < 0 {
			return fmt.Errorf("workflow: debounce %v must not be negative", d)
		}
		cfg.debounce = d

		return nil
	})
}

// WithObserver registers fn to receive stage transitions.
func WithObserver(fn StageObserver) Option {
	return optFunc(func(cfg *Config) error {
		cfg.observer = fn
		return nil
	})
}

// WithLogger sets the logger for the engine.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("workflow: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
