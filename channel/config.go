package channel

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-fpsensor/logger"
)

const (
	// DefaultTimeout bounds a single command round trip. Image capture is the
	// slowest command and completes well within it.
	DefaultTimeout = 2 * time.Second

	MinTimeout = 10 * time.Millisecond
	MaxTimeout = 60 * time.Second
)

// Config holds the settings of a Channel.
type Config struct {
	timeout time.Duration
	logger  logger.Logger
}

// NewConfig creates a Config with defaults, then applies opts in order.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		timeout: DefaultTimeout,
		logger:  logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Timeout returns the per-command timeout.
func (cfg *Config) Timeout() time.Duration { return cfg.timeout }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// Option is a functional option for configuring a Channel.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithTimeout sets the per-command timeout. Must be in [MinTimeout, MaxTimeout].
func WithTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < MinTimeout || d > MaxTimeout {
			return fmt.Errorf("channel: timeout %v out of range [%v, %v]", d, MinTimeout, MaxTimeout)
		}
		cfg.timeout = d

		return nil
	})
}

// WithLogger sets the logger for the channel.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("channel: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
