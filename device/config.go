package device

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-fpsensor/logger"
	"github.com/arloliu/go-fpsensor/packet"
)

// Config holds the settings of a Client.
type Config struct {
	address        uint32
	password       uint32
	capacity       uint16
	captureTimeout time.Duration
	logger         logger.Logger
}

// NewConfig creates a Config with defaults, then applies opts in order.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		address:  packet.DefaultAddress,
		password: DefaultPassword,
		logger:   logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *Config) Address() uint32               { return cfg.address }
func (cfg *Config) Password() uint32              { return cfg.password }
func (cfg *Config) Capacity() uint16              { return cfg.capacity }
func (cfg *Config) CaptureTimeout() time.Duration { return cfg.captureTimeout }
func (cfg *Config) GetLogger() logger.Logger      { return cfg.logger }

// Option is a functional option for configuring a Client.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithAddress sets the module address used for commands and expected in responses.
func WithAddress(addr uint32) Option {
	return optFunc(func(cfg *Config) error {
		cfg.address = addr
		return nil
	})
}

// WithPassword sets the session password used by Login.
func WithPassword(pw uint32) Option {
	return optFunc(func(cfg *Config) error {
		cfg.password = pw
		return nil
	})
}

// WithCapacity presets the library capacity so that StoreTemplate does not
// need to read the system parameters first.
func WithCapacity(n uint16) Option {
	return optFunc(func(cfg *Config) error {
		if n == 0 {
			return errors.New("device: capacity must be positive")
		}
		cfg.capacity = n

		return nil
	})
}

// WithCaptureTimeout overrides the channel timeout for commands that wait on
// the sensor: GenerateImage, AutoSearch and Identify. Zero keeps the channel
// default.
func WithCaptureTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < 0 {
			return fmt.Errorf("device: capture timeout %v must not be negative", d)
		}
		cfg.captureTimeout = d

		return nil
	})
}

// WithLogger sets the logger for the client.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("device: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
