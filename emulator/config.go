package emulator

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-fpsensor/logger"
	"github.com/arloliu/go-fpsensor/packet"
)

const (
	DefaultCapacity = 1000
	// MaxCapacity is the number of positions the four index pages can describe.
	MaxCapacity = 1024

	DefaultPassword      uint32 = 0xFFFFFFFF
	DefaultSecurityLevel uint16 = 3
	DefaultBaudDivisor   uint16 = 6
	DefaultPacketSize    uint16 = 2
	SystemID             uint16 = 0x0009
)

// Config holds the initial state and behavior of a Module.
type Config struct {
	address       uint32
	password      uint32
	capacity      uint16
	securityLevel uint16
	chunkSize     int
	latency       time.Duration
	logger        logger.Logger
}

// NewConfig creates a Config with defaults, then applies opts in order.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		address:       packet.DefaultAddress,
		password:      DefaultPassword,
		capacity:      DefaultCapacity,
		securityLevel: DefaultSecurityLevel,
		logger:        logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Option is a functional option for configuring a Module.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithAddress sets the module address.
func WithAddress(addr uint32) Option {
	return optFunc(func(cfg *Config) error {
		cfg.address = addr
		return nil
	})
}

// WithPassword sets the module password.
func WithPassword(pw uint32) Option {
	return optFunc(func(cfg *Config) error {
		cfg.password = pw
		return nil
	})
}

// WithCapacity sets the library size. Must be in [1, MaxCapacity].
func WithCapacity(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n < 1 || n > MaxCapacity {
			return fmt.Errorf("emulator: capacity %d not in [1, %d]", n, MaxCapacity)
		}
		cfg.capacity = uint16(n)

		return nil
	})
}

// WithSecurityLevel sets the initial security level. Must be in [1, 5].
func WithSecurityLevel(level int) Option {
	return optFunc(func(cfg *Config) error {
		if level < 1 || level > 5 {
			return fmt.Errorf("emulator: security level %d not in [1, 5]", level)
		}
		cfg.securityLevel = uint16(level)

		return nil
	})
}

// WithChunkSize splits every response into chunks of n bytes. Zero delivers
// each response in one piece.
func WithChunkSize(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n < 0 {
			return fmt.Errorf("emulator: chunk size %d must not be negative", n)
		}
		cfg.chunkSize = n

		return nil
	})
}

// WithLatency delays every response by d.
func WithLatency(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < 0 {
			return fmt.Errorf("emulator: latency %v must not be negative", d)
		}
		cfg.latency = d

		return nil
	})
}

// WithLogger sets the logger for the module.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("emulator: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
