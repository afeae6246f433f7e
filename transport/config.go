package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-fpsensor/logger"
)

const (
	// BaudUnit is the step of the module's baud rate setting.
	BaudUnit    = 9600
	DefaultBaud = 57600

	DefaultReadTimeout = 50 * time.Millisecond
	readBufferSize     = 256
)

// Config holds the serial line settings of a Port.
type Config struct {
	baud        int
	dataBits    int
	stopBits    int
	parity      string
	readTimeout time.Duration
	logger      logger.Logger
}

// NewConfig creates a Config for baud with 8N1 framing, then applies opts in
// order.
func NewConfig(baud int, opts ...Option) (*Config, error) {
	if baud%BaudUnit != 0 || baud/BaudUnit < 1 || baud/BaudUnit > 12 {
		return nil, fmt.Errorf("transport: baud rate %d is not N*%d with N in [1, 12]", baud, BaudUnit)
	}

	cfg := &Config{
		baud:        baud,
		dataBits:    8,
		stopBits:    1,
		parity:      "N",
		readTimeout: DefaultReadTimeout,
		logger:      logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *Config) Baud() int                  { return cfg.baud }
func (cfg *Config) ReadTimeout() time.Duration { return cfg.readTimeout }

// Option is a functional option for configuring a Port.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithDataBits sets the number of data bits, 5 to 8.
func WithDataBits(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n < 5 || n > 8 {
			return fmt.Errorf("transport: data bits %d not in [5, 8]", n)
		}
		cfg.dataBits = n

		return nil
	})
}

// WithStopBits sets the number of stop bits, 1 or 2.
func WithStopBits(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n != 1 && n != 2 {
			return fmt.Errorf("transport: stop bits %d must be 1 or 2", n)
		}
		cfg.stopBits = n

		return nil
	})
}

// WithParity sets the parity: "N", "E" or "O".
func WithParity(p string) Option {
	return optFunc(func(cfg *Config) error {
		switch p {
		case "N", "E", "O":
			cfg.parity = p
			return nil
		default:
			return fmt.Errorf("transport: unknown parity %q", p)
		}
	})
}

// WithReadTimeout sets how long a single read waits before the reader
// checks for shutdown.
func WithReadTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d <= 0 {
			return fmt.Errorf("transport: read timeout %v must be positive", d)
		}
		cfg.readTimeout = d

		return nil
	})
}

// WithLogger sets the logger for the port.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("transport: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
