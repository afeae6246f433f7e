// Command fpsensor drives a fingerprint module over a serial line, or an
// in-process emulated module.
//
// It opens the link, performs handshake, password verification and reads
// the system parameters, then runs the selected command.
//
// Environment variables:
//
//	FPSENSOR_CONFIG - path of the YAML configuration file; without it the
//	                  emulated module is used with default settings
//	COMMAND         - "info" (default), "enroll", "search", "list", "count"
//	                  or "empty"
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arloliu/go-fpsensor/channel"
	"github.com/arloliu/go-fpsensor/device"
	"github.com/arloliu/go-fpsensor/emulator"
	"github.com/arloliu/go-fpsensor/internal/config"
	"github.com/arloliu/go-fpsensor/logger"
	"github.com/arloliu/go-fpsensor/transport"
	"github.com/arloliu/go-fpsensor/workflow"
)

var log logger.Logger

func main() {
	log = logger.NewSlog(logger.InfoLevel, false)

	if err := run(); err != nil {
		log.Error("fpsensor failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log = logger.NewSlogWithFormat(os.Stdout, logger.Format(cfg.Log.Format),
		logger.ParseLevel(cfg.Log.Level), cfg.Log.AddSource)
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	link, err := openTransport(cfg)
	if err != nil {
		return err
	}

	ch, err := channel.New(link,
		channel.WithTimeout(ms(cfg.Device.TimeoutMs)),
		channel.WithLogger(log.With("component", "channel")),
	)
	if err != nil {
		_ = link.Close()
		return err
	}
	defer func() {
		m := ch.GetMetrics()
		log.Info("channel closed",
			"commands", m.CommandCount.Load(),
			"timeouts", m.TimeoutCount.Load(),
			"droppedBytes", m.DroppedBytes.Load(),
		)
		_ = ch.Close()
	}()

	client, err := device.New(ch, deviceOptions(cfg)...)
	if err != nil {
		return err
	}

	if err := connect(ctx, client); err != nil {
		return err
	}

	engine, err := workflow.New(client,
		workflow.WithMaxScanAttempts(cfg.Workflow.MaxScanAttempts),
		workflow.WithPollInterval(ms(cfg.Workflow.PollIntervalMs)),
		workflow.WithDebounce(ms(cfg.Workflow.DebounceMs)),
		workflow.WithLogger(log.With("component", "workflow")),
		workflow.WithObserver(func(stage workflow.Stage) {
			if stage == workflow.StageRescan {
				log.Info("lift and place the same finger again")
			}
		}),
	)
	if err != nil {
		return err
	}

	return runCommand(ctx, os.Getenv("COMMAND"), client, engine)
}

func loadConfig() (*config.Config, error) {
	path := os.Getenv("FPSENSOR_CONFIG")
	if path == "" {
		return config.Parse([]byte("simulate: true\n"))
	}

	return config.Load(path)
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

func openTransport(cfg *config.Config) (channel.Transport, error) {
	if cfg.Simulate {
		m, err := emulator.New(
			emulator.WithCapacity(cfg.Emulator.Capacity),
			emulator.WithChunkSize(cfg.Emulator.ChunkSize),
			emulator.WithLatency(ms(cfg.Emulator.LatencyMs)),
			emulator.WithLogger(log),
		)
		if err != nil {
			return nil, err
		}
		for _, f := range cfg.Emulator.Fingers {
			m.PresentFingers(emulator.Finger(f))
		}
		log.Info("using emulated module", "capacity", cfg.Emulator.Capacity)

		return m, nil
	}

	s := cfg.Serial

	return transport.Open(s.Port, s.Baud,
		transport.WithDataBits(s.DataBits),
		transport.WithStopBits(s.StopBits),
		transport.WithParity(s.Parity),
		transport.WithReadTimeout(ms(s.ReadTimeoutMs)),
		transport.WithLogger(log),
	)
}

func deviceOptions(cfg *config.Config) []device.Option {
	opts := []device.Option{
		device.WithLogger(log.With("component", "device")),
		device.WithCaptureTimeout(ms(cfg.Device.CaptureTimeoutMs)),
	}
	if cfg.Device.Address != nil {
		opts = append(opts, device.WithAddress(*cfg.Device.Address))
	}
	if cfg.Device.Password != nil {
		opts = append(opts, device.WithPassword(*cfg.Device.Password))
	}

	return opts
}

// connect checks the link, authenticates and learns the library capacity.
func connect(ctx context.Context, client *device.Client) error {
	res, err := client.Handshake(ctx)
	if err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	if err := res.Err(); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}

	res, err = client.Login(ctx)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if err := res.Err(); err != nil {
		return fmt.Errorf("verify password: %w", err)
	}

	params, err := client.ReadSystemParameters(ctx)
	if err != nil {
		return fmt.Errorf("read system parameters: %w", err)
	}
	if err := params.Err(); err != nil {
		return fmt.Errorf("read system parameters: %w", err)
	}

	log.Info("module ready",
		"address", fmt.Sprintf("0x%08X", params.Address),
		"librarySize", params.LibrarySize,
		"securityLevel", params.SecurityLevel,
		"packetSize", params.PacketSize(),
		"baud", params.BaudRate(),
	)

	return nil
}

func runCommand(ctx context.Context, command string, client *device.Client, engine *workflow.Engine) error {
	switch command {
	case "", "info":
		return nil

	case "enroll":
		res, err := engine.Enroll(ctx)
		if errors.Is(err, workflow.ErrDuplicateFinger) {
			log.Warn("finger already enrolled", "pageID", res.DuplicateOf)
			return nil
		}
		if err != nil {
			return err
		}
		log.Info("enrolled", "pageID", res.PageID, "templates", res.Count)

	case "search":
		res, err := engine.Search(ctx, device.Range{})
		if err != nil {
			return err
		}
		if res.Found {
			log.Info("finger found", "pageID", res.PageID, "score", res.MatchScore)
		} else {
			log.Info("finger not found")
		}

	case "list":
		grid, err := engine.ListPages(ctx)
		if err != nil {
			return err
		}
		fmt.Print(grid)

	case "count":
		res, err := client.GetTemplateCount(ctx)
		if err != nil {
			return err
		}
		if err := res.Err(); err != nil {
			return err
		}
		log.Info("template count", "count", res.Count)

	case "empty":
		res, err := client.EmptyLibrary(ctx)
		if err != nil {
			return err
		}
		if err := res.Err(); err != nil {
			return err
		}
		log.Info("library emptied")

	default:
		return fmt.Errorf("unknown command %q", command)
	}

	return nil
}
