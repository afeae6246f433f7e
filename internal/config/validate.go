package config

import (
	"fmt"
)

// Validate checks configuration correctness. Zero values mean "use the
// default" and are accepted. It does not mutate cfg.
func Validate(cfg *Config) error {
	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("config: log.level %q is not one of debug, info, warn, error, fatal", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is not json or console", cfg.Log.Format)
	}

	if !cfg.Simulate && cfg.Serial.Port == "" {
		return fmt.Errorf("config: serial.port is required unless simulate is set")
	}

	s := cfg.Serial
	if s.Baud != 0 && (s.Baud%9600 != 0 || s.Baud/9600 > 12) {
		return fmt.Errorf("config: serial.baud %d is not N*9600 with N in [1, 12]", s.Baud)
	}
	if s.DataBits != 0 && (s.DataBits < 5 || s.DataBits > 8) {
		return fmt.Errorf("config: serial.data_bits %d not in [5, 8]", s.DataBits)
	}
	if s.StopBits != 0 && s.StopBits != 1 && s.StopBits != 2 {
		return fmt.Errorf("config: serial.stop_bits %d must be 1 or 2", s.StopBits)
	}
	switch s.Parity {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("config: serial.parity %q must be N, E or O", s.Parity)
	}

	e := cfg.Emulator
	if e.Capacity < 0 || e.Capacity > 1024 {
		return fmt.Errorf("config: emulator.capacity %d not in [1, 1024]", e.Capacity)
	}

	for name, v := range map[string]int{
		"serial.read_timeout_ms":     s.ReadTimeoutMs,
		"emulator.chunk_size":        e.ChunkSize,
		"emulator.latency_ms":        e.LatencyMs,
		"device.timeout_ms":          cfg.Device.TimeoutMs,
		"device.capture_timeout_ms":  cfg.Device.CaptureTimeoutMs,
		"workflow.max_scan_attempts": cfg.Workflow.MaxScanAttempts,
		"workflow.poll_interval_ms":  cfg.Workflow.PollIntervalMs,
		"workflow.debounce_ms":       cfg.Workflow.DebounceMs,
	} {
		if v < 0 {
			return fmt.Errorf("config: %s must not be negative, got %d", name, v)
		}
	}

	if t := cfg.Device.TimeoutMs; t != 0 && (t < 10 || t > 60000) {
		return fmt.Errorf("config: device.timeout_ms %d not in [10, 60000]", t)
	}

	return nil
}
