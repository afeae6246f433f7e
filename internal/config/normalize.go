package config

// Normalize fills defaults for unset values. Call it only after Validate.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	s := &cfg.Serial
	if s.Baud == 0 {
		s.Baud = 57600
	}
	if s.DataBits == 0 {
		s.DataBits = 8
	}
	if s.StopBits == 0 {
		s.StopBits = 1
	}
	if s.Parity == "" {
		s.Parity = "N"
	}
	if s.ReadTimeoutMs == 0 {
		s.ReadTimeoutMs = 50
	}

	if cfg.Emulator.Capacity == 0 {
		cfg.Emulator.Capacity = 1000
	}

	if cfg.Device.TimeoutMs == 0 {
		cfg.Device.TimeoutMs = 2000
	}

	w := &cfg.Workflow
	if w.MaxScanAttempts == 0 {
		w.MaxScanAttempts = 50
	}
	if w.PollIntervalMs == 0 {
		w.PollIntervalMs = 100
	}
	if w.DebounceMs == 0 {
		w.DebounceMs = 1000
	}
}
