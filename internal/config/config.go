// Package config loads the YAML configuration of the fpsensor command.
package config

// Config is the root of the configuration file.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Simulate bool           `yaml:"simulate"`
	Serial   SerialConfig   `yaml:"serial"`
	Emulator EmulatorConfig `yaml:"emulator"`
	Device   DeviceConfig   `yaml:"device"`
	Workflow WorkflowConfig `yaml:"workflow"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Format is "json" or "console"; empty follows the ENV variable.
	Format    string `yaml:"format"`
	AddSource bool   `yaml:"add_source"`
}

// SerialConfig selects the serial line; ignored when Simulate is set.
type SerialConfig struct {
	Port          string `yaml:"port"`
	Baud          int    `yaml:"baud"`
	DataBits      int    `yaml:"data_bits"`
	StopBits      int    `yaml:"stop_bits"`
	Parity        string `yaml:"parity"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
}

// EmulatorConfig shapes the in-process module used when Simulate is set.
type EmulatorConfig struct {
	Capacity  int `yaml:"capacity"`
	ChunkSize int `yaml:"chunk_size"`
	LatencyMs int `yaml:"latency_ms"`
	// Fingers are presented to the sensor in order, one per capture.
	Fingers []uint32 `yaml:"fingers"`
}

type DeviceConfig struct {
	// Address and Password are pointers so that an explicit zero is kept.
	Address          *uint32 `yaml:"address"`
	Password         *uint32 `yaml:"password"`
	TimeoutMs        int     `yaml:"timeout_ms"`
	CaptureTimeoutMs int     `yaml:"capture_timeout_ms"`
}

type WorkflowConfig struct {
	MaxScanAttempts int `yaml:"max_scan_attempts"`
	PollIntervalMs  int `yaml:"poll_interval_ms"`
	DebounceMs      int `yaml:"debounce_ms"`
}
