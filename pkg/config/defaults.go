package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// DefaultRingDir is where DevBackend ring files live when no config file
// is present.
const DefaultRingDir = "/var/lib/idmbroker/rings"

// DefaultConfig returns a Config with every field set to its default,
// usable standalone with no config file.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in any zero-valued fields of cfg with defaults.
// Explicit values from file/environment are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTransportDefaults(&cfg.Transport)
	applyDeviceDefaults(&cfg.Device)
	applyMetricsDefaults(&cfg.Metrics)

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	cfg.Format = strings.ToLower(cfg.Format)

	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyTransportDefaults(cfg *TransportConfig) {
	if cfg.RingDir == "" {
		cfg.RingDir = DefaultRingDir
	}
	if cfg.SlotSize == 0 {
		cfg.SlotSize = 64 * 1024
	}
	if cfg.SlotCount == 0 {
		cfg.SlotCount = 256
	}
}

func applyDeviceDefaults(cfg *DeviceConfig) {
	if cfg.Name == "" {
		cfg.Name = "mock-gpu-0"
	}
	if cfg.TotalMemory == 0 {
		cfg.TotalMemory = 8 << 30 // 8 GiB
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Addr == "" {
		cfg.Addr = ":9090"
	}
}

// Validate checks that cfg describes a startable broker.
func Validate(cfg *Config) error {
	if cfg.Transport.SlotSize == 0 {
		return fmt.Errorf("config: transport.slot_size must be non-zero")
	}
	if cfg.Transport.SlotCount == 0 {
		return fmt.Errorf("config: transport.slot_count must be non-zero")
	}
	if cfg.Device.TotalMemory == 0 {
		return fmt.Errorf("config: device.total_memory must be non-zero")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: shutdown_timeout must be positive")
	}
	if _, err := os.Stat(cfg.Transport.RingDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("config: transport.ring_dir: %w", err)
	}
	return nil
}
