// Package config loads the broker daemon's configuration from file,
// environment, and defaults, following the same viper-backed precedence
// the teacher project uses: CLI flags > environment (IDMBROKER_* prefix) >
// config file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config is the broker daemon's static configuration.
type Config struct {
	// Logging controls structured log output (internal/logger.Config).
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Transport configures the shared-memory ring backend.
	Transport TransportConfig `mapstructure:"transport" yaml:"transport"`

	// Device configures the (mock, for now) device driver.
	Device DeviceConfig `mapstructure:"device" yaml:"device"`

	// Metrics controls the Prometheus metrics HTTP endpoint.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Zones lists the zone ids the broker accepts connections from. A
	// broker started without an explicit zone list only serves the zones
	// named on the command line.
	Zones []uint32 `mapstructure:"zones" yaml:"zones"`

	// ShutdownTimeout bounds how long graceful shutdown waits for the
	// dispatch loop to drain.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LoggingConfig mirrors internal/logger.Config's fields for file-driven
// configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// TransportConfig configures the development shared-memory backend.
type TransportConfig struct {
	RingDir   string `mapstructure:"ring_dir" yaml:"ring_dir"`
	SlotSize  uint32 `mapstructure:"slot_size" yaml:"slot_size"`
	SlotCount uint32 `mapstructure:"slot_count" yaml:"slot_count"`
}

// DeviceConfig configures the simulated device driver.
type DeviceConfig struct {
	Name        string `mapstructure:"name" yaml:"name"`
	TotalMemory uint64 `mapstructure:"total_memory" yaml:"total_memory"`
}

// MetricsConfig controls the Prometheus metrics HTTP endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr" yaml:"addr"`
}

// Load reads configuration from configPath (or the default search path if
// empty), applies environment overrides, fills in defaults, and validates
// the result. Environment overrides apply only to keys present in the
// config file; when no config file is found, Load returns DefaultConfig()
// and the environment is not consulted.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		cfg := DefaultConfig()
		return cfg, nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("IDMBROKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(defaultConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("config: read config file: %w", err)
	}
	return true, nil
}

func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "idmbroker")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "idmbroker")
}
