package config

import "testing"

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output 'stdout', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_Transport(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Transport.RingDir != DefaultRingDir {
		t.Errorf("Expected default ring dir %q, got %q", DefaultRingDir, cfg.Transport.RingDir)
	}
	if cfg.Transport.SlotSize == 0 {
		t.Error("Expected non-zero default slot size")
	}
	if cfg.Transport.SlotCount == 0 {
		t.Error("Expected non-zero default slot count")
	}
}

func TestApplyDefaults_Device(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Device.Name == "" {
		t.Error("Expected a non-empty default device name")
	}
	if cfg.Device.TotalMemory == 0 {
		t.Error("Expected non-zero default device memory")
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "debug"},
		Transport: TransportConfig{
			RingDir:   "/tmp/custom-rings",
			SlotSize:  4096,
			SlotCount: 16,
		},
	}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected explicit log level to be upper-cased to 'DEBUG', got %q", cfg.Logging.Level)
	}
	if cfg.Transport.RingDir != "/tmp/custom-rings" {
		t.Errorf("Expected explicit ring dir to be preserved, got %q", cfg.Transport.RingDir)
	}
	if cfg.Transport.SlotSize != 4096 {
		t.Errorf("Expected explicit slot size to be preserved, got %d", cfg.Transport.SlotSize)
	}
	if cfg.Transport.SlotCount != 16 {
		t.Errorf("Expected explicit slot count to be preserved, got %d", cfg.Transport.SlotCount)
	}
}

func TestValidate_RejectsZeroSlotSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transport.SlotSize = 0
	if err := Validate(cfg); err == nil {
		t.Error("Expected Validate to reject a zero slot size")
	}
}

func TestValidate_RejectsZeroDeviceMemory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Device.TotalMemory = 0
	if err := Validate(cfg); err == nil {
		t.Error("Expected Validate to reject zero device memory")
	}
}

func TestValidate_RejectsNonPositiveShutdownTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShutdownTimeout = 0
	if err := Validate(cfg); err == nil {
		t.Error("Expected Validate to reject a non-positive shutdown timeout")
	}
}

func TestValidate_AcceptsDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Errorf("Expected DefaultConfig to validate cleanly, got %v", err)
	}
}
