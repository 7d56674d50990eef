package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
device:
  id: "led-kitchen"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
led:
  tick_interval_ms: 20
  namespace: "kitchen"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Device.ID != "led-kitchen" {
		t.Errorf("Device.ID = %q, want %q", cfg.Device.ID, "led-kitchen")
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}

	if cfg.LED.TickIntervalMS != 20 {
		t.Errorf("LED.TickIntervalMS = %d, want 20", cfg.LED.TickIntervalMS)
	}

	// Unset keys keep their defaults
	if cfg.LED.QueueCapacity != 10 {
		t.Errorf("LED.QueueCapacity = %d, want default 10", cfg.LED.QueueCapacity)
	}
	if cfg.MQTT.Topics.Device != "led" {
		t.Errorf("MQTT.Topics.Device = %q, want default %q", cfg.MQTT.Topics.Device, "led")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

// Configs written for older releases still carry mqtt.qos. QoS is fixed per
// topic (commands 0, state 1), so the key is ignored rather than rejected.
func TestLoad_IgnoresLegacyQoSKey(t *testing.T) {
	content := `
device:
  id: "led-01"
mqtt:
  qos: 2
`
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("MQTT.Broker.Port = %d, want default 1883", cfg.MQTT.Broker.Port)
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
device:
  id: ""
led:
  tick_interval_ms: 0
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(_ *Config) {},
			wantErr: false,
		},
		{
			name:    "missing device ID",
			mutate:  func(c *Config) { c.Device.ID = "" },
			wantErr: true,
		},
		{
			name:    "missing database path with sqlite backend",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name: "missing database path with memory backend",
			mutate: func(c *Config) {
				c.Database.Path = ""
				c.LED.StorageBackend = "memory"
			},
			wantErr: false,
		},
		{
			name:    "zero tick interval",
			mutate:  func(c *Config) { c.LED.TickIntervalMS = 0 },
			wantErr: true,
		},
		{
			name:    "zero queue capacity",
			mutate:  func(c *Config) { c.LED.QueueCapacity = 0 },
			wantErr: true,
		},
		{
			name:    "zero rainbow subsample",
			mutate:  func(c *Config) { c.LED.RainbowSubsample = 0 },
			wantErr: true,
		},
		{
			name:    "unknown storage backend",
			mutate:  func(c *Config) { c.LED.StorageBackend = "flash" },
			wantErr: true,
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.LED.Driver = "ws2812" },
			wantErr: true,
		},
		{
			name:    "empty topic device",
			mutate:  func(c *Config) { c.MQTT.Topics.Device = "" },
			wantErr: true,
		},
		{
			name:    "api port out of range",
			mutate:  func(c *Config) { c.API.Port = 70000 },
			wantErr: true,
		},
		{
			name: "api port ignored when disabled",
			mutate: func(c *Config) {
				c.API.Enabled = false
				c.API.Port = 0
			},
			wantErr: false,
		},
		{
			name:    "influxdb enabled without url",
			mutate:  func(c *Config) { c.InfluxDB.Enabled = true },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := &Config{
		LED: LEDConfig{TickIntervalMS: 10},
		API: APIConfig{
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 45,
				Idle:  60,
			},
		},
	}

	if got := cfg.TickInterval(); got != 10*time.Millisecond {
		t.Errorf("TickInterval() = %v, want 10ms", got)
	}
	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}
	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}
	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	t.Setenv("GRAYLOGIC_LED_DEVICE_ID", "led-hall")
	t.Setenv("GRAYLOGIC_LED_DATABASE_PATH", "/custom/path.db")
	t.Setenv("GRAYLOGIC_LED_MQTT_HOST", "mqtt.example.com")
	t.Setenv("GRAYLOGIC_LED_MQTT_PORT", "8883")
	t.Setenv("GRAYLOGIC_LED_MQTT_USERNAME", "testuser")
	t.Setenv("GRAYLOGIC_LED_MQTT_PASSWORD", "testpass")
	t.Setenv("GRAYLOGIC_LED_API_HOST", "192.168.1.1")
	t.Setenv("GRAYLOGIC_LED_INFLUXDB_TOKEN", "secret-token")

	applyEnvOverrides(cfg)

	if cfg.Device.ID != "led-hall" {
		t.Errorf("Device.ID = %q, want %q", cfg.Device.ID, "led-hall")
	}
	if cfg.Database.Path != "/custom/path.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/custom/path.db")
	}
	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}
	if cfg.MQTT.Broker.Port != 8883 {
		t.Errorf("MQTT.Broker.Port = %d, want 8883", cfg.MQTT.Broker.Port)
	}
	if cfg.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "testuser")
	}
	if cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "testpass")
	}
	if cfg.API.Host != "192.168.1.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "192.168.1.1")
	}
	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.LED.TickIntervalMS != 10 {
		t.Errorf("defaultConfig LED.TickIntervalMS = %d, want 10", cfg.LED.TickIntervalMS)
	}
	if cfg.LED.QueueCapacity != 10 {
		t.Errorf("defaultConfig LED.QueueCapacity = %d, want 10", cfg.LED.QueueCapacity)
	}
	if cfg.LED.Namespace != "demo" {
		t.Errorf("defaultConfig LED.Namespace = %q, want %q", cfg.LED.Namespace, "demo")
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("defaultConfig MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.MQTT.Topics.CommandPrefix != "cmnd" || cfg.MQTT.Topics.StatePrefix != "stat" {
		t.Errorf("defaultConfig topics = %+v, want cmnd/stat", cfg.MQTT.Topics)
	}
}
