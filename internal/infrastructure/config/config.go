package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the LED controller.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	Database  DatabaseConfig  `yaml:"database"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	LED       LEDConfig       `yaml:"led"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DeviceConfig identifies this controller instance.
type DeviceConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
	Topics    MQTTTopicsConfig    `yaml:"topics"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// MQTTTopicsConfig controls the topic layout.
//
// Topics are built as {prefix}/{device}/{field}, e.g. "cmnd/led/power"
// for commands and "stat/led/power" for state.
type MQTTTopicsConfig struct {
	CommandPrefix string `yaml:"command_prefix"`
	StatePrefix   string `yaml:"state_prefix"`
	Device        string `yaml:"device"`
}

// LEDConfig contains the render loop and persistence settings for the light.
type LEDConfig struct {
	// TickIntervalMS is the render loop period in milliseconds.
	// Blink half-periods are floored to multiples of this value.
	TickIntervalMS int `yaml:"tick_interval_ms"`

	// RainbowSubsample is the number of ticks between rainbow hue advances.
	RainbowSubsample int `yaml:"rainbow_subsample"`

	// QueueCapacity is the number of pending state updates the
	// update channel holds before new commands are dropped.
	QueueCapacity int `yaml:"queue_capacity"`

	// Namespace groups the persisted fields in the key/value store.
	Namespace string `yaml:"namespace"`

	// StorageBackend selects the durable store: "sqlite" or "memory".
	StorageBackend string `yaml:"storage_backend"`

	// Driver selects the light driver: "log" or "none".
	Driver string `yaml:"driver"`
}

// APIConfig contains local HTTP API server settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	MaxMessageSize int `yaml:"max_message_size"`
	PingInterval   int `yaml:"ping_interval"`
	PongTimeout    int `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: GRAYLOGIC_LED_SECTION_KEY
// For example: GRAYLOGIC_LED_DATABASE_PATH, GRAYLOGIC_LED_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration with environment overrides applied.
// Used when no configuration file exists on the device.
func Default() *Config {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	return cfg
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			ID:   "led-01",
			Name: "Status LED",
		},
		Database: DatabaseConfig{
			Path:        "./data/graylogic-led.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "graylogic-led",
			},
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
			Topics: MQTTTopicsConfig{
				CommandPrefix: "cmnd",
				StatePrefix:   "stat",
				Device:        "led",
			},
		},
		LED: LEDConfig{
			TickIntervalMS:   10,
			RainbowSubsample: 3,
			QueueCapacity:    10,
			Namespace:        "demo",
			StorageBackend:   "sqlite",
			Driver:           "log",
		},
		API: APIConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8080,
			Timeouts: APITimeoutConfig{
				Read:  10,
				Write: 10,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			MaxMessageSize: 4096,
			PingInterval:   30,
			PongTimeout:    10,
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: GRAYLOGIC_LED_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GRAYLOGIC_LED_DEVICE_ID"); v != "" {
		cfg.Device.ID = v
	}

	// Database
	if v := os.Getenv("GRAYLOGIC_LED_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("GRAYLOGIC_LED_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("GRAYLOGIC_LED_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MQTT.Broker.Port = port
		}
	}
	if v := os.Getenv("GRAYLOGIC_LED_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("GRAYLOGIC_LED_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("GRAYLOGIC_LED_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// InfluxDB
	if v := os.Getenv("GRAYLOGIC_LED_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Device.ID == "" {
		errs = append(errs, "device.id is required")
	}

	// Database is only needed for the sqlite storage backend
	if c.LED.StorageBackend == "sqlite" && c.Database.Path == "" {
		errs = append(errs, "database.path is required for the sqlite storage backend")
	}

	// MQTT validation
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.Topics.CommandPrefix == "" || c.MQTT.Topics.StatePrefix == "" || c.MQTT.Topics.Device == "" {
		errs = append(errs, "mqtt.topics command_prefix, state_prefix and device are required")
	}

	// LED validation
	if c.LED.TickIntervalMS < 1 {
		errs = append(errs, "led.tick_interval_ms must be at least 1")
	}
	if c.LED.RainbowSubsample < 1 {
		errs = append(errs, "led.rainbow_subsample must be at least 1")
	}
	if c.LED.QueueCapacity < 1 {
		errs = append(errs, "led.queue_capacity must be at least 1")
	}
	if c.LED.Namespace == "" {
		errs = append(errs, "led.namespace is required")
	}
	switch c.LED.StorageBackend {
	case "sqlite", "memory":
	default:
		errs = append(errs, "led.storage_backend must be sqlite or memory")
	}
	switch c.LED.Driver {
	case "log", "none":
	default:
		errs = append(errs, "led.driver must be log or none")
	}

	// API validation
	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// TickInterval returns the render loop period as a Duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.LED.TickIntervalMS) * time.Millisecond
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
