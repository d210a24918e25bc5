package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for augustlink.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	August    AugustConfig    `yaml:"august"`
	Poll      PollConfig      `yaml:"poll"`
	Push      PushConfig      `yaml:"push"`
	Database  DatabaseConfig  `yaml:"database"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// AugustConfig contains August cloud API settings.
type AugustConfig struct {
	// BaseURL is the August API endpoint. Only changed for testing.
	BaseURL string `yaml:"base_url"`

	// LoginMethod is either "email" or "phone".
	LoginMethod string `yaml:"login_method"`

	// Username is the account identifier for the chosen login method.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// InstallID identifies this installation to the August API.
	// Generated on first run when empty. Reusing the same install id
	// avoids re-triggering two-factor validation.
	InstallID string `yaml:"install_id"`

	// Timeout is the per-request timeout in seconds.
	Timeout int `yaml:"timeout"`

	// CommandTimeout is the timeout in seconds for remote lock/unlock
	// operations, which block while the cloud talks to the bridge.
	CommandTimeout int `yaml:"command_timeout"`
}

// PollConfig contains activity feed polling settings.
type PollConfig struct {
	// Interval between activity feed fetches, in seconds.
	Interval int `yaml:"interval"`

	// ActivityLimit is the number of feed entries requested per house.
	ActivityLimit int `yaml:"activity_limit"`
}

// PushConfig contains the push message transport settings.
//
// Push notifications are consumed from an MQTT broker that a companion
// process bridges the vendor's notification channel onto. Each device
// gets its own topic under TopicPrefix.
type PushConfig struct {
	Enabled     bool                `yaml:"enabled"`
	Broker      PushBrokerConfig    `yaml:"broker"`
	Auth        PushAuthConfig      `yaml:"auth"`
	TopicPrefix string              `yaml:"topic_prefix"`
	QoS         int                 `yaml:"qos"`
	Reconnect   PushReconnectConfig `yaml:"reconnect"`
}

// PushBrokerConfig contains MQTT broker connection details.
type PushBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// PushAuthConfig contains MQTT authentication credentials.
type PushAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// PushReconnectConfig contains MQTT reconnection settings in seconds.
type PushReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// DatabaseConfig contains SQLite database settings for the activity log.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// InfluxDBConfig contains state recorder settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// APIConfig contains local HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// WebSocketConfig contains WebSocket hub settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
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
// Environment variables follow the pattern: AUGUSTLINK_SECTION_KEY
// For example: AUGUSTLINK_AUGUST_PASSWORD, AUGUSTLINK_API_PORT
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

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		August: AugustConfig{
			BaseURL:        "https://api-production.august.com",
			LoginMethod:    "email",
			Timeout:        10,
			CommandTimeout: 60,
		},
		Poll: PollConfig{
			Interval:      10,
			ActivityLimit: 10,
		},
		Push: PushConfig{
			Enabled: false,
			Broker: PushBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "augustlink",
			},
			TopicPrefix: "august/push",
			QoS:         1,
			Reconnect: PushReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Database: DatabaseConfig{
			Path:        "./data/augustlink.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		InfluxDB: InfluxDBConfig{
			Enabled:       false,
			URL:           "http://localhost:8086",
			Bucket:        "augustlink",
			BatchSize:     100,
			FlushInterval: 10,
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8642,
			Timeouts: APITimeoutConfig{
				Read:  15,
				Write: 75,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 4096,
			PingInterval:   30,
			PongTimeout:    60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies AUGUSTLINK_* environment variables over the
// loaded configuration. Only settings that are credentials or commonly
// differ between deployments are overridable.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AUGUSTLINK_AUGUST_USERNAME"); v != "" {
		cfg.August.Username = v
	}
	if v := os.Getenv("AUGUSTLINK_AUGUST_PASSWORD"); v != "" {
		cfg.August.Password = v
	}
	if v := os.Getenv("AUGUSTLINK_AUGUST_INSTALL_ID"); v != "" {
		cfg.August.InstallID = v
	}
	if v := os.Getenv("AUGUSTLINK_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("AUGUSTLINK_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("AUGUSTLINK_PUSH_PASSWORD"); v != "" {
		cfg.Push.Auth.Password = v
	}
	if v := os.Getenv("AUGUSTLINK_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}
	if v := os.Getenv("AUGUSTLINK_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if c.August.BaseURL == "" {
		return fmt.Errorf("august.base_url must not be empty")
	}
	if c.August.LoginMethod != "email" && c.August.LoginMethod != "phone" {
		return fmt.Errorf("august.login_method must be \"email\" or \"phone\", got %q", c.August.LoginMethod)
	}
	if c.August.Timeout <= 0 {
		return fmt.Errorf("august.timeout must be positive, got %d", c.August.Timeout)
	}
	if c.August.CommandTimeout <= 0 {
		return fmt.Errorf("august.command_timeout must be positive, got %d", c.August.CommandTimeout)
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be positive, got %d", c.Poll.Interval)
	}
	if c.Poll.ActivityLimit <= 0 {
		return fmt.Errorf("poll.activity_limit must be positive, got %d", c.Poll.ActivityLimit)
	}
	if c.Push.Enabled {
		if c.Push.Broker.Host == "" {
			return fmt.Errorf("push.broker.host must not be empty when push is enabled")
		}
		if c.Push.QoS < 0 || c.Push.QoS > 2 {
			return fmt.Errorf("push.qos must be 0, 1 or 2, got %d", c.Push.QoS)
		}
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		return fmt.Errorf("influxdb.url must not be empty when influxdb is enabled")
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port must be between 1 and 65535, got %d", c.API.Port)
	}
	return nil
}

// GetRequestTimeout returns the August API request timeout as a Duration.
func (c *AugustConfig) GetRequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// GetCommandTimeout returns the remote operation timeout as a Duration.
func (c *AugustConfig) GetCommandTimeout() time.Duration {
	return time.Duration(c.CommandTimeout) * time.Second
}

// GetInterval returns the polling interval as a Duration.
func (c *PollConfig) GetInterval() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

// GetReadTimeout returns the HTTP read timeout as a Duration.
func (c *APIConfig) GetReadTimeout() time.Duration {
	return time.Duration(c.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the HTTP write timeout as a Duration.
func (c *APIConfig) GetWriteTimeout() time.Duration {
	return time.Duration(c.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the HTTP idle timeout as a Duration.
func (c *APIConfig) GetIdleTimeout() time.Duration {
	return time.Duration(c.Timeouts.Idle) * time.Second
}
