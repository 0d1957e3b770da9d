// Package config loads run settings and application settings.
package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds settings that are not part of a single run.
type AppConfig struct {
	Preview  PreviewConfig  `yaml:"preview"`
	Database DatabaseConfig `yaml:"database"`
	Output   OutputConfig   `yaml:"output"`
}

// PreviewConfig holds settings for the layout preview websocket.
type PreviewConfig struct {
	// Listen is the address the preview server binds to.
	Listen string `yaml:"listen"`

	// AllowedOrigins is a list of origins allowed to connect.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the largest client message accepted, in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`

	// FrameDelayMS spaces out placement frames so a viewer can watch the fill.
	FrameDelayMS int `yaml:"frame_delay_ms"`

	// MaxViewersPerIP caps concurrent viewers from one address. 0 means unlimited.
	MaxViewersPerIP int `yaml:"max_viewers_per_ip"`

	// MaxViewers caps concurrent viewers overall. 0 means unlimited.
	MaxViewers int `yaml:"max_viewers"`
}

// DatabaseConfig selects where finished runs are stored.
type DatabaseConfig struct {
	Driver     string         `yaml:"driver"` // sqlite or postgres
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

// PostgresConfig mirrors the connection fields for the postgres driver.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// OutputConfig controls where layouts are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// DefaultAppConfig returns an AppConfig with local-only defaults.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Preview: PreviewConfig{
			Listen:          "127.0.0.1:8087",
			AllowedOrigins:  []string{}, // Same-origin only
			MaxMessageSize:  1024,
			FrameDelayMS:    0,
			MaxViewersPerIP: 4,
			MaxViewers:      32,
		},
		Database: DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: "data/tilegen.db",
			Postgres: PostgresConfig{
				Host:    "localhost",
				Port:    5432,
				SSLMode: "disable",
			},
		},
		Output: OutputConfig{
			Dir: "out",
		},
	}
}

// LoadAppConfig loads application settings from a YAML file.
// A missing file yields the defaults.
func LoadAppConfig(path string) (*AppConfig, error) {
	config := DefaultAppConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultAppConfig(), &Error{File: path, Msg: "invalid YAML", Err: err}
	}

	return config, nil
}

// FrameDelay returns the configured delay between placement frames.
func (c *PreviewConfig) FrameDelay() time.Duration {
	return time.Duration(c.FrameDelayMS) * time.Millisecond
}

// IsOriginAllowed reports whether a browser origin may open the preview socket.
func (c *PreviewConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin compares the host part of origin with the request host.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // Non-browser clients send no Origin header
	}

	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
