package logger

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds logging configuration
type Config struct {
	Level          string `yaml:"level"`
	Format         string `yaml:"format"` // text or json, applies to stderr output
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
	FileFormat     string `yaml:"file_format"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
	FileCompress   bool   `yaml:"file_compress"`
}

// fileConfig is the on-disk layout: settings live under a logging key
type fileConfig struct {
	Logging Config `yaml:"logging"`
}

// DefaultConfig returns console-only logging at INFO
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		Format:         "text",
		FileEnabled:    false,
		FilePath:       "logs/tilegen.log",
		FileFormat:     "json",
		FileMaxSizeMB:  10,
		FileMaxBackups: 3,
		FileMaxAgeDays: 14,
	}
}

// LoadConfig reads logging settings from a YAML file and applies TILEGEN_LOG_*
// environment overrides. A missing or unreadable file leaves the defaults in place.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			var fc fileConfig
			if err := yaml.Unmarshal(data, &fc); err != nil {
				return config, err
			}
			config.merge(fc.Logging)
		}
	}

	config.applyEnv()
	return config, nil
}

// merge copies every field that is set in other
func (c *Config) merge(other Config) {
	if other.Level != "" {
		c.Level = other.Level
	}
	if other.Format != "" {
		c.Format = other.Format
	}
	c.FileEnabled = other.FileEnabled
	if other.FilePath != "" {
		c.FilePath = other.FilePath
	}
	if other.FileFormat != "" {
		c.FileFormat = other.FileFormat
	}
	if other.FileMaxSizeMB > 0 {
		c.FileMaxSizeMB = other.FileMaxSizeMB
	}
	if other.FileMaxBackups > 0 {
		c.FileMaxBackups = other.FileMaxBackups
	}
	if other.FileMaxAgeDays > 0 {
		c.FileMaxAgeDays = other.FileMaxAgeDays
	}
	c.FileCompress = other.FileCompress
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TILEGEN_LOG_LEVEL"); v != "" {
		c.Level = v
	}
	if v := os.Getenv("TILEGEN_LOG_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("TILEGEN_LOG_FILE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.FileEnabled = enabled
		}
	}
	if v := os.Getenv("TILEGEN_LOG_FILE_PATH"); v != "" {
		c.FilePath = v
	}
}
