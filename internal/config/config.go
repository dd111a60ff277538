// Package config loads the optional pagelift.json project configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pagelift-dev/pagelift/internal/errors"
)

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "pagelift.json"

// Defaults applied when the file is absent or fields are unset.
const (
	DefaultAddr        = ":8080"
	DefaultUploadDir   = "uploads"
	DefaultMaxFileSize = 10 << 20
)

// Config is the complete pagelift.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Server configures the demo server.
	Server ServerConfig `json:"server,omitempty"`

	// Upload configures temp attachment storage.
	Upload UploadConfig `json:"upload,omitempty"`

	// UI configures the enhancement layer.
	UI UIConfig `json:"ui,omitempty"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`
}

// UploadConfig configures attachment storage.
type UploadConfig struct {
	// Dir is the temp upload directory.
	Dir string `json:"dir,omitempty"`

	// MaxFileSize bounds individual uploads in bytes.
	MaxFileSize int64 `json:"max_file_size,omitempty"`
}

// UIConfig configures the enhancement layer.
type UIConfig struct {
	// NotificationMillis is how long notifications stay visible.
	NotificationMillis int `json:"notification_millis,omitempty"`

	// ScrollMillis is the scroll animation duration.
	ScrollMillis int `json:"scroll_millis,omitempty"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Server: ServerConfig{Addr: DefaultAddr},
		Upload: UploadConfig{
			Dir:         DefaultUploadDir,
			MaxFileSize: DefaultMaxFileSize,
		},
	}
}

// NotificationDuration returns the configured notification duration, or 0
// when unset (callers fall back to the package default).
func (c *Config) NotificationDuration() time.Duration {
	return time.Duration(c.UI.NotificationMillis) * time.Millisecond
}

// ScrollDuration returns the configured scroll duration, or 0 when unset.
func (c *Config) ScrollDuration() time.Duration {
	return time.Duration(c.UI.ScrollMillis) * time.Millisecond
}

// Load reads pagelift.json from dir. A missing file yields the defaults; a
// malformed file is a config error.
func Load(dir string) (*Config, error) {
	cfg := New()

	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.CategoryConfig, "read config", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.CategoryConfig, "parse "+ConfigFileName, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = DefaultUploadDir
	}
	if c.Upload.MaxFileSize == 0 {
		c.Upload.MaxFileSize = DefaultMaxFileSize
	}
}

// Save writes the configuration to dir as pagelift.json.
func (c *Config) Save(dir string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(errors.CategoryConfig, "encode config", err)
	}
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrap(errors.CategoryConfig, "write config", err)
	}
	return nil
}
