package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Presence provider names accepted in config.toml.
const (
	PresenceSimulated = "simulated"
	PresenceNone      = "none"
)

// Config represents the global ~/.localchat/config.toml.
type Config struct {
	DataDir            string   `toml:"data_dir"`
	AutosaveInterval   Duration `toml:"autosave_interval"`
	TypingIdle         Duration `toml:"typing_idle"`
	DisplayMessages    int      `toml:"display_messages"`
	MaxRecordBytes     int      `toml:"max_record_bytes"`
	MaxAttachmentBytes int64    `toml:"max_attachment_bytes"`
	Presence           string   `toml:"presence"`
	LogLevel           string   `toml:"log_level"`
}

// Default returns the built-in configuration. DataDir is left empty so the
// caller can resolve it against the user's home directory.
func Default() *Config {
	return &Config{
		AutosaveInterval:   Duration(30 * time.Second),
		TypingIdle:         Duration(time.Second),
		DisplayMessages:    100,
		MaxRecordBytes:     5 << 20,
		MaxAttachmentBytes: 2 << 20,
		Presence:           PresenceSimulated,
		LogLevel:           "info",
	}
}

// Load reads config from the given path on top of Default. Returns error if file missing.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if os.IsNotExist(err) {
		return Default(), nil
	}
	return nil, err
}

// Validate rejects values the rest of the application cannot work with.
func (c *Config) Validate() error {
	switch c.Presence {
	case PresenceSimulated, PresenceNone:
	default:
		return fmt.Errorf("invalid presence %q: must be %q or %q", c.Presence, PresenceSimulated, PresenceNone)
	}
	if c.AutosaveInterval <= 0 {
		return fmt.Errorf("autosave_interval must be positive")
	}
	if c.TypingIdle <= 0 {
		return fmt.Errorf("typing_idle must be positive")
	}
	if c.DisplayMessages <= 0 {
		return fmt.Errorf("display_messages must be positive")
	}
	if c.MaxRecordBytes <= 0 || c.MaxAttachmentBytes <= 0 {
		return fmt.Errorf("size limits must be positive")
	}
	return nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
