// Package config loads the bot's connection and race settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// BotConfig is the root configuration for one bot process. Every field is
// optional; the Get* accessors supply defaults for anything left unset, so a
// partial file (or none at all) is valid.
type BotConfig struct {
	// Connection
	Host *string `json:"host,omitempty"`
	Port *int    `json:"port,omitempty"`

	// Identity
	Name *string `json:"name,omitempty"`
	Key  *string `json:"key,omitempty"`

	// Race selection. With no track set the bot joins the default quick race.
	Track    *string `json:"track,omitempty"`
	Password *string `json:"password,omitempty"`
	CarCount *int    `json:"car_count,omitempty"`

	// RecordPath is a sqlite file every tick is logged to. Empty disables recording.
	RecordPath *string `json:"record_path,omitempty"`
}

func ptrString(v string) *string { return &v }
func ptrInt(v int) *int          { return &v }

// EmptyBotConfig returns a BotConfig with all fields unset.
func EmptyBotConfig() *BotConfig {
	return &BotConfig{}
}

// LoadBotConfig loads a BotConfig from a JSON file and validates it.
func LoadBotConfig(path string) (*BotConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 64 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyBotConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the set values are usable.
func (c *BotConfig) Validate() error {
	if c.Port != nil && (*c.Port < 1 || *c.Port > 65535) {
		return fmt.Errorf("port must be between 1 and 65535, got %d", *c.Port)
	}
	if c.CarCount != nil && *c.CarCount < 1 {
		return fmt.Errorf("car_count must be positive, got %d", *c.CarCount)
	}
	if c.Name != nil && *c.Name == "" {
		return fmt.Errorf("name must not be empty")
	}
	return nil
}

// Merge overlays every field set in o onto c.
func (c *BotConfig) Merge(o *BotConfig) {
	if o == nil {
		return
	}
	if o.Host != nil {
		c.Host = o.Host
	}
	if o.Port != nil {
		c.Port = o.Port
	}
	if o.Name != nil {
		c.Name = o.Name
	}
	if o.Key != nil {
		c.Key = o.Key
	}
	if o.Track != nil {
		c.Track = o.Track
	}
	if o.Password != nil {
		c.Password = o.Password
	}
	if o.CarCount != nil {
		c.CarCount = o.CarCount
	}
	if o.RecordPath != nil {
		c.RecordPath = o.RecordPath
	}
}

// SetHost sets the server host.
func (c *BotConfig) SetHost(v string) { c.Host = ptrString(v) }

// SetPort sets the server port.
func (c *BotConfig) SetPort(v int) { c.Port = ptrInt(v) }

// SetName sets the bot name.
func (c *BotConfig) SetName(v string) { c.Name = ptrString(v) }

// SetKey sets the bot key.
func (c *BotConfig) SetKey(v string) { c.Key = ptrString(v) }

// GetHost returns the server host or the default.
func (c *BotConfig) GetHost() string {
	if c.Host == nil {
		return "localhost"
	}
	return *c.Host
}

// GetPort returns the server port or the default.
func (c *BotConfig) GetPort() int {
	if c.Port == nil {
		return 8091
	}
	return *c.Port
}

// GetName returns the bot name or the default.
func (c *BotConfig) GetName() string {
	if c.Name == nil {
		return "racebot"
	}
	return *c.Name
}

// GetKey returns the bot key, empty if unset.
func (c *BotConfig) GetKey() string {
	if c.Key == nil {
		return ""
	}
	return *c.Key
}

// GetTrack returns the requested track name, empty for the default race.
func (c *BotConfig) GetTrack() string {
	if c.Track == nil {
		return ""
	}
	return *c.Track
}

// GetPassword returns the race password, empty if unset.
func (c *BotConfig) GetPassword() string {
	if c.Password == nil {
		return ""
	}
	return *c.Password
}

// GetCarCount returns the number of cars to race against or the default.
func (c *BotConfig) GetCarCount() int {
	if c.CarCount == nil {
		return 1
	}
	return *c.CarCount
}

// GetRecordPath returns the sqlite recording path, empty when disabled.
func (c *BotConfig) GetRecordPath() string {
	if c.RecordPath == nil {
		return ""
	}
	return *c.RecordPath
}

// JoinsCustomRace reports whether the bot should send joinRace instead of join.
func (c *BotConfig) JoinsCustomRace() bool {
	return c.Track != nil || c.Password != nil || c.CarCount != nil
}
