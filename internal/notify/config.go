package notify

import (
	"errors"
	"fmt"
)

// Config selects and configures the notification transports.
type Config struct {
	Desktop DesktopConfig `mapstructure:"desktop"`
	Ntfy    NtfyConfig    `mapstructure:"ntfy"`
}

// DesktopConfig holds freedesktop notification settings.
type DesktopConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Summary   string `mapstructure:"summary"`
	Body      string `mapstructure:"body"`
	Icon      string `mapstructure:"icon"`
	AppName   string `mapstructure:"app_name"`
	TimeoutMs int    `mapstructure:"timeout_ms"` // -1 lets the server decide
}

// NtfyConfig holds ntfy push notification configuration.
type NtfyConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Server   string `mapstructure:"server"`   // ntfy server URL (default: https://ntfy.sh)
	Topic    string `mapstructure:"topic"`    // Topic name (required if enabled)
	Priority string `mapstructure:"priority"` // Message priority: min, low, default, high, urgent
	Tags     string `mapstructure:"tags"`     // Comma-separated emoji tags (e.g., "video_game,rotating_light")
	Token    string `mapstructure:"token"`    // Optional access token for private topics
}

// DefaultConfig returns desktop notifications with the stock message and ntfy disabled.
func DefaultConfig() Config {
	msg := DefaultMessage()
	return Config{
		Desktop: DesktopConfig{
			Enabled:   true,
			Summary:   msg.Summary,
			Body:      msg.Body,
			Icon:      msg.Icon,
			AppName:   msg.AppName,
			TimeoutMs: -1,
		},
		Ntfy: NtfyConfig{
			Server:   "https://ntfy.sh",
			Priority: "high",
			Tags:     "video_game",
		},
	}
}

// Message returns the notification content described by the desktop settings,
// falling back to the defaults for empty fields.
func (c Config) Message() Message {
	msg := DefaultMessage()
	if c.Desktop.Summary != "" {
		msg.Summary = c.Desktop.Summary
	}
	if c.Desktop.Body != "" {
		msg.Body = c.Desktop.Body
	}
	if c.Desktop.Icon != "" {
		msg.Icon = c.Desktop.Icon
	}
	if c.Desktop.AppName != "" {
		msg.AppName = c.Desktop.AppName
	}
	return msg
}

// Validate checks configuration is valid for the enabled transports.
func (c *Config) Validate() error {
	if !c.Ntfy.Enabled {
		return nil
	}

	if c.Ntfy.Topic == "" {
		return errors.New("notify.ntfy.topic is required when ntfy is enabled")
	}

	validPriorities := map[string]bool{
		"min": true, "low": true, "default": true, "high": true, "urgent": true,
	}
	if !validPriorities[c.Ntfy.Priority] {
		return fmt.Errorf("invalid notify.ntfy.priority: %s (valid: min, low, default, high, urgent)", c.Ntfy.Priority)
	}

	return nil
}
