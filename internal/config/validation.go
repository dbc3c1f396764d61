package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// ValidationErrors collects every problem found in a configuration
type ValidationErrors struct {
	Problems []string
}

// HasErrors returns true if any validation errors exist
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Problems) > 0
}

func (e *ValidationErrors) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// Error formats all validation errors into a clear message
func (e *ValidationErrors) Error() string {
	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, p := range e.Problems {
		sb.WriteString(fmt.Sprintf("  - %s\n", p))
	}
	return sb.String()
}

// Validate checks the settings needed to start monitoring.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	if c.UpdateFrequency < 1 {
		errs.add("update_frequency must be >= 1 second, got %d", c.UpdateFrequency)
	}
	if c.LockFile == "" {
		errs.add("lock_file must not be empty")
	}
	if c.Logging.Level != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
			errs.add("invalid logging.level %q", c.Logging.Level)
		}
	}
	if err := c.Notify.Validate(); err != nil {
		errs.add("%v", err)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
