package config

import (
	"strings"
	"testing"

	"github.com/dgnsrekt/strikers-notifier/internal/notify"
)

func validConfig() Config {
	return Config{
		UpdateFrequency: 5,
		LockFile:        "/tmp/strikers-notifier.lock",
		Notify:          notify.DefaultConfig(),
		Logging:         LoggingConfig{Level: "info"},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected no error for valid config, got: %v", err)
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.UpdateFrequency = -1
	cfg.Logging.Level = "loud"
	cfg.Notify.Ntfy.Enabled = true

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	verrs, ok := err.(*ValidationErrors)
	if !ok {
		t.Fatalf("expected *ValidationErrors, got %T", err)
	}
	if len(verrs.Problems) != 3 {
		t.Errorf("expected 3 problems, got %d: %v", len(verrs.Problems), verrs.Problems)
	}

	msg := err.Error()
	for _, want := range []string{"update_frequency", "loud", "notify.ntfy.topic"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error should mention %q, got: %s", want, msg)
		}
	}
}

func TestValidate_EmptyLockFile(t *testing.T) {
	cfg := validConfig()
	cfg.LockFile = ""

	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "lock_file") {
		t.Errorf("expected lock_file error, got %v", err)
	}
}

func TestValidationErrors_HasErrors(t *testing.T) {
	errs := &ValidationErrors{}
	if errs.HasErrors() {
		t.Error("empty ValidationErrors should not have errors")
	}

	errs.add("update_frequency must be >= 1 second, got %d", 0)
	if !errs.HasErrors() {
		t.Error("ValidationErrors with a problem should have errors")
	}
}
