package gerrit_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NDevTK/gerrit"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gerrit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
default_deadline: 2m
max_deadline: 10m
deadline_header: X-Deadline
`)
	cfg, err := gerrit.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DefaultDeadline != 2*time.Minute {
		t.Errorf("DefaultDeadline = %v, want 2m", cfg.DefaultDeadline)
	}
	if cfg.MaxDeadline != 10*time.Minute {
		t.Errorf("MaxDeadline = %v, want 10m", cfg.MaxDeadline)
	}
	if cfg.DeadlineHeader != "X-Deadline" {
		t.Errorf("DeadlineHeader = %q", cfg.DeadlineHeader)
	}
}

func TestLoadConfig_PartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "default_deadline: 30s\n")
	cfg, err := gerrit.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	def := gerrit.DefaultConfig()
	if cfg.DefaultDeadline != 30*time.Second {
		t.Errorf("DefaultDeadline = %v, want 30s", cfg.DefaultDeadline)
	}
	if cfg.MaxDeadline != def.MaxDeadline {
		t.Errorf("MaxDeadline = %v, want default %v", cfg.MaxDeadline, def.MaxDeadline)
	}
	if cfg.DeadlineHeader != def.DeadlineHeader {
		t.Errorf("DeadlineHeader = %q, want default %q", cfg.DeadlineHeader, def.DeadlineHeader)
	}
}

func TestLoadConfig_BadDuration(t *testing.T) {
	path := writeConfig(t, "default_deadline: tomorrow\n")
	_, err := gerrit.LoadConfig(path)
	if !errors.Is(err, gerrit.ErrBadDeadline) {
		t.Errorf("LoadConfig error = %v, want ErrBadDeadline", err)
	}
}

func TestLoadConfig_DefaultExceedsCeiling(t *testing.T) {
	path := writeConfig(t, "default_deadline: 20m\nmax_deadline: 10m\n")
	_, err := gerrit.LoadConfig(path)
	if !errors.Is(err, gerrit.ErrBadDeadline) {
		t.Errorf("LoadConfig error = %v, want ErrBadDeadline", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := gerrit.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	cfg.DefaultDeadline = -time.Second
	if err := cfg.Validate(); !errors.Is(err, gerrit.ErrBadDeadline) {
		t.Errorf("Validate = %v, want ErrBadDeadline", err)
	}
}
