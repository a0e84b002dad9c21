package gerrit

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds request deadline configuration for the host.
type Config struct {
	// DefaultDeadline is the server deadline applied when the client does
	// not supply one. Zero means no server-imposed default.
	DefaultDeadline time.Duration

	// MaxDeadline is the hard ceiling for any request, clamping
	// client-provided deadlines that exceed it. Zero means no ceiling.
	MaxDeadline time.Duration

	// DeadlineHeader is the request header carrying a client-provided
	// deadline as a Go duration string (e.g. "30s", "10m").
	DeadlineHeader string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultDeadline: 5 * time.Minute,
		MaxDeadline:     15 * time.Minute,
		DeadlineHeader:  "X-Request-Deadline",
	}
}

// UnmarshalYAML decodes durations from human-readable strings.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		DefaultDeadline string `yaml:"default_deadline"`
		MaxDeadline     string `yaml:"max_deadline"`
		DeadlineHeader  string `yaml:"deadline_header"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	*c = DefaultConfig()
	if raw.DeadlineHeader != "" {
		c.DeadlineHeader = raw.DeadlineHeader
	}
	if raw.DefaultDeadline != "" {
		d, err := time.ParseDuration(raw.DefaultDeadline)
		if err != nil {
			return fmt.Errorf("%w: default_deadline: %v", ErrBadDeadline, err)
		}
		c.DefaultDeadline = d
	}
	if raw.MaxDeadline != "" {
		d, err := time.ParseDuration(raw.MaxDeadline)
		if err != nil {
			return fmt.Errorf("%w: max_deadline: %v", ErrBadDeadline, err)
		}
		c.MaxDeadline = d
	}
	return c.Validate()
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.DefaultDeadline < 0 || c.MaxDeadline < 0 {
		return fmt.Errorf("%w: deadlines must not be negative", ErrBadDeadline)
	}
	if c.MaxDeadline > 0 && c.DefaultDeadline > c.MaxDeadline {
		return fmt.Errorf("%w: default_deadline exceeds max_deadline", ErrBadDeadline)
	}
	return nil
}

// LoadConfig reads a YAML configuration file from path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
