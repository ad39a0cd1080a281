package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// profile is the on-disk shape of a client profile. Durations are written as
// Go duration strings ("3s", "250ms").
type profile struct {
	Client struct {
		Endpoint       string `toml:"endpoint"`
		ReconnectDelay string `toml:"reconnect_delay"`
		Mode           string `toml:"mode"`
		WriteTimeout   string `toml:"write_timeout"`
	} `toml:"client"`
	Logging struct {
		Level       string `toml:"level"`
		Development *bool  `toml:"development"`
	} `toml:"logging"`
}

// LoadFile loads environment configuration and overlays the TOML profile at
// path. Keys absent from the file keep their environment or default value.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	if err := cfg.applyProfile(data); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyProfile(data []byte) error {
	var p profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return err
	}

	if p.Client.Endpoint != "" {
		c.Client.Endpoint = p.Client.Endpoint
	}
	if p.Client.Mode != "" {
		c.Client.Mode = p.Client.Mode
	}
	if err := overlayDuration(&c.Client.ReconnectDelay, p.Client.ReconnectDelay, "reconnect_delay"); err != nil {
		return err
	}
	if err := overlayDuration(&c.Client.WriteTimeout, p.Client.WriteTimeout, "write_timeout"); err != nil {
		return err
	}

	if p.Logging.Level != "" {
		c.Logging.Level = p.Logging.Level
	}
	if p.Logging.Development != nil {
		c.Logging.Development = *p.Logging.Development
	}
	return nil
}

func overlayDuration(dst *time.Duration, raw, key string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s: must be positive, got %s", key, raw)
	}
	*dst = d
	return nil
}
