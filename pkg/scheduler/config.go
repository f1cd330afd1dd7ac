package scheduler

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/webrexstudio/review-engagement/pkg/channel"
	"github.com/webrexstudio/review-engagement/pkg/gate"
)

// Config represents the complete scheduler configuration.
type Config struct {
	Surfaces []SurfaceConfig         `yaml:"surfaces"`
	Gates    []gate.GateConfig       `yaml:"gates"`
	Channels []channel.ChannelConfig `yaml:"channels"`
}

// SurfaceConfig declares one prompt surface: the gate chain it evaluates and
// the channel preference order it presents through.
type SurfaceConfig struct {
	ID           string   `yaml:"id"`
	Enabled      bool     `yaml:"enabled"`
	Gates        []string `yaml:"gates"`
	Channels     []string `yaml:"channels"`
	GrantsCredit bool     `yaml:"grants_credit,omitempty"`
	// Triggers lists the signal types that evaluate this surface
	// automatically (e.g. session_start).
	Triggers []string `yaml:"triggers,omitempty"`
}

// LoadConfig loads scheduler configuration from a YAML file.
// Supports environment variable expansion in the form ${VAR_NAME} or ${VAR_NAME:default}.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration for common errors.
func (c *Config) Validate() error {
	gateIDs := make(map[string]bool)
	for _, g := range c.Gates {
		if g.ID == "" {
			return fmt.Errorf("gate with empty ID found")
		}
		if gateIDs[g.ID] {
			return fmt.Errorf("duplicate gate ID: %s", g.ID)
		}
		gateIDs[g.ID] = true

		if g.Type == "" {
			return fmt.Errorf("gate %s has empty type", g.ID)
		}
	}

	channelIDs := make(map[string]bool)
	for _, ch := range c.Channels {
		if ch.ID == "" {
			return fmt.Errorf("channel with empty ID found")
		}
		if channelIDs[ch.ID] {
			return fmt.Errorf("duplicate channel ID: %s", ch.ID)
		}
		channelIDs[ch.ID] = true

		if ch.Type == "" {
			return fmt.Errorf("channel %s has empty type", ch.ID)
		}
	}

	surfaceIDs := make(map[string]bool)
	for _, s := range c.Surfaces {
		if s.ID == "" {
			return fmt.Errorf("surface with empty ID found")
		}
		if surfaceIDs[s.ID] {
			return fmt.Errorf("duplicate surface ID: %s", s.ID)
		}
		surfaceIDs[s.ID] = true

		if len(s.Gates) == 0 {
			return fmt.Errorf("surface %s has no gates", s.ID)
		}
		if len(s.Channels) == 0 {
			return fmt.Errorf("surface %s has no channels", s.ID)
		}

		for _, gateID := range s.Gates {
			if !gateIDs[gateID] {
				return fmt.Errorf("surface %s references unknown gate: %s", s.ID, gateID)
			}
		}
		for _, channelID := range s.Channels {
			if !channelIDs[channelID] {
				return fmt.Errorf("surface %s references unknown channel: %s", s.ID, channelID)
			}
		}
	}

	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		// Support ${VAR:default} syntax
		parts := strings.SplitN(key, ":", 2)
		varName := parts[0]
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}
