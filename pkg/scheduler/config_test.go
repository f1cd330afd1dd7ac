package scheduler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scheduler.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

const validConfig = `
surfaces:
  - id: review_modal
    enabled: true
    gates: [review_posted, cooldown]
    channels: [store_review]
    triggers: [session_start]

gates:
  - id: review_posted
    type: review_posted
    enabled: true
  - id: cooldown
    type: cooldown
    enabled: true
    parameters:
      schedule: [0.5, 1, 2]

channels:
  - id: store_review
    type: store_review
    enabled: true
`

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, validConfig)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(config.Surfaces) != 1 || len(config.Gates) != 2 || len(config.Channels) != 1 {
		t.Errorf("unexpected config shape: %+v", config)
	}
	if got := config.Surfaces[0].Triggers; len(got) != 1 || got[0] != "session_start" {
		t.Errorf("unexpected triggers: %v", got)
	}
}

func TestLoadConfig_EnvExpansion(t *testing.T) {
	t.Setenv("ADOPTION_THRESHOLD", "5")

	path := writeConfigFile(t, `
surfaces:
  - id: review_modal
    enabled: true
    gates: [feature_adoption]
    channels: [store_review]

gates:
  - id: feature_adoption
    type: feature_adoption
    enabled: true
    parameters:
      threshold: ${ADOPTION_THRESHOLD:3}

channels:
  - id: store_review
    type: store_review
    enabled: true
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := config.Gates[0].GetInt("threshold", 0); got != 5 {
		t.Errorf("expected expanded threshold 5, got %d", got)
	}
}

func TestLoadConfig_EnvExpansionDefault(t *testing.T) {
	path := writeConfigFile(t, `
surfaces:
  - id: review_modal
    enabled: true
    gates: [feature_adoption]
    channels: [store_review]

gates:
  - id: feature_adoption
    type: feature_adoption
    enabled: true
    parameters:
      threshold: ${UNSET_ADOPTION_THRESHOLD:3}

channels:
  - id: store_review
    type: store_review
    enabled: true
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := config.Gates[0].GetInt("threshold", 0); got != 3 {
		t.Errorf("expected default threshold 3, got %d", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "valid",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name: "duplicate gate ID",
			mutate: func(c *Config) {
				c.Gates = append(c.Gates, c.Gates[0])
			},
			wantErr: "duplicate gate ID",
		},
		{
			name: "duplicate channel ID",
			mutate: func(c *Config) {
				c.Channels = append(c.Channels, c.Channels[0])
			},
			wantErr: "duplicate channel ID",
		},
		{
			name: "surface references unknown gate",
			mutate: func(c *Config) {
				c.Surfaces[0].Gates = append(c.Surfaces[0].Gates, "nope")
			},
			wantErr: "unknown gate",
		},
		{
			name: "surface references unknown channel",
			mutate: func(c *Config) {
				c.Surfaces[0].Channels = []string{"nope"}
			},
			wantErr: "unknown channel",
		},
		{
			name: "surface without gates",
			mutate: func(c *Config) {
				c.Surfaces[0].Gates = nil
			},
			wantErr: "has no gates",
		},
		{
			name: "gate with empty type",
			mutate: func(c *Config) {
				c.Gates[0].Type = ""
			},
			wantErr: "empty type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, validConfig)
			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("failed to load base config: %v", err)
			}

			tt.mutate(config)
			err = config.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
