package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Classifier.Threshold != 0.4 {
		t.Errorf("expected default threshold 0.4, got %v", cfg.Classifier.Threshold)
	}
	if cfg.Source.ListenTimeout != 15*time.Second {
		t.Errorf("expected default listen timeout 15s, got %v", cfg.Source.ListenTimeout)
	}
	if cfg.Skills.TemperatureMin != 10 || cfg.Skills.TemperatureMax != 35 {
		t.Errorf("expected default temperature range 10-35, got %d-%d",
			cfg.Skills.TemperatureMin, cfg.Skills.TemperatureMax)
	}
	if len(cfg.Skills.Devices) == 0 {
		t.Error("expected default device registry, got none")
	}
	if _, ok := cfg.Skills.Devices["thermostat"]; !ok {
		t.Error("expected default registry to contain a thermostat")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "threshold zero",
			mutate:  func(c *Config) { c.Classifier.Threshold = 0 },
			wantErr: "threshold",
		},
		{
			name:    "threshold above one",
			mutate:  func(c *Config) { c.Classifier.Threshold = 1.5 },
			wantErr: "threshold",
		},
		{
			name:    "unknown classifier backend",
			mutate:  func(c *Config) { c.Classifier.Backend = "tarot" },
			wantErr: "classifier backend",
		},
		{
			name:    "unknown source backend",
			mutate:  func(c *Config) { c.Source.Backend = "telepathy" },
			wantErr: "source backend",
		},
		{
			name:    "inverted temperature range",
			mutate:  func(c *Config) { c.Skills.TemperatureMin = 40 },
			wantErr: "temperature range",
		},
		{
			name:    "zero listen timeout",
			mutate:  func(c *Config) { c.Source.ListenTimeout = 0 },
			wantErr: "listen_timeout",
		},
		{
			name: "unknown device kind",
			mutate: func(c *Config) {
				c.Skills.Devices["toaster"] = DeviceConfig{Kind: "appliance"}
			},
			wantErr: "unknown kind",
		},
		{
			name:    "empty reminders file",
			mutate:  func(c *Config) { c.Skills.RemindersFile = "" },
			wantErr: "reminders_file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolveEnvRef(t *testing.T) {
	t.Setenv("HEARTH_TEST_SECRET", "sesame")

	if got := resolveEnvRef("${HEARTH_TEST_SECRET}"); got != "sesame" {
		t.Errorf("expected env value, got %q", got)
	}
	if got := resolveEnvRef("${HEARTH_TEST_UNSET}"); got != "" {
		t.Errorf("expected empty string for unset var, got %q", got)
	}
	if got := resolveEnvRef("plain-value"); got != "plain-value" {
		t.Errorf("expected literal passthrough, got %q", got)
	}
}
