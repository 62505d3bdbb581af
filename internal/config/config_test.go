package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestLoadConfig_SaveConfig_RoundTrip tests config persistence.
func TestLoadConfig_SaveConfig_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	origPath := ConfigPath
	ConfigPath = configPath
	defer func() { ConfigPath = origPath }()

	original := &Config{
		HTTPBind:        ":9000",
		HTTPTokens:      []string{"tok-1", "tok-2"},
		DatabasePath:    filepath.Join(tmpDir, "pepper.db"),
		PrimaryProvider: "google",
		TracePolicy:     "always",
		DefaultUser:     "1c9f0ac0-93f0-4f34-8452-9b3c95bb27a1",
		Webhooks: []Webhook{
			{URL: "https://hooks.slack.com/services/T00/B00/XXX", Format: "slack"},
		},
	}

	if err := SaveConfig(original); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.HTTPBind != original.HTTPBind {
		t.Errorf("HTTPBind = %q, want %q", loaded.HTTPBind, original.HTTPBind)
	}

	if len(loaded.HTTPTokens) != 2 || loaded.HTTPTokens[0] != "tok-1" {
		t.Errorf("HTTPTokens = %v, want %v", loaded.HTTPTokens, original.HTTPTokens)
	}

	if loaded.PrimaryProvider != "google" {
		t.Errorf("PrimaryProvider = %q, want %q", loaded.PrimaryProvider, "google")
	}

	if loaded.TracePolicy != "always" {
		t.Errorf("TracePolicy = %q, want %q", loaded.TracePolicy, "always")
	}

	if len(loaded.Webhooks) != 1 || loaded.Webhooks[0].Format != "slack" {
		t.Errorf("Webhooks = %v, want %v", loaded.Webhooks, original.Webhooks)
	}
}

// TestLoadConfig_AppliesDefaults tests that unset fields come back filled.
func TestLoadConfig_AppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	origPath := ConfigPath
	ConfigPath = configPath
	defer func() { ConfigPath = origPath }()

	if err := os.WriteFile(configPath, []byte(`{"http_tokens": ["t"]}`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.HTTPBind != ":8000" {
		t.Errorf("HTTPBind = %q, want %q", loaded.HTTPBind, ":8000")
	}

	if loaded.GoogleOfficeURL != "http://pai-pai-google-office-1:8002" {
		t.Errorf("GoogleOfficeURL = %q, want the docker default", loaded.GoogleOfficeURL)
	}

	if loaded.MicrosoftOfficeURL != "http://pai-pai-microsoft-office-1:8001" {
		t.Errorf("MicrosoftOfficeURL = %q, want the docker default", loaded.MicrosoftOfficeURL)
	}

	if loaded.PrimaryProvider != "microsoft" {
		t.Errorf("PrimaryProvider = %q, want %q", loaded.PrimaryProvider, "microsoft")
	}

	if loaded.TracePolicy != "test-only" {
		t.Errorf("TracePolicy = %q, want %q", loaded.TracePolicy, "test-only")
	}

	if loaded.DigestSchedule != "0 8 * * *" {
		t.Errorf("DigestSchedule = %q, want %q", loaded.DigestSchedule, "0 8 * * *")
	}

	if loaded.DefaultUser != "00000000-0000-0000-0000-000000000001" {
		t.Errorf("DefaultUser = %q, want the fixed single-user UUID", loaded.DefaultUser)
	}

	if !strings.HasSuffix(loaded.DatabasePath, filepath.Join(".pepper", "pepper.db")) {
		t.Errorf("DatabasePath = %q, want a ~/.pepper/pepper.db default", loaded.DatabasePath)
	}
}

// TestLoadOrDefault tests the fallback when no config file exists.
func TestLoadOrDefault(t *testing.T) {
	origPath := ConfigPath
	ConfigPath = filepath.Join(t.TempDir(), "missing", "config.json")
	defer func() { ConfigPath = origPath }()

	config := LoadOrDefault()
	if config == nil {
		t.Fatal("LoadOrDefault returned nil")
	}

	if config.PrimaryProvider != "microsoft" {
		t.Errorf("PrimaryProvider = %q, want %q", config.PrimaryProvider, "microsoft")
	}

	if len(config.HTTPTokens) != 0 {
		t.Errorf("HTTPTokens = %v, want empty", config.HTTPTokens)
	}

	if config.DefaultUser != "00000000-0000-0000-0000-000000000001" {
		t.Errorf("DefaultUser = %q, want the fixed single-user UUID", config.DefaultUser)
	}
}

// TestSetValue tests key validation and assignment.
func TestSetValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(*Config) bool
	}{
		{
			name:  "http_bind",
			key:   "http_bind",
			value: "127.0.0.1:8100",
			check: func(c *Config) bool { return c.HTTPBind == "127.0.0.1:8100" },
		},
		{
			name:  "primary_provider google",
			key:   "primary_provider",
			value: "google",
			check: func(c *Config) bool { return c.PrimaryProvider == "google" },
		},
		{
			name:    "primary_provider rejects unknown",
			key:     "primary_provider",
			value:   "yahoo",
			wantErr: true,
		},
		{
			name:  "trace_policy never",
			key:   "trace_policy",
			value: "never",
			check: func(c *Config) bool { return c.TracePolicy == "never" },
		},
		{
			name:    "trace_policy rejects unknown",
			key:     "trace_policy",
			value:   "sometimes",
			wantErr: true,
		},
		{
			name:  "default_user accepts a UUID",
			key:   "default_user",
			value: "1c9f0ac0-93f0-4f34-8452-9b3c95bb27a1",
			check: func(c *Config) bool { return c.DefaultUser == "1c9f0ac0-93f0-4f34-8452-9b3c95bb27a1" },
		},
		{
			name:    "default_user rejects a name",
			key:     "default_user",
			value:   "jan",
			wantErr: true,
		},
		{
			name:    "unknown key",
			key:     "frobnicate",
			value:   "x",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := config.SetValue(tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("SetValue failed: %v", err)
			}
			if !tt.check(config) {
				t.Errorf("SetValue(%q, %q) did not apply", tt.key, tt.value)
			}
		})
	}
}

// TestValue tests display values, including the API key mask.
func TestValue(t *testing.T) {
	config := &Config{
		PrimaryProvider: "google",
		AnthropicAPIKey: "sk-ant-secret",
	}

	if got := config.Value("primary_provider"); got != "google" {
		t.Errorf("Value(primary_provider) = %q, want %q", got, "google")
	}

	if got := config.Value("anthropic_api_key"); got != "****" {
		t.Errorf("Value(anthropic_api_key) = %q, want masked", got)
	}

	if got := config.Value("default_user"); got != "" {
		t.Errorf("Value(default_user) = %q, want empty", got)
	}
}

// TestKeys tests that every key returned by Keys is settable.
func TestKeys(t *testing.T) {
	keys := Keys()
	if len(keys) == 0 {
		t.Fatal("Keys returned nothing")
	}

	config := &Config{}
	for _, key := range keys {
		if key == "primary_provider" || key == "trace_policy" || key == "default_user" {
			continue // validated keys are covered in TestSetValue
		}
		if err := config.SetValue(key, "x"); err != nil {
			t.Errorf("SetValue(%q) failed: %v", key, err)
		}
	}
}
