// Package config persists pepper's settings as JSON.
//
// A config.json in the current working directory takes precedence over
// ~/.pepper/config.json, which keeps docker deployments self-contained.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
)

// Webhook configures one notification endpoint for digest delivery.
type Webhook struct {
	URL    string            `json:"url"`
	Format string            `json:"format,omitempty"` // "slack", "telegram" or "custom"
	Extra  map[string]string `json:"extra,omitempty"`
}

type Config struct {
	HTTPBind           string    `json:"http_bind,omitempty"`
	HTTPTokens         []string  `json:"http_tokens,omitempty"`
	DatabasePath       string    `json:"database_path,omitempty"`
	GoogleOfficeURL    string    `json:"google_office_url,omitempty"`
	MicrosoftOfficeURL string    `json:"microsoft_office_url,omitempty"`
	PrimaryProvider    string    `json:"primary_provider,omitempty"`
	TracePolicy        string    `json:"trace_policy,omitempty"` // "test-only", "always" or "never"
	DigestSchedule     string    `json:"digest_schedule,omitempty"`
	DefaultUser        string    `json:"default_user,omitempty"`
	AnthropicAPIKey    string    `json:"anthropic_api_key,omitempty"`
	AnthropicBaseURL   string    `json:"anthropic_base_url,omitempty"`
	AssistantModel     string    `json:"assistant_model,omitempty"`
	Webhooks           []Webhook `json:"webhooks,omitempty"`
}

var ConfigPath string

func init() {
	pwd, _ := os.Getwd()
	projectConfig := filepath.Join(pwd, "config.json")
	if _, err := os.Stat(projectConfig); err == nil {
		ConfigPath = projectConfig
	} else {
		homeDir, _ := os.UserHomeDir()
		ConfigPath = filepath.Join(homeDir, ".pepper", "config.json")
	}
}

// LoadConfig reads ConfigPath. A missing file is an error; callers that can
// run on defaults should use LoadOrDefault.
func LoadConfig() (*Config, error) {
	data, err := os.ReadFile(ConfigPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()
	return &config, nil
}

// LoadOrDefault returns the stored config, or a default one when no config
// file exists yet.
func LoadOrDefault() *Config {
	config, err := LoadConfig()
	if err != nil {
		config = &Config{}
		config.applyDefaults()
	}
	return config
}

func SaveConfig(config *Config) error {
	data, err := json.MarshalIndent(config, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(ConfigPath)
	os.MkdirAll(dir, 0755)
	return os.WriteFile(ConfigPath, data, 0644)
}

func (c *Config) applyDefaults() {
	if c.HTTPBind == "" {
		c.HTTPBind = ":8000"
	}
	if c.DatabasePath == "" {
		homeDir, _ := os.UserHomeDir()
		c.DatabasePath = filepath.Join(homeDir, ".pepper", "pepper.db")
	}
	if c.GoogleOfficeURL == "" {
		c.GoogleOfficeURL = "http://pai-pai-google-office-1:8002"
	}
	if c.MicrosoftOfficeURL == "" {
		c.MicrosoftOfficeURL = "http://pai-pai-microsoft-office-1:8001"
	}
	if c.PrimaryProvider == "" {
		c.PrimaryProvider = "microsoft"
	}
	if c.TracePolicy == "" {
		c.TracePolicy = "test-only"
	}
	if c.DigestSchedule == "" {
		c.DigestSchedule = "0 8 * * *"
	}
	// Internal tools require a UUID user id, so the single-user default is
	// a fixed one rather than a name.
	if c.DefaultUser == "" {
		c.DefaultUser = "00000000-0000-0000-0000-000000000001"
	}
}

// settable maps `pepper config set` keys to their assignment. Tokens and
// webhooks are structured values and are edited in the file directly.
var settable = map[string]func(*Config, string) error{
	"http_bind":            func(c *Config, v string) error { c.HTTPBind = v; return nil },
	"database_path":        func(c *Config, v string) error { c.DatabasePath = v; return nil },
	"google_office_url":    func(c *Config, v string) error { c.GoogleOfficeURL = v; return nil },
	"microsoft_office_url": func(c *Config, v string) error { c.MicrosoftOfficeURL = v; return nil },
	"primary_provider": func(c *Config, v string) error {
		if v != "google" && v != "microsoft" {
			return fmt.Errorf("primary_provider must be \"google\" or \"microsoft\", got %q", v)
		}
		c.PrimaryProvider = v
		return nil
	},
	"trace_policy": func(c *Config, v string) error {
		switch v {
		case "test-only", "always", "never":
			c.TracePolicy = v
			return nil
		}
		return fmt.Errorf("trace_policy must be \"test-only\", \"always\" or \"never\", got %q", v)
	},
	"digest_schedule": func(c *Config, v string) error { c.DigestSchedule = v; return nil },
	"default_user": func(c *Config, v string) error {
		if _, err := uuid.Parse(v); err != nil {
			return fmt.Errorf("default_user must be a UUID, got %q", v)
		}
		c.DefaultUser = v
		return nil
	},
	"anthropic_api_key":  func(c *Config, v string) error { c.AnthropicAPIKey = v; return nil },
	"anthropic_base_url": func(c *Config, v string) error { c.AnthropicBaseURL = v; return nil },
	"assistant_model":    func(c *Config, v string) error { c.AssistantModel = v; return nil },
}

// Keys returns the keys accepted by SetValue, sorted.
func Keys() []string {
	keys := make([]string, 0, len(settable))
	for k := range settable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetValue assigns a single configuration value by key.
func (c *Config) SetValue(key, value string) error {
	set, ok := settable[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	return set(c, value)
}

// Value returns the current value for a settable key, for display.
func (c *Config) Value(key string) string {
	switch key {
	case "http_bind":
		return c.HTTPBind
	case "database_path":
		return c.DatabasePath
	case "google_office_url":
		return c.GoogleOfficeURL
	case "microsoft_office_url":
		return c.MicrosoftOfficeURL
	case "primary_provider":
		return c.PrimaryProvider
	case "trace_policy":
		return c.TracePolicy
	case "digest_schedule":
		return c.DigestSchedule
	case "default_user":
		return c.DefaultUser
	case "anthropic_api_key":
		if c.AnthropicAPIKey != "" {
			return "****"
		}
		return ""
	case "anthropic_base_url":
		return c.AnthropicBaseURL
	case "assistant_model":
		return c.AssistantModel
	}
	return ""
}
