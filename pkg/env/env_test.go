package env

import (
	"testing"
)

func TestLoad_RequiresBaseURL(t *testing.T) {
	t.Setenv("BASE_URL", "")
	t.Setenv("TZ", "UTC")

	if _, err := Load(""); err == nil {
		t.Fatal("Load() expected error when BASE_URL is missing, got nil")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BASE_URL", "https://bot.example.com/")
	t.Setenv("TZ", "UTC")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BaseURL != "https://bot.example.com" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if cfg.DefaultLanguage != "hi-IN" {
		t.Errorf("DefaultLanguage = %q, want hi-IN", cfg.DefaultLanguage)
	}
	if len(cfg.SupportedLanguages) != 3 {
		t.Errorf("SupportedLanguages = %v, want 3 entries", cfg.SupportedLanguages)
	}
	if cfg.CallEntryPath != "/voice" {
		t.Errorf("CallEntryPath = %q, want /voice", cfg.CallEntryPath)
	}
	if cfg.SessionTTLSec != 300 {
		t.Errorf("SessionTTLSec = %d, want 300", cfg.SessionTTLSec)
	}
	if cfg.APIKeyTTLHours != 24 {
		t.Errorf("APIKeyTTLHours = %d, want 24", cfg.APIKeyTTLHours)
	}
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("GeminiModel = %q, want gemini-2.0-flash", cfg.GeminiModel)
	}
	if !cfg.RequireAPIKey {
		t.Error("RequireAPIKey = false, want true by default")
	}
	if cfg.SessionStore != "memory" {
		t.Errorf("SessionStore = %q, want memory", cfg.SessionStore)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			BaseURL:            "https://bot.example.com",
			DefaultLanguage:    "hi-IN",
			SupportedLanguages: []string{"hi-IN", "mr-IN", "en-IN"},
			SessionStore:       "memory",
			SessionTTLSec:      300,
			APIKeyTTLHours:     24,
			CallTimeoutSec:     30,
			CallEntryPath:      "/voice",
			AIMaxAttempts:      2,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}, wantErr: false},
		{name: "relative base url", mutate: func(c *Config) { c.BaseURL = "/voice" }, wantErr: true},
		{name: "default not supported", mutate: func(c *Config) { c.DefaultLanguage = "ta-IN" }, wantErr: true},
		{name: "unknown store", mutate: func(c *Config) { c.SessionStore = "memcached" }, wantErr: true},
		{name: "zero session ttl", mutate: func(c *Config) { c.SessionTTLSec = 0 }, wantErr: true},
		{name: "language menu entry", mutate: func(c *Config) { c.CallEntryPath = "/voice/language-menu" }, wantErr: false},
		{name: "unrouted entry path", mutate: func(c *Config) { c.CallEntryPath = "/hello" }, wantErr: true},
		{name: "no supported languages", mutate: func(c *Config) { c.SupportedLanguages = nil }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("TEST_LIST", " hi-IN , en-IN,, ")
	got := getEnvList("TEST_LIST", nil)
	if len(got) != 2 || got[0] != "hi-IN" || got[1] != "en-IN" {
		t.Errorf("getEnvList() = %v, want [hi-IN en-IN]", got)
	}
}
