package env

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	AppPort  string
	TZ       string
	LogLevel string
	Debug    bool

	// Public URL Twilio reaches us on; callback URLs and signatures are built from it.
	BaseURL string

	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
	TwilioAPIBaseURL  string
	CallTimeoutSec    int
	CallEntryPath     string // first webhook of an outbound call

	AITimeoutMs   int
	AIMaxAttempts int

	GeminiApiKey string
	GeminiModel  string

	OpenAIApiKey string
	OpenAIModel  string

	AnthropicApiKey string
	AnthropicModel  string

	SessionStore  string // memory | redis
	RedisURL      string
	SessionTTLSec int

	APIKeyTTLHours     int
	RequireAPIKey      bool
	APIRateLimitRPM    int
	KeyIssueMaxPerHour int

	DefaultLanguage    string
	SupportedLanguages []string

	ListenTimeoutSec int
	SpeechRate       string
	SpeechVolume     string
	SegmentPauseSec  int
	Voices           map[string]string

	CORSAllowedOrigins string

	OTELEndpoint string
	OTELEnabled  bool
}

func Load(envFile string) (*Config, error) {
	if envFile != "" {
		// A missing .env is fine; production injects the environment directly.
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	baseURL, err := requireEnv("BASE_URL")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("APP_PORT", "8080"),
		TZ:       getEnv("TZ", "Asia/Kolkata"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Debug:    getEnvBool("DEBUG", false),

		BaseURL: strings.TrimRight(baseURL, "/"),

		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		TwilioAPIBaseURL:  getEnv("TWILIO_API_BASE_URL", "https://api.twilio.com"),
		CallTimeoutSec:    getEnvInt("CALL_TIMEOUT_SEC", 30),
		CallEntryPath:     getEnv("CALL_ENTRY_PATH", "/voice"),

		AITimeoutMs:   getEnvInt("AI_TIMEOUT_MS", 8000),
		AIMaxAttempts: getEnvInt("AI_MAX_ATTEMPTS", 2),

		GeminiApiKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		OpenAIApiKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		AnthropicApiKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),

		SessionStore:  strings.ToLower(getEnv("SESSION_STORE", "memory")),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTLSec: getEnvInt("SESSION_TTL_SEC", 300),

		APIKeyTTLHours:     getEnvInt("API_KEY_TTL_HOURS", 24),
		RequireAPIKey:      getEnvBool("REQUIRE_API_KEY", true),
		APIRateLimitRPM:    getEnvInt("API_RATE_LIMIT_RPM", 60),
		KeyIssueMaxPerHour: getEnvInt("KEY_ISSUE_MAX_PER_HOUR", 10),

		DefaultLanguage:    getEnv("DEFAULT_LANGUAGE", "hi-IN"),
		SupportedLanguages: getEnvList("SUPPORTED_LANGUAGES", []string{"hi-IN", "mr-IN", "en-IN"}),

		ListenTimeoutSec: getEnvInt("LISTEN_TIMEOUT_SEC", 30),
		SpeechRate:       getEnv("SPEECH_RATE", "90%"),
		SpeechVolume:     getEnv("SPEECH_VOLUME", "loud"),
		SegmentPauseSec:  getEnvInt("SEGMENT_PAUSE_SEC", 1),
		Voices: map[string]string{
			"hi-IN": getEnv("VOICE_HI_IN", "Polly.Aditi"),
			"mr-IN": getEnv("VOICE_MR_IN", "Google.mr-IN-Standard-A"),
			"en-IN": getEnv("VOICE_EN_IN", "Polly.Aditi"),
		},

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),

		OTELEndpoint: getEnv("OTEL_ENDPOINT", ""),
		OTELEnabled:  getEnvBool("OTEL_ENABLED", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.TZ)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", cfg.TZ, err)
	}
	time.Local = loc

	return cfg, nil
}

// Validate checks the settings that would otherwise fail mid-call.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BASE_URL must be an absolute URL, got %q", c.BaseURL)
	}

	if len(c.SupportedLanguages) == 0 {
		return fmt.Errorf("SUPPORTED_LANGUAGES must not be empty")
	}
	found := false
	for _, lang := range c.SupportedLanguages {
		if lang == c.DefaultLanguage {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("DEFAULT_LANGUAGE %s is not in SUPPORTED_LANGUAGES", c.DefaultLanguage)
	}

	switch c.SessionStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("SESSION_STORE must be memory or redis, got %q", c.SessionStore)
	}

	if c.SessionTTLSec <= 0 {
		return fmt.Errorf("SESSION_TTL_SEC must be positive")
	}
	if c.APIKeyTTLHours <= 0 {
		return fmt.Errorf("API_KEY_TTL_HOURS must be positive")
	}
	switch c.CallEntryPath {
	case "/voice", "/voice/language-menu":
	default:
		return fmt.Errorf("CALL_ENTRY_PATH must be /voice or /voice/language-menu, got %q", c.CallEntryPath)
	}

	if c.CallTimeoutSec <= 0 {
		return fmt.Errorf("CALL_TIMEOUT_SEC must be positive")
	}
	if c.AIMaxAttempts <= 0 {
		c.AIMaxAttempts = 1
	}

	return nil
}

// SessionTTL is the expiry applied to language and history entries.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSec) * time.Second
}

// APIKeyTTL is how long an issued API key stays valid.
func (c *Config) APIKeyTTL() time.Duration {
	return time.Duration(c.APIKeyTTLHours) * time.Hour
}

// AITimeout bounds a single reply generation, fallbacks and retries included.
func (c *Config) AITimeout() time.Duration {
	if c.AITimeoutMs <= 0 {
		return 8 * time.Second
	}
	return time.Duration(c.AITimeoutMs) * time.Millisecond
}

func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return value, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(strValue)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
