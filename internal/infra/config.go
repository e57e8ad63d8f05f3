package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv  string
	Port    string
	Version string

	SerpAPIKey     string
	SerpAPIBaseURL string
	SearchTimeout  time.Duration
	SearchLimit    int

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	SystemPrompt  string
	ChatTimeout   time.Duration

	GeoIPDBPath    string
	DefaultCountry string
	FinalSlot      string
	Overshoot      float64

	CORSOrigins      []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. Provider keys may be absent: a missing SerpAPI key
// is reported per generation request, not at startup.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:  getEnv("APP_ENV", "development"),
		Port:    getEnv("PORT", "8080"),
		Version: getEnv("APP_VERSION", "0.4.0"),

		SerpAPIKey:     strings.TrimSpace(os.Getenv("SERPAPI_API_KEY")),
		SerpAPIBaseURL: getEnv("SERPAPI_BASE_URL", "https://serpapi.com"),
		SearchTimeout:  time.Second * time.Duration(getEnvInt("SEARCH_TIMEOUT_SECONDS", 20)),
		SearchLimit:    getEnvInt("SEARCH_RESULT_LIMIT", 20),

		OpenAIAPIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		SystemPrompt:  os.Getenv("SYSTEM_PROMPT"),
		ChatTimeout:   time.Second * time.Duration(getEnvInt("CHAT_TIMEOUT_SECONDS", 15)),

		GeoIPDBPath:    os.Getenv("GEOIP_DB_PATH"),
		DefaultCountry: getEnv("DEFAULT_COUNTRY", "NL"),
		FinalSlot:      getEnv("OUTFIT_FINAL_SLOT", "accessory"),
		Overshoot:      getEnvFloat("PRICE_OVERSHOOT", 1.10),

		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "*")),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.FinalSlot != "accessory" && cfg.FinalSlot != "belt" {
		cfg.FinalSlot = "accessory"
	}
	if cfg.Overshoot < 1 {
		cfg.Overshoot = 1.10
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
