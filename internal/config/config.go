package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Gemini AI
	GeminiAPIKey      string
	GeminiTemperature float32
	DefaultModel      string

	// YouTube
	YouTubeAPIKey     string
	ScrapeDuration    bool
	IncludeTranscript bool

	// Output defaults
	DefaultLength   string
	DefaultFormat   string
	DefaultLanguage string

	// Timeouts
	RequestTimeout time.Duration
	HTTPTimeout    time.Duration

	// Logging
	Debug    bool
	LogLevel string
	LogFile  string

	// Server
	Port               string
	RateLimitPerMinute int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiTemperature:  getEnvAsFloatOrDefault("GEMINI_TEMPERATURE", 0.3),
		DefaultModel:       getEnvOrDefault("DEFAULT_MODEL", "gemini-2.0-flash"),
		YouTubeAPIKey:      os.Getenv("YOUTUBE_API_KEY"),
		ScrapeDuration:     getEnvAsBoolOrDefault("YOUTUBE_SCRAPE_DURATION", true),
		IncludeTranscript:  getEnvAsBoolOrDefault("INCLUDE_TRANSCRIPT", false),
		DefaultLength:      getEnvOrDefault("DEFAULT_SUMMARY_LENGTH", "normal"),
		DefaultFormat:      getEnvOrDefault("DEFAULT_OUTPUT_FORMAT", "text"),
		DefaultLanguage:    getEnvOrDefault("DEFAULT_LANGUAGE", "ja"),
		RequestTimeout:     time.Duration(getEnvAsIntOrDefault("REQUEST_TIMEOUT_SECONDS", 300)) * time.Second,
		HTTPTimeout:        time.Duration(getEnvAsIntOrDefault("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		Debug:              getEnvAsBoolOrDefault("DEBUG_MODE", false),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "warn"),
		LogFile:            os.Getenv("LOG_FILE"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RateLimitPerMinute: getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 30),
	}

	return cfg
}

// Validate reports settings the tool cannot run without.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set; add it to your environment or .env file")
	}
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float32) float32 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 32)
	if err != nil {
		return defaultVal
	}
	return float32(f)
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(strings.ToLower(val))
	if err != nil {
		return defaultVal
	}
	return b
}
