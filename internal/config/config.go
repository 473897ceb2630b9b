// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	DocDB     DocDBConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	LLM       LLMConfig
	Search    SearchConfig
	Trial     TrialConfig
	CORS      CORSConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host    string
	Port    int
	GinMode string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds recommendation cache configuration.
type CacheConfig struct {
	Type     string
	Host     string
	Port     string
	Password string
	DB       int
	// TTL bounds how long a cached recommendation set stays valid.
	TTL time.Duration
}

// DocDBConfig holds conversation store configuration.
type DocDBConfig struct {
	Type     string
	URI      string
	Database string
}

// AuthConfig holds token verification configuration.
type AuthConfig struct {
	JWTSecret string
	// AnonymousPrefix marks token subjects that belong to trial sessions.
	AnonymousPrefix string
}

// RateLimitConfig holds fixed-window rate limiter configuration.
type RateLimitConfig struct {
	MaxRequests   int
	WindowSeconds int
}

// Window returns the window length as a duration.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// LLMConfig holds preference extraction configuration.
type LLMConfig struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	Timeout       time.Duration
	// ExtractionPolicy is "degrade" (search unfiltered on provider failure)
	// or "fail" (surface the error to the client).
	ExtractionPolicy string
}

// SearchConfig holds event search capability configuration.
type SearchConfig struct {
	URL     string
	Timeout time.Duration
}

// TrialConfig holds anonymous trial quota configuration.
type TrialConfig struct {
	Limit int
}

// CORSConfig holds CORS origin binding.
type CORSConfig struct {
	DomainName string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvAsInt("SERVER_PORT", 8080),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Cache: CacheConfig{
			Type:     getEnv("CACHE_TYPE", "redis"),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvAsInt("CACHE_TTL_HOURS", 6)) * time.Hour,
		},
		DocDB: DocDBConfig{
			Type:     getEnv("DOCDB_TYPE", "mongodb"),
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "eventscout"),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			AnonymousPrefix: getEnv("ANONYMOUS_ID_PREFIX", "user_"),
		},
		RateLimit: RateLimitConfig{
			MaxRequests:   getEnvAsInt("API_RATE_LIMIT_MAX", 10),
			WindowSeconds: getEnvAsInt("API_RATE_LIMIT_WINDOW", 60),
		},
		LLM: LLMConfig{
			OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
			OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout:          time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 20)) * time.Second,
			ExtractionPolicy: getEnv("EXTRACTION_FAILURE_POLICY", "degrade"),
		},
		Search: SearchConfig{
			URL:     getEnv("EVENT_SEARCH_URL", "http://localhost:8081"),
			Timeout: time.Duration(getEnvAsInt("EVENT_SEARCH_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Trial: TrialConfig{
			Limit: getEnvAsInt("TRIAL_LIMIT", 10),
		},
		CORS: CORSConfig{
			DomainName: getEnv("DOMAIN_NAME", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
