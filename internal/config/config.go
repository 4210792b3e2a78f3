package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all configuration for the application
type Config struct {
	Environment string

	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	AI        AIConfig
	Pexels    PexelsConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database-related configuration.
// URL wins over the individual parts when both are set.
type DatabaseConfig struct {
	URL            string
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConns       int32
	MinConns       int32
	MaxLifetime    time.Duration
	ConnTimeout    time.Duration
	QueryTimeout   time.Duration
	SimpleProtocol bool
}

// AuthConfig holds identity provider configuration
type AuthConfig struct {
	FirebaseProjectID string
	SecretKey         string
	AccessTokenTTL    time.Duration
	GoogleClientID    string
	GoogleSecret      string
}

// AIConfig holds generative model configuration
type AIConfig struct {
	GeminiAPIKey         string
	ChatModel            string
	ItineraryModel       string
	ItineraryTemperature float32
	ChatProvider         string
	OpenAIAPIKey         string
	AnthropicAPIKey      string
	OllamaHost           string
	Timeout              time.Duration
}

// PexelsConfig holds photo search configuration
type PexelsConfig struct {
	APIKey          string
	BaseURL         string
	PerPage         int
	CacheTTL        time.Duration
	Timeout         time.Duration
	RequestsPerHour int
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	PerMinute int
	Window    time.Duration
	Backend   string
	RedisURL  string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string
	File  string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			slog.Warn(".env file not found", "error", err)
		}
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// FromEnv builds a Config from the current process environment without validation.
func FromEnv() *Config {
	env := strings.ToLower(getEnv("ENVIRONMENT", EnvDevelopment))

	defaultOrigins := []string{"http://localhost:3000", "http://localhost:8080", "http://localhost:8000"}
	if env != EnvDevelopment {
		defaultOrigins = nil
	}

	return &Config{
		Environment: env,
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8000"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 90*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", ""),
			Name:           getEnv("DB_NAME", "wanderai"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxConns:       getInt32Env("DB_MAX_CONNS", 10),
			MinConns:       getInt32Env("DB_MIN_CONNS", 0),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", time.Hour),
			ConnTimeout:    getDurationEnv("DB_CONN_TIMEOUT", 10*time.Second),
			QueryTimeout:   getDurationEnv("DB_QUERY_TIMEOUT", 30*time.Second),
			SimpleProtocol: getBoolEnv("DB_SIMPLE_PROTOCOL", false),
		},
		Auth: AuthConfig{
			FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
			SecretKey:         getEnv("SECRET_KEY", ""),
			AccessTokenTTL:    time.Duration(getIntEnv("ACCESS_TOKEN_EXPIRE_MINUTES", 60)) * time.Minute,
			GoogleClientID:    getEnv("GOOGLE_CLIENT_ID", ""),
			GoogleSecret:      getEnv("GOOGLE_CLIENT_SECRET", ""),
		},
		AI: AIConfig{
			GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
			ChatModel:            getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			ItineraryModel:       getEnv("ITINERARY_MODEL", "gemini-2.0-flash"),
			ItineraryTemperature: float32(getFloatEnv("ITINERARY_TEMPERATURE", 0.7)),
			ChatProvider:         strings.ToLower(getEnv("CHAT_PROVIDER", "googleai")),
			OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
			AnthropicAPIKey:      getEnv("ANTHROPIC_API_KEY", ""),
			OllamaHost:           getEnv("OLLAMA_HOST", "http://localhost:11434"),
			Timeout:              getDurationEnv("AI_TIMEOUT", 60*time.Second),
		},
		Pexels: PexelsConfig{
			APIKey:          getEnv("PEXELS_API_KEY", ""),
			BaseURL:         strings.TrimRight(getEnv("PEXELS_BASE_URL", "https://api.pexels.com/v1"), "/"),
			PerPage:         getIntEnv("PEXELS_PHOTOS_PER_PAGE", 1),
			CacheTTL:        time.Duration(getIntEnv("PEXELS_CACHE_TTL", 86400)) * time.Second,
			Timeout:         getDurationEnv("PEXELS_TIMEOUT", 10*time.Second),
			RequestsPerHour: getIntEnv("PEXELS_REQUESTS_PER_HOUR", 200),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getIntEnv("RATE_LIMIT_PER_MINUTE", 100),
			Window:    getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
			Backend:   strings.ToLower(getEnv("RATE_LIMIT_BACKEND", "memory")),
			RedisURL:  getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getStringSliceEnv("CORS_ORIGINS", defaultOrigins),
			AllowedMethods:   getStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"*"}),
			AllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}
}

// Validate checks required settings. Production refuses to start with missing secrets;
// other environments only warn.
func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" && c.Database.Password == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Auth.SecretKey == "" {
		missing = append(missing, "SECRET_KEY")
	}
	if c.Auth.FirebaseProjectID == "" {
		missing = append(missing, "FIREBASE_PROJECT_ID")
	}
	if c.AI.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}

	if c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimit.PerMinute)
	}
	switch c.RateLimit.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("RATE_LIMIT_BACKEND must be memory or redis, got %q", c.RateLimit.Backend)
	}

	if len(missing) == 0 {
		return nil
	}
	if c.IsProduction() {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	slog.Warn("configuration incomplete, some features are disabled", "missing", strings.Join(missing, ","))
	if c.Pexels.APIKey == "" {
		slog.Warn("PEXELS_API_KEY not configured, trips will be created without images")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&connect_timeout=%d",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
		int(c.Database.ConnTimeout.Seconds()),
	)
}

// IsGoogleOAuthConfigured checks if Google sign-in tokens can be verified
func (c *Config) IsGoogleOAuthConfigured() bool {
	return c.Auth.GoogleClientID != ""
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt32Env(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intValue)
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return defaultValue
	}
	return parts
}
