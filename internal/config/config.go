package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	OpenAI  OpenAIConfig
	MongoDB MongoDBConfig
	SQLite  SQLiteConfig
	Email   EmailConfig
	Admin   AdminConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port        string
	Host        string
	Environment string // "development" exposes internal error details
	FrontendURL string // Allowed cross-origin front-end address
}

// IsDevelopment reports whether internal error details may be returned to callers
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development"
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string // Optional: for OpenAI-compatible gateways
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// MongoDBConfig holds MongoDB connection details
type MongoDBConfig struct {
	URI        string
	Username   string
	Password   string
	Host       string
	Port       string
	Database   string
	Collection string
	AuthSource string // Database to authenticate against (default: admin)
}

// Configured reports whether enough MongoDB settings are present to attempt a connection
func (m MongoDBConfig) Configured() bool {
	return m.URI != "" || m.Host != ""
}

// SQLiteConfig holds the embedded database location
type SQLiteConfig struct {
	Path string
}

// EmailConfig holds SendGrid email configuration
type EmailConfig struct {
	Enabled   bool
	APIKey    string
	FromEmail string
	FromName  string
}

// AdminConfig holds settings for the admin endpoints
type AdminConfig struct {
	JWTSecret string // Empty disables admin authentication
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "5000"),
			Host:        getEnv("HOST", "0.0.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5174"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			Temperature: getEnvFloat("OPENAI_TEMPERATURE", 0.7),
			MaxTokens:   getEnvInt("OPENAI_MAX_TOKENS", 500),
			Timeout:     time.Duration(getEnvInt("OPENAI_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:        getEnv("MONGODB_URI", ""),
			Username:   getEnv("MONGODB_USERNAME", ""),
			Password:   getEnv("MONGODB_PASSWORD", ""),
			Host:       getEnv("MONGODB_HOST", ""),
			Port:       getEnv("MONGODB_PORT", "27017"),
			Database:   getEnv("MONGODB_DATABASE", "smart-va"),
			Collection: getEnv("MONGODB_COLLECTION", "taskrequests"),
			AuthSource: getEnv("MONGODB_AUTH_SOURCE", "admin"),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", ""),
		},
		Email: EmailConfig{
			Enabled:   getEnvBool("EMAIL_ENABLED", false),
			APIKey:    getEnv("SENDGRID_API_KEY", ""),
			FromEmail: getEnv("FROM_EMAIL", ""),
			FromName:  getEnv("FROM_NAME", "Smart Virtual Assistant"),
		},
		Admin: AdminConfig{
			JWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		},
	}

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ValidateConfig validates that configuration values are consistent.
// Missing OpenAI or database settings are not errors: the service degrades
// to the rule-based extractor and the in-memory store.
func ValidateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if config.OpenAI.Timeout <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT_SECONDS must be positive")
	}
	if config.Email.Enabled && config.Email.APIKey != "" && config.Email.FromEmail == "" {
		return fmt.Errorf("FROM_EMAIL is required when EMAIL_ENABLED=true")
	}
	return nil
}

// Helper functions for environment variable access
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
