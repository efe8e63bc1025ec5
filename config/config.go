package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Database (transcript persistence, optional)
	Database DatabaseConfig

	// Medical Q&A provider
	AI AIConfig

	// Booking confirmation email
	Email EmailConfig

	// Chat sessions
	Session SessionConfig

	// Security
	Security SecurityConfig
}

type DatabaseConfig struct {
	Enabled  bool
	URI      string
	Name     string
	Host     string
	Port     string
	Username string
	Password string

	// Connection pool settings
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
}

type AIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

type EmailConfig struct {
	Provider  string // "sendgrid" or "stub"
	APIKey    string
	FromEmail string
	FromName  string
}

type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	CookieName      string
}

type SecurityConfig struct {
	AllowedOrigins []string
}

var cfg *Config

// Load initializes the configuration
func Load() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg = &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", false),
			URI:      getEnv("DATABASE_URL", ""),
			Name:     getEnv("DB_NAME", "clinic_booking"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "27017"),
			Username: getEnv("DB_USERNAME", ""),
			Password: getEnv("DB_PASSWORD", ""),

			MaxConnections: getEnvAsInt("DB_MAX_CONNECTIONS", 100),
			MinConnections: getEnvAsInt("DB_MIN_CONNECTIONS", 10),
			MaxIdleTime:    getEnvAsDuration("DB_MAX_IDLE_TIME", "30m"),
		},

		AI: AIConfig{
			APIKey:    getEnv("GROQ_API_KEY", ""),
			BaseURL:   getEnv("GROQ_API_URL", "https://api.groq.com/openai/v1"),
			Model:     getEnv("AI_MODEL", "llama3-70b-8192"),
			MaxTokens: getEnvAsInt("AI_MAX_TOKENS", 150),
			Timeout:   getEnvAsDuration("AI_TIMEOUT", "30s"),
		},

		Email: EmailConfig{
			Provider:  getEnv("EMAIL_PROVIDER", "sendgrid"),
			APIKey:    getEnv("SENDGRID_API_KEY", ""),
			FromEmail: getEnv("EMAIL_FROM", "noreply@clinic.com"),
			FromName:  getEnv("EMAIL_FROM_NAME", "HealthCare Clinic"),
		},

		Session: SessionConfig{
			TTL:             getEnvAsDuration("SESSION_TTL", "30m"),
			CleanupInterval: getEnvAsDuration("SESSION_CLEANUP_INTERVAL", "5m"),
			CookieName:      getEnv("SESSION_COOKIE_NAME", "chat_session"),
		},

		Security: SecurityConfig{
			AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		},
	}

	// Validate configuration
	if err := validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return nil
}

// Get returns the loaded configuration
func Get() *Config {
	if cfg == nil {
		log.Fatal("Configuration not loaded. Call Load() first")
	}
	return cfg
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	// Simple comma-separated parsing
	return strings.Split(value, ",")
}

func validate() error {
	if cfg.Database.Enabled && cfg.Database.URI == "" {
		if cfg.Database.Host == "" || cfg.Database.Port == "" {
			return fmt.Errorf("database URI or host/port must be provided")
		}
	}

	if cfg.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	if cfg.Email.Provider != "sendgrid" && cfg.Email.Provider != "stub" {
		return fmt.Errorf("unsupported email provider: %s", cfg.Email.Provider)
	}

	return nil
}

// BuildDatabaseURI constructs the MongoDB URI if not provided
func (c *Config) BuildDatabaseURI() string {
	if c.Database.URI != "" {
		return c.Database.URI
	}

	if c.Database.Username != "" && c.Database.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s",
			c.Database.Username,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
		)
	}
	return fmt.Sprintf("mongodb://%s:%s/%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}
