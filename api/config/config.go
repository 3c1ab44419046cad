package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/joho/godotenv"
)

// AppConfig holds the global application configuration
var AppConfig *Config

// Config holds the application configuration
type Config struct {
	DatabaseURL        string
	SupabaseJWTSecret  string
	InstamojoAPIKey    string
	InstamojoAuthToken string
	// InstamojoSandbox selects the test.instamojo.com API when set to "true"
	InstamojoSandbox string
	// InstamojoSalt is the shared webhook secret. When empty, webhook MAC
	// verification is skipped entirely (unsigned webhooks are accepted).
	InstamojoSalt string
	// WebhookBaseURL is the public base URL the gateway calls back on
	WebhookBaseURL string
	// Server port
	HTTPPort string
}

// Sandbox reports whether the gateway should target the Instamojo sandbox.
func (c *Config) Sandbox() bool {
	return c.InstamojoSandbox == "true"
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{}

	// Try to load .env file from current directory and parent directories
	currentDir, _ := os.Getwd()
	for currentDir != "/" {
		// Check if .env file exists in current directory
		envPath := filepath.Join(currentDir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// Load .env file
			err = godotenv.Load(envPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load .env file: %v", err)
			}
			break
		}
		// Move up one directory
		currentDir = filepath.Dir(currentDir)
	}

	// Get required environment variables
	requiredVars := []struct {
		name     string
		envVar   string
		display  string
		required bool
	}{
		{"DatabaseURL", "DATABASE_URL", "Database URL", true},
		{"SupabaseJWTSecret", "SUPABASE_JWT_SECRET", "Supabase JWT Secret", true},
		{"InstamojoAPIKey", "INSTAMOJO_API_KEY", "Instamojo API Key", true},
		{"InstamojoAuthToken", "INSTAMOJO_AUTH_TOKEN", "Instamojo Auth Token", true},
		{"WebhookBaseURL", "WEBHOOK_BASE_URL", "Webhook Base URL", true},
		// Optional: sandbox flag and webhook salt
		{"InstamojoSandbox", "INSTAMOJO_IS_SANDBOX", "Instamojo Sandbox Flag", false},
		{"InstamojoSalt", "INSTAMOJO_SALT", "Instamojo Webhook Salt", false},
		// Optional server port
		{"HTTPPort", "PORT", "HTTP Port", false},
	}

	for _, v := range requiredVars {
		value := os.Getenv(v.envVar)
		if v.required && value == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", v.display)
		}
		configField := reflect.ValueOf(config).Elem().FieldByName(v.name)
		configField.SetString(value)
	}

	// Defaults
	if config.HTTPPort == "" {
		config.HTTPPort = "8080"
	}

	return config, nil
}
