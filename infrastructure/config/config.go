package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion string
	// DynamoDBEndpoint switches the store to a local DynamoDB when set;
	// empty means the real AWS endpoint. Same code path either way.
	DynamoDBEndpoint string
	StudentsTable    string
	TeachersTable    string
	GamesTable       string
	EventBusName     string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Logging and features
	LogLevel      string
	EnableMetrics bool
	EnableEvents  bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:        getEnv("AWS_REGION", "ap-east-1"),
		DynamoDBEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),
		StudentsTable:    getEnv("STUDENTS_TABLE", "schoolhub-students"),
		TeachersTable:    getEnv("TEACHERS_TABLE", "schoolhub-teachers"),
		GamesTable:       getEnv("GAMES_TABLE", "schoolhub-games"),
		EventBusName:     getEnv("EVENT_BUS_NAME", "schoolhub-events"),

		JWTSecret: getEnv("JWT_SECRET", "development-secret-change-in-production"),
		JWTIssuer: getEnv("JWT_ISSUER", "schoolhub-backend"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableEvents:  getEnvBool("ENABLE_EVENTS", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.StudentsTable == "" || c.TeachersTable == "" || c.GamesTable == "" {
		return fmt.Errorf("all three table names are required")
	}
	if c.IsProduction() {
		if c.JWTSecret == "" || c.JWTSecret == "development-secret-change-in-production" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
