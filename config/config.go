// Package config provides configuration management for the projecthub API.
// It handles loading and validation of configuration values from environment
// variables, with support for required variables, default values, and
// collective error reporting: every problem found while loading is gathered
// and returned as a single error so an operator can fix them all at once.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DatabaseConfig holds settings for the PostgreSQL connection pool.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxConns int
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// JWTSecret is the symmetric key used to sign and verify access tokens.
	JWTSecret string
	// AccessTokenTTL is how long an issued access token stays valid.
	AccessTokenTTL time.Duration
	// BcryptCost is the bcrypt work factor used when hashing passwords.
	BcryptCost int
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port  string
	Debug bool
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Database *DatabaseConfig
	Auth     *AuthConfig
	Server   *ServerConfig
}

// getRequiredEnv reads a required environment variable, appending to the
// errors slice when it is missing.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// getOptionalEnv reads an optional environment variable with a default.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getOptionalEnvInt reads an optional integer environment variable.
// The default is used when the variable is unset; a parse failure is
// collected as an error.
func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// getOptionalEnvDuration reads an optional duration environment variable.
// time.ParseDuration syntax, e.g. "30m" or "1h30m".
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// getOptionalEnvBool reads an optional boolean environment variable.
// Accepts the forms strconv.ParseBool accepts ("true", "1", "false", ...).
func getOptionalEnvBool(key string, defaultValue bool, errors *[]string) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueBool, err := strconv.ParseBool(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected boolean, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueBool
}

// clampPoolSize keeps the connection pool size within sane bounds.
func clampPoolSize(size int, varName string, errors *[]string) int {
	if size < 1 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) is less than minimum 1, clamping to 1", varName, size))
		return 1
	}
	if size > 100 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) is greater than maximum 100, clamping to 100", varName, size))
		return 100
	}
	return size
}

// clampBcryptCost keeps the bcrypt work factor within the range the
// library accepts. Costs below the library minimum would silently fall
// back to the default at hash time, so they are reported here instead.
func clampBcryptCost(cost int, errors *[]string) int {
	if cost < bcrypt.MinCost {
		*errors = append(*errors, fmt.Sprintf("BCRYPT_COST (%d) is below bcrypt minimum %d", cost, bcrypt.MinCost))
		return bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		*errors = append(*errors, fmt.Sprintf("BCRYPT_COST (%d) is above bcrypt maximum %d", cost, bcrypt.MaxCost))
		return bcrypt.DefaultCost
	}
	return cost
}

// LoadConfig creates and returns an AppConfig by reading and validating
// environment variables. It collects all errors encountered during loading
// and returns a single aggregated error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// Database configuration.
	dbUser := getRequiredEnv("DB_USER", &errors)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errors)
	dbName := getRequiredEnv("DB_NAME", &errors)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errors)
	maxConns := clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errors), "DB_POOL_SIZE", &errors)

	database := &DatabaseConfig{
		Host:     dbHost,
		Port:     dbPort,
		User:     dbUser,
		Password: dbPassword,
		DBName:   dbName,
		MaxConns: maxConns,
	}

	// Auth configuration. The JWT secret has no default: starting with a
	// guessable signing key would make every issued token forgeable.
	jwtSecret := getRequiredEnv("JWT_SECRET", &errors)
	accessTokenTTL := getOptionalEnvDuration("ACCESS_TOKEN_TTL", 30*time.Minute, &errors)
	bcryptCost := clampBcryptCost(getOptionalEnvInt("BCRYPT_COST", bcrypt.DefaultCost, &errors), &errors)

	auth := &AuthConfig{
		JWTSecret:      jwtSecret,
		AccessTokenTTL: accessTokenTTL,
		BcryptCost:     bcryptCost,
	}

	// Server configuration.
	server := &ServerConfig{
		Port:  getOptionalEnv("PORT", "8080"),
		Debug: getOptionalEnvBool("DEBUG", false, &errors),
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		Database: database,
		Auth:     auth,
		Server:   server,
	}, nil
}
