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
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

// RoleCredentials holds the database principal for one application role.
// Each role authenticates to PostgreSQL as its own least-privilege user.
type RoleCredentials struct {
	User     string
	Password string
}

type DatabaseConfig struct {
	Host    string
	Port    string
	DBName  string
	SSLMode string

	// Per-role principals. "Auth" is the generic principal used before a
	// caller has proven a role (registration, login).
	Auth          RoleCredentials
	Consumer      RoleCredentials
	Vendor        RoleCredentials
	Administrator RoleCredentials

	MaxOpenConns int
	PoolTimeout  time.Duration
}

type JWTConfig struct {
	Secret      string
	TokenExpiry time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:    getEnv("DB_HOST", "localhost"),
			Port:    getEnv("DB_PORT", "5432"),
			DBName:  getEnv("DB_NAME", "menuca"),
			SSLMode: getEnv("DB_SSLMODE", "disable"),
			Auth: RoleCredentials{
				User:     getEnv("DB_AUTH_USER", "menuca_auth"),
				Password: getEnv("DB_AUTH_PASSWORD", "menuca_auth"),
			},
			Consumer: RoleCredentials{
				User:     getEnv("DB_CONSUMER_USER", "app_consumer"),
				Password: getEnv("DB_CONSUMER_PASSWORD", "app_consumer"),
			},
			Vendor: RoleCredentials{
				User:     getEnv("DB_VENDOR_USER", "app_vendor"),
				Password: getEnv("DB_VENDOR_PASSWORD", "app_vendor"),
			},
			Administrator: RoleCredentials{
				User:     getEnv("DB_ADMIN_USER", "app_administrator"),
				Password: getEnv("DB_ADMIN_PASSWORD", "app_administrator"),
			},
			MaxOpenConns: parseInt(getEnv("DB_MAX_OPEN_CONNS", "10"), 10),
			PoolTimeout:  parseDuration(getEnv("DB_POOL_TIMEOUT", "5s"), 5*time.Second),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "your-secret-key"),
			TokenExpiry: parseDuration(getEnv("JWT_TOKEN_EXPIRY", "24h"), 24*time.Hour),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		},
	}

	return config, nil
}

// CredentialsFor resolves a role name to its database principal. The set of
// roles is closed; anything else is an error, never a fallback.
func (c *DatabaseConfig) CredentialsFor(role string) (RoleCredentials, error) {
	switch role {
	case "auth":
		return c.Auth, nil
	case "consumer":
		return c.Consumer, nil
	case "vendor":
		return c.Vendor, nil
	case "administrator":
		return c.Administrator, nil
	}
	return RoleCredentials{}, fmt.Errorf("no database credentials for role %q", role)
}

// DSN builds the connection string for one role principal.
func (c *DatabaseConfig) DSN(creds RoleCredentials) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, creds.User, creds.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
