package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	AppName string
	Port    string

	LogLevel  string
	LogFormat string

	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string
	DBTimeZone  string

	// RedisURL empty means the list cache is kept in process memory.
	RedisURL     string
	ListCacheTTL time.Duration

	JWTSecret string
	JWTExpiry time.Duration
	JWTIssuer string

	// SessionIdleTimeout invalidates a token when no heartbeat arrived in time.
	SessionIdleTimeout time.Duration

	AllowedOrigins string

	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_NAME", "Resto Backoffice v1.0")
	v.SetDefault("PORT", "3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "pretty")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "backoffice")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_TIMEZONE", "Europe/Berlin")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("LIST_CACHE_TTL", "5m")
	v.SetDefault("JWT_SECRET", "your-super-secret-key-change-in-production")
	v.SetDefault("JWT_EXPIRY", "24h")
	v.SetDefault("JWT_ISSUER", "resto-backoffice")
	v.SetDefault("SESSION_IDLE_TIMEOUT", "5m")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("SEED_ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("SEED_ADMIN_PASSWORD", "admin123")
	v.AutomaticEnv()

	cfg := &Config{
		AppName:           v.GetString("APP_NAME"),
		Port:              v.GetString("PORT"),
		LogLevel:          strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:         strings.ToLower(v.GetString("LOG_FORMAT")),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		DBHost:            v.GetString("DB_HOST"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBName:            v.GetString("DB_NAME"),
		DBPort:            v.GetString("DB_PORT"),
		DBTimeZone:        v.GetString("DB_TIMEZONE"),
		RedisURL:          v.GetString("REDIS_URL"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTIssuer:         v.GetString("JWT_ISSUER"),
		AllowedOrigins:    v.GetString("ALLOWED_ORIGINS"),
		SeedAdminEmail:    v.GetString("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
	}

	var err error
	if cfg.ListCacheTTL, err = parseDuration(v, "LIST_CACHE_TTL"); err != nil {
		return nil, err
	}
	if cfg.JWTExpiry, err = parseDuration(v, "JWT_EXPIRY"); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTimeout, err = parseDuration(v, "SESSION_IDLE_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET must not be empty")
	}

	return cfg, nil
}

// DSN returns DATABASE_URL or a key/value DSN assembled from the DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBTimeZone,
	)
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return d, nil
}

// Location is the business time zone used for "today" and calendar views.
// Unknown zone names fall back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DBTimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
