package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// It is built once at startup and passed by pointer; nothing mutates it afterwards.
type Config struct {
	AppMode        string
	Port           string
	ProxyHeader    string
	AllowedOrigins string
	MessagesFile   string
	SwaggerEnabled bool
	Database       DatabaseConfig
	JWT            JWTConfig
	Cookie         CookieConfig
	RateLimit      RateLimitConfig
	Log            LogConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds token issuing configuration
type JWTConfig struct {
	Issuer             string
	Audience           string
	Key                string
	AccessTokenMinutes int
	RefreshTokenDays   int
}

// CookieConfig holds refresh cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// RateLimitConfig holds the per-IP fixed window settings
type RateLimitConfig struct {
	PermitLimit     int
	WindowMinutes   int
	QueueLimit      int
	AuthPermitLimit int
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  slog.Level
	Format string
}

// Load reads configuration from an optional .env file and environment variables
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	// Ignore a missing file, production passes real environment variables
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	jwtCfg, err := loadJWTConfig(appMode)
	if err != nil {
		return nil, err
	}
	rateCfg, err := loadRateLimitConfig()
	if err != nil {
		return nil, err
	}
	logCfg, err := loadLogConfig(appMode)
	if err != nil {
		return nil, err
	}
	swagger, err := getEnvBool("SWAGGER_ENABLED", appMode == "dev")
	if err != nil {
		return nil, err
	}
	cookieCfg, err := loadCookieConfig(appMode)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppMode:        appMode,
		Port:           getEnv("PORT", "3000"),
		ProxyHeader:    strings.TrimSpace(getEnv("PROXY_HEADER", "")),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),
		MessagesFile:   getEnv("MESSAGES_FILE", "configs/messages.yaml"),
		SwaggerEnabled: swagger,
		Database:       loadDatabaseConfig(appMode),
		JWT:            jwtCfg,
		Cookie:         cookieCfg,
		RateLimit:      rateCfg,
		Log:            logCfg,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail later at runtime
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Key) == "" {
		return errors.New("JWT_KEY is required")
	}
	if c.JWT.Issuer == "" || c.JWT.Audience == "" {
		return errors.New("JWT_ISSUER and JWT_AUDIENCE are required")
	}
	if c.JWT.AccessTokenMinutes <= 0 {
		return errors.New("ACCESS_TOKEN_MINUTES must be greater than zero")
	}
	if c.JWT.RefreshTokenDays <= 0 {
		return errors.New("REFRESH_TOKEN_DAYS must be greater than zero")
	}
	if c.RateLimit.PermitLimit <= 0 || c.RateLimit.AuthPermitLimit <= 0 {
		return errors.New("rate limit permits must be greater than zero")
	}
	if c.RateLimit.WindowMinutes <= 0 {
		return errors.New("RATE_LIMIT_WINDOW_MINUTES must be greater than zero")
	}
	// Credentialed CORS cannot be combined with a wildcard origin
	if c.IsProd() && (c.AllowedOrigins == "" || c.AllowedOrigins == "*") {
		return errors.New("ALLOWED_ORIGINS must list explicit origins in prod")
	}
	// The fixed window limiter rejects over-limit requests immediately
	if c.RateLimit.QueueLimit != 0 {
		return errors.New("RATE_LIMIT_QUEUE is not supported, set it to 0")
	}
	return nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "generator"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) (JWTConfig, error) {
	prefix := modePrefix(mode)

	accessMins, err := getEnvInt("ACCESS_TOKEN_MINUTES", 15)
	if err != nil {
		return JWTConfig{}, err
	}
	refreshDays, err := getEnvInt("REFRESH_TOKEN_DAYS", 7)
	if err != nil {
		return JWTConfig{}, err
	}

	return JWTConfig{
		Issuer:             getEnv("JWT_ISSUER", ""),
		Audience:           getEnv("JWT_AUDIENCE", ""),
		Key:                getEnv(prefix+"JWT_KEY", getEnv("JWT_KEY", "")),
		AccessTokenMinutes: accessMins,
		RefreshTokenDays:   refreshDays,
	}, nil
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) (CookieConfig, error) {
	prefix := modePrefix(mode)

	secure, err := getEnvBool(prefix+"COOKIE_SECURE", mode == "prod")
	if err != nil {
		return CookieConfig{}, err
	}

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}, nil
}

func loadRateLimitConfig() (RateLimitConfig, error) {
	var cfg RateLimitConfig
	var err error

	if cfg.PermitLimit, err = getEnvInt("RATE_LIMIT_PERMIT", 60); err != nil {
		return cfg, err
	}
	if cfg.WindowMinutes, err = getEnvInt("RATE_LIMIT_WINDOW_MINUTES", 1); err != nil {
		return cfg, err
	}
	if cfg.QueueLimit, err = getEnvInt("RATE_LIMIT_QUEUE", 0); err != nil {
		return cfg, err
	}
	if cfg.AuthPermitLimit, err = getEnvInt("AUTH_RATE_LIMIT_PERMIT", 5); err != nil {
		return cfg, err
	}
	if cfg.RedisDB, err = getEnvInt("RATE_LIMIT_REDIS_DB", 0); err != nil {
		return cfg, err
	}
	cfg.RedisAddr = getEnv("RATE_LIMIT_REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("RATE_LIMIT_REDIS_PASSWORD", "")
	return cfg, nil
}

func loadLogConfig(mode string) (LogConfig, error) {
	defaultFormat := "text"
	if mode == "prod" {
		defaultFormat = "json"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return LogConfig{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return LogConfig{
		Level:  level,
		Format: getEnv("LOG_FORMAT", defaultFormat),
	}, nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	if c.AllowedOrigins == "" {
		if c.IsDev() {
			return "*"
		}
		return ""
	}
	return c.AllowedOrigins
}
