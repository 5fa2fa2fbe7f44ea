package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FallbackJWTSecret is used when JWT_SECRET is not set. This mirrors the
// behavior the frontend team relies on for local development; serve logs a
// warning whenever it is in effect. Do not deploy with it.
const FallbackJWTSecret = "fallback-secret"

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Admin       AdminConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Email       EmailConfig
	Logging     LoggingConfig
	Environment string
}

type ServerConfig struct {
	Host    string
	Port    int
	BaseURL string
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
}

type AuthConfig struct {
	JWTSecret string
	JWTExpiry time.Duration
	// UsingFallbackSecret is true when JWT_SECRET was unset and the
	// documented weak default is in effect.
	UsingFallbackSecret bool
}

// AdminConfig holds the single administrative identity. The password is
// plaintext here and bcrypt-hashed once at startup; it is never persisted.
type AdminConfig struct {
	Username string
	Password string
}

type RateLimitConfig struct {
	// Login throttle: fixed window per client address.
	LoginMaxAttempts int
	LoginWindow      time.Duration
	// Global per-address request limiter.
	RequestsPerWindow int
	RequestWindow     time.Duration
	TrustedProxyCIDRs []string
}

type CORSConfig struct {
	AllowedOrigins  []string
	AllowAllOrigins bool
}

type EmailConfig struct {
	Enabled      bool
	ResendAPIKey string
	From         string
	// To receives contact form notifications.
	To string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvInt("SERVER_PORT", 5000),
			BaseURL: getEnv("SERVER_BASE_URL", "http://localhost:5000"),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConnections: getEnvInt("DATABASE_MAX_CONNECTIONS", 25),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			JWTExpiry: time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", "csquare2024"),
		},
		RateLimit: RateLimitConfig{
			LoginMaxAttempts:  getEnvInt("RATE_LIMIT_LOGIN_MAX", 10),
			LoginWindow:       time.Duration(getEnvInt("RATE_LIMIT_LOGIN_WINDOW_MINUTES", 15)) * time.Minute,
			RequestsPerWindow: getEnvInt("RATE_LIMIT_MAX_REQUESTS", 100),
			RequestWindow:     time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MINUTES", 15)) * time.Minute,
			TrustedProxyCIDRs: getEnvList("TRUSTED_PROXY_CIDRS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvListDefault("CORS_ORIGINS", []string{"http://localhost:5173"}),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("EMAIL_FROM", ""),
			To:           getEnv("EMAIL_TO", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if cfg.Database.URL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = FallbackJWTSecret
		cfg.Auth.UsingFallbackSecret = true
	}

	cfg.CORS.AllowAllOrigins = cfg.Environment == "development"
	cfg.Email.Enabled = cfg.Email.ResendAPIKey != "" && cfg.Email.From != "" && cfg.Email.To != ""

	return cfg, nil
}

// fileConfig is the YAML shape accepted by --config. Every field is
// optional; set fields override the environment-derived values.
type fileConfig struct {
	Server struct {
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"server"`
	Database struct {
		URL            string `yaml:"url"`
		MaxConnections int    `yaml:"max_connections"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret   string `yaml:"jwt_secret"`
		ExpiryHours int    `yaml:"expiry_hours"`
	} `yaml:"auth"`
	Admin struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"admin"`
	CORS struct {
		Origins []string `yaml:"origins"`
	} `yaml:"cors"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// ApplyFile overlays a YAML config file on top of cfg.
func ApplyFile(cfg Config, path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	if file.Server.Host != "" {
		cfg.Server.Host = file.Server.Host
	}
	if file.Server.Port != 0 {
		cfg.Server.Port = file.Server.Port
	}
	if file.Server.BaseURL != "" {
		cfg.Server.BaseURL = file.Server.BaseURL
	}
	if file.Database.URL != "" {
		cfg.Database.URL = file.Database.URL
	}
	if file.Database.MaxConnections != 0 {
		cfg.Database.MaxConnections = file.Database.MaxConnections
	}
	if file.Auth.JWTSecret != "" {
		cfg.Auth.JWTSecret = file.Auth.JWTSecret
		cfg.Auth.UsingFallbackSecret = false
	}
	if file.Auth.ExpiryHours != 0 {
		cfg.Auth.JWTExpiry = time.Duration(file.Auth.ExpiryHours) * time.Hour
	}
	if file.Admin.Username != "" {
		cfg.Admin.Username = file.Admin.Username
	}
	if file.Admin.Password != "" {
		cfg.Admin.Password = file.Admin.Password
	}
	if len(file.CORS.Origins) > 0 {
		cfg.CORS.AllowedOrigins = file.CORS.Origins
	}
	if file.Logging.Level != "" {
		cfg.Logging.Level = file.Logging.Level
	}
	if file.Logging.Format != "" {
		cfg.Logging.Format = file.Logging.Format
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string) []string {
	return getEnvListDefault(key, nil)
}

func getEnvListDefault(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
