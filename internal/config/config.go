package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Session    SessionConfig
	GitHub     GitHubConfig
	GitLab     GitLabConfig
	Encryption EncryptionConfig
	Webhook    WebhookConfig
	Log        LogConfig
	Enrichment EnrichmentConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Host           string
	BaseURL        string
	AllowedOrigins []string
	ReadTimeout    int
	WriteTimeout   int
	IdleTimeout    int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver      string
	DSN         string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// SessionConfig holds session cookie and token configuration
type SessionConfig struct {
	Secret        string
	TTL           time.Duration
	SecureCookies bool
}

// GitHubConfig holds the GitHub OAuth application and API settings
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
	APIURL       string
}

// GitLabConfig holds the GitLab OAuth application settings
type GitLabConfig struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
	URL          string
}

// EncryptionConfig holds the key used to encrypt tokens at rest
type EncryptionConfig struct {
	Key string
}

// WebhookConfig holds the push webhook target registered on repositories
type WebhookConfig struct {
	URL    string
	Secret string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// EnrichmentConfig bounds the last-commit enrichment driver. RenderBudget
// caps how long a page waits for commits before it renders.
type EnrichmentConfig struct {
	GroupSize    int
	MaxAttempts  int
	FetchTimeout time.Duration
	RenderBudget time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	config := load()

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadDatabase loads only the database configuration. It is used by
// tooling that does not need OAuth or session secrets.
func LoadDatabase() DatabaseConfig {
	return load().Database
}

func load() *Config {
	// .env file is optional
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			BaseURL:        strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", ",", []string{"http://localhost:8080"}),
			ReadTimeout:    getEnvAsInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout:   getEnvAsInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:    getEnvAsInt("SERVER_IDLE_TIMEOUT", 120),
		},
		Database: DatabaseConfig{
			Driver:      getEnv("DB_DRIVER", "sqlite3"),
			DSN:         getEnv("DB_DSN", "./data/gitaway.db"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Session: SessionConfig{
			Secret:        getEnv("SESSION_SECRET", ""),
			TTL:           getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
			SecureCookies: getEnvAsBool("SESSION_SECURE_COOKIES", false),
		},
		GitHub: GitHubConfig{
			ClientID:     getEnv("GITHUB_CLIENT_ID", ""),
			ClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
			Scopes:       getEnvAsSlice("GITHUB_SCOPES", ",", []string{"repo", "admin:repo_hook", "read:user", "user:email"}),
			APIURL:       getEnv("GITHUB_API_URL", ""),
		},
		GitLab: GitLabConfig{
			ClientID:     getEnv("GITLAB_CLIENT_ID", ""),
			ClientSecret: getEnv("GITLAB_CLIENT_SECRET", ""),
			Scopes:       getEnvAsSlice("GITLAB_SCOPES", ",", []string{"read_user", "api"}),
			URL:          strings.TrimRight(getEnv("GITLAB_URL", "https://gitlab.com"), "/"),
		},
		Encryption: EncryptionConfig{
			Key: getEnv("ENCRYPTION_KEY", ""),
		},
		Webhook: WebhookConfig{
			URL:    getEnv("WEBHOOK_URL", ""),
			Secret: getEnv("WEBHOOK_SECRET", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Enrichment: EnrichmentConfig{
			GroupSize:    getEnvAsInt("ENRICH_GROUP_SIZE", 5),
			MaxAttempts:  getEnvAsInt("ENRICH_MAX_ATTEMPTS", 3),
			FetchTimeout: getEnvAsDuration("ENRICH_FETCH_TIMEOUT", 10*time.Second),
			RenderBudget: getEnvAsDuration("ENRICH_RENDER_BUDGET", 5*time.Second),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters")
	}
	if c.GitHub.ClientID == "" {
		return fmt.Errorf("GITHUB_CLIENT_ID is required")
	}
	if c.GitHub.ClientSecret == "" {
		return fmt.Errorf("GITHUB_CLIENT_SECRET is required")
	}
	if c.Encryption.Key == "" {
		return fmt.Errorf("ENCRYPTION_KEY is required")
	}
	key, err := base64.StdEncoding.DecodeString(c.Encryption.Key)
	if err != nil {
		return fmt.Errorf("ENCRYPTION_KEY must be base64: %w", err)
	}
	if len(key) != 32 {
		return fmt.Errorf("ENCRYPTION_KEY must decode to 32 bytes (got %d)", len(key))
	}
	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite3" {
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite3, got %q", c.Database.Driver)
	}
	if c.Enrichment.GroupSize < 1 {
		return fmt.Errorf("ENRICH_GROUP_SIZE must be positive")
	}
	if c.Enrichment.MaxAttempts < 1 {
		return fmt.Errorf("ENRICH_MAX_ATTEMPTS must be positive")
	}
	if c.Enrichment.RenderBudget <= 0 {
		return fmt.Errorf("ENRICH_RENDER_BUDGET must be positive")
	}
	if c.Enrichment.RenderBudget >= time.Duration(c.Server.WriteTimeout)*time.Second {
		return fmt.Errorf("ENRICH_RENDER_BUDGET must be shorter than SERVER_WRITE_TIMEOUT")
	}
	return nil
}

// GetServerAddress returns the server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// GitLabEnabled reports whether GitLab OAuth credentials are configured
func (c *Config) GitLabEnabled() bool {
	return c.GitLab.ClientID != "" && c.GitLab.ClientSecret != ""
}

// CallbackURL returns the OAuth redirect URL for a provider
func (c *Config) CallbackURL(provider string) string {
	return fmt.Sprintf("%s/api/auth/%s/callback", c.Server.BaseURL, provider)
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt gets an environment variable as integer with a fallback value
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getEnvAsBool gets an environment variable as boolean with a fallback value
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getEnvAsDuration gets an environment variable as a time.Duration with a fallback value
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvAsSlice gets an environment variable as slice with a fallback value
func getEnvAsSlice(key, separator string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, separator)
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				result = append(result, p)
			}
		}
		return result
	}
	return fallback
}
