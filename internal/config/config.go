package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Agent    AgentConfig
	Stats    StatsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port        string
	ProjectName string
	APIPrefix   string
	Debug       bool
}

// DatabaseConfig holds settings for the catalog database.
type DatabaseConfig struct {
	URL string
}

// AgentConfig holds settings for the remote AI agent provider.
// Endpoint and AccessKey are deliberately not validated at startup:
// a missing value surfaces as a service-unavailable error on first
// use of the chat relay, not as a boot failure.
type AgentConfig struct {
	Endpoint  string
	AccessKey string
}

// StatsConfig holds scheduler-related settings.
type StatsConfig struct {
	CronSchedule string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getenvWithDefault("APP_PORT", "8080"),
			ProjectName: getenvWithDefault("PROJECT_NAME", "BirdNest API"),
			APIPrefix:   getenvWithDefault("API_PREFIX", "/api/v1"),
			Debug:       getenvBool("DEBUG", false),
		},
		Database: DatabaseConfig{
			URL: getenvWithDefault("DATABASE_URL", "birdnest.db"),
		},
		Agent: AgentConfig{
			Endpoint:  os.Getenv("AGENT_ENDPOINT"),
			AccessKey: os.Getenv("AGENT_ACCESS_KEY"),
		},
		Stats: StatsConfig{
			CronSchedule: getenvWithDefault("STATS_CRON_SCHEDULE", "0 0 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Server.APIPrefix == "" {
		return errors.New("API_PREFIX must not be empty")
	}

	if c.Database.URL == "" {
		return errors.New("DATABASE_URL must be provided")
	}

	if c.Stats.CronSchedule == "" {
		return errors.New("STATS_CRON_SCHEDULE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
