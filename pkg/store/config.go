package store

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces the store's environment variables (BALSAMCTL_DB_HOST
// and so on).
const EnvPrefix = "BALSAMCTL"

// Config holds the connection settings for the workflow store's PostgreSQL
// database.
type Config struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"balsam"`
	Password string `envconfig:"DB_PASSWORD"`
	Database string `envconfig:"DB_NAME" default:"balsam"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// LoadConfig reads connection settings from the environment, preloading a
// .env file when one exists in the working directory.
func LoadConfig() (*Config, error) {
	// A missing .env is fine; real deployments export the variables.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("loading store environment: %w", err)
	}
	return &cfg, nil
}

// DSN renders the config as a postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}
