package config

import (
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"gracedbinfo/internal/errors"
)

// DefaultServiceURL is the production GraceDB REST root.
const DefaultServiceURL = "https://gracedb.ligo.org/api/"

// Config represents the complete application configuration
type Config struct {
	GraceDB  GraceDBConfig
	LogLevel string `env:"LOG_LEVEL" envDefault:"INFO"`
}

// GraceDBConfig holds connection and credential settings for the event
// tracking service.
type GraceDBConfig struct {
	URL      string        `env:"GRACEDB_URL"` // DefaultServiceURL when unset
	Token    string        `env:"GRACEDB_TOKEN"`
	Username string        `env:"GRACEDB_USERNAME"`
	Password string        `env:"GRACEDB_PASSWORD"`
	CertFile string        `env:"X509_USER_CERT"`
	KeyFile  string        `env:"X509_USER_KEY"`
	Timeout  time.Duration `env:"GRACEDB_TIMEOUT" envDefault:"0s"`
}

// LoadEnv loads whichever of envFiles exist into the process environment and
// reports how many were found.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads .env files (when present) and the environment, then validates
// the result.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, errors.Wrap(err, "failed to load .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if cfg.GraceDB.URL == "" {
		cfg.GraceDB.URL = DefaultServiceURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// Validate checks the configuration for contradictory or unusable values
func (c *Config) Validate() error {
	return c.GraceDB.Validate()
}

// Validate checks the GraceDB settings
func (g *GraceDBConfig) Validate() error {
	u, err := url.Parse(g.URL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return errors.ConfigInvalid("GRACEDB_URL must be an absolute URL, got " + g.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.ConfigInvalid("GRACEDB_URL scheme must be http or https, got " + u.Scheme)
	}
	if g.Timeout < 0 {
		return errors.ConfigInvalid("GRACEDB_TIMEOUT cannot be negative")
	}
	if (g.Username == "") != (g.Password == "") {
		return errors.ConfigInvalid("GRACEDB_USERNAME and GRACEDB_PASSWORD must be set together")
	}
	if (g.CertFile == "") != (g.KeyFile == "") {
		return errors.ConfigInvalid("X509_USER_CERT and X509_USER_KEY must be set together")
	}
	return nil
}
