package gracedb

import (
	"time"

	"gracedbinfo/internal/config"
)

// UserAgent identifies this tool to the service
const UserAgent = "gracedbinfo/1.0"

// ClientConfig holds connection settings for the GraceDB REST client
type ClientConfig struct {
	ServiceURL string        `json:"service_url"`
	Token      string        `json:"-"` // Bearer token (SciToken)
	Username   string        `json:"username,omitempty"`
	Password   string        `json:"-"`
	CertFile   string        `json:"cert_file,omitempty"` // X.509 client certificate
	KeyFile    string        `json:"key_file,omitempty"`
	Timeout    time.Duration `json:"timeout"` // 0 means no timeout
	UserAgent  string        `json:"user_agent"`
}

// DefaultClientConfig points at production GraceDB with no credentials
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ServiceURL: config.DefaultServiceURL,
		UserAgent:  UserAgent,
	}
}

// ClientConfigFrom converts the application configuration
func ClientConfigFrom(cfg config.GraceDBConfig) ClientConfig {
	c := DefaultClientConfig()
	if cfg.URL != "" {
		c.ServiceURL = cfg.URL
	}
	c.Token = cfg.Token
	c.Username = cfg.Username
	c.Password = cfg.Password
	c.CertFile = cfg.CertFile
	c.KeyFile = cfg.KeyFile
	c.Timeout = cfg.Timeout
	return c
}

// AuthMethod names the credential the client will present
func (c ClientConfig) AuthMethod() string {
	switch {
	case c.Token != "":
		return "bearer"
	case c.Username != "":
		return "basic"
	case c.CertFile != "":
		return "x509"
	default:
		return "none"
	}
}
