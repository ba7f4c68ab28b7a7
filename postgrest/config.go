package postgrest

import (
	"fmt"
	"net/url"
	"time"

	"github.com/xy-planning-network/switchboard"
)

// Env vars read by NewConfigFromEnv.
const (
	baseURLEnvVar = "DATABASE_API_URL"
	apiKeyEnvVar  = "DATABASE_API_KEY"
	schemaEnvVar  = "DATABASE_API_SCHEMA"
	timeoutEnvVar = "DATABASE_API_TIMEOUT"
)

const defaultTimeout = 10 * time.Second

// Config holds the connection information a Client uses
// to reach the backing store's HTTP API.
type Config struct {
	// BaseURL is the root of the HTTP API, e.g. https://db.example.com/rest/v1.
	BaseURL string

	// APIKey accompanies every request in the apikey header.
	APIKey string

	// Schema selects a database schema other than the server's default.
	Schema string

	// Timeout bounds each HTTP request attempt.
	Timeout time.Duration
}

// NewConfigFromEnv constructs a Config from the DATABASE_API_* environment variables.
func NewConfigFromEnv() Config {
	return Config{
		BaseURL: switchboard.EnvVarOrString(baseURLEnvVar, ""),
		APIKey:  switchboard.EnvVarOrString(apiKeyEnvVar, ""),
		Schema:  switchboard.EnvVarOrString(schemaEnvVar, ""),
		Timeout: switchboard.EnvVarOrDuration(timeoutEnvVar, defaultTimeout),
	}
}

// Valid asserts the Config can construct a working Client.
func (c Config) Valid() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: %s is required", switchboard.ErrBadConfig, baseURLEnvVar)
	}

	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("%w: cannot parse %s: %s", switchboard.ErrBadConfig, baseURLEnvVar, err)
	}

	return nil
}
