package httpclient

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-driven session configuration.
type Config struct {
	Timeout      time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"30s"`
	MaxRetries   int           `env:"HTTP_CLIENT_MAX_RETRIES" envDefault:"0"`
	RetryBackoff time.Duration `env:"HTTP_CLIENT_RETRY_BACKOFF" envDefault:"1s"`
	MaxBodySize  int64         `env:"HTTP_CLIENT_MAX_BODY_SIZE" envDefault:"10485760"`
	RequestID    bool          `env:"HTTP_CLIENT_REQUEST_ID" envDefault:"false"`
}

// ConfigFromEnv loads Config from environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("httpclient: parse env: %w", err)
	}
	return cfg, nil
}

// NewSessionFromConfig builds a session from cfg. MaxRetries above zero allows that
// many extra attempts under DefaultRetryPolicy on every request.
// Options in opts are applied after cfg.
func NewSessionFromConfig(cfg Config, opts ...SessionOption) *Session {
	base := []SessionOption{
		WithTimeout(cfg.Timeout),
		WithMaxBodySize(cfg.MaxBodySize),
	}

	if cfg.MaxRetries > 0 {
		base = append(base, WithDefaultRetry(cfg.MaxRetries+1, cfg.RetryBackoff, DefaultRetryPolicy))
	}

	if cfg.RequestID {
		base = append(base, WithRequestID())
	}

	return NewSession(append(base, opts...)...)
}
