// Package config handles configuration for the gane server: built-in
// defaults, an optional JSON file, GANE_* environment variables and
// command-line flags, applied in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MinSecretKeyLength is the shortest HMAC secret accepted for signing tokens.
const MinSecretKeyLength = 32

// Config holds runtime settings for the gane server.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the JSON API.
//   - EndpointAddrGRPC: bind address of the gRPC health endpoint; empty disables it.
//   - MetricsAddr: bind address of the Prometheus /metrics listener; empty disables it.
//   - SecretKey: HMAC secret for signing tokens (HS256). Has no default.
//   - RegisteredTokenTTL / GuestTokenTTL: token lifetimes per session kind.
//   - BcryptCost: work factor used when hashing passwords.
//   - LogLevel: debug, info, warn or error.
//   - MaxBodyBytes: upper bound for JSON request bodies.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	EndpointAddrHTTP   string        `env:"GANE_HTTP_ADDR"`
	EndpointAddrGRPC   string        `env:"GANE_GRPC_ADDR"`
	MetricsAddr        string        `env:"GANE_METRICS_ADDR"`
	SecretKey          string        `env:"GANE_SECRET_KEY"`
	RegisteredTokenTTL time.Duration `env:"GANE_REGISTERED_TOKEN_TTL"`
	GuestTokenTTL      time.Duration `env:"GANE_GUEST_TOKEN_TTL"`
	BcryptCost         int           `env:"GANE_BCRYPT_COST"`
	LogLevel           string        `env:"GANE_LOG_LEVEL"`
	MaxBodyBytes       int64         `env:"GANE_MAX_BODY_BYTES"`
	ShutdownTimeout    time.Duration `env:"GANE_SHUTDOWN_TIMEOUT"`
}

// LoadDefaults populates Config with development defaults. SecretKey is left
// empty on purpose: it must be injected by the operator.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.MetricsAddr = ":9090"
	c.SecretKey = ""
	c.RegisteredTokenTTL = 7 * 24 * time.Hour
	c.GuestTokenTTL = 24 * time.Hour
	c.BcryptCost = bcrypt.DefaultCost
	c.LogLevel = "info"
	c.MaxBodyBytes = 1 << 20
	c.ShutdownTimeout = 10 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports the first setting that would make the server unsafe or
// unable to start.
func (c *Config) Validate() error {
	if c.EndpointAddrHTTP == "" {
		return errors.New("http address is required")
	}
	if c.SecretKey == "" {
		return errors.New("secret key is required (set GANE_SECRET_KEY, secret_key or -s)")
	}
	if len(c.SecretKey) < MinSecretKeyLength {
		return fmt.Errorf("secret key must be at least %d bytes", MinSecretKeyLength)
	}
	if c.RegisteredTokenTTL <= 0 {
		return errors.New("registered token ttl must be positive")
	}
	if c.GuestTokenTTL <= 0 {
		return errors.New("guest token ttl must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.MaxBodyBytes <= 0 {
		return errors.New("max body bytes must be positive")
	}
	return nil
}
