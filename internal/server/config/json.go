package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gane/internal/flagx"
	"github.com/dmitrijs2005/gane/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept either
// strings such as "168h" or integer nanoseconds. Only keys present in the file
// override the current values.
type JsonConfig struct {
	EndpointAddrHTTP   *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC   *string         `json:"endpoint_addr_grpc"`
	MetricsAddr        *string         `json:"metrics_addr"`
	SecretKey          *string         `json:"secret_key"`
	RegisteredTokenTTL *timex.Duration `json:"registered_token_ttl"`
	GuestTokenTTL      *timex.Duration `json:"guest_token_ttl"`
	BcryptCost         *int            `json:"bcrypt_cost"`
	LogLevel           *string         `json:"log_level"`
	MaxBodyBytes       *int64          `json:"max_body_bytes"`
	ShutdownTimeout    *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads the file named by -c / -config, if any, into config.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if c.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *c.EndpointAddrHTTP
	}
	if c.EndpointAddrGRPC != nil {
		config.EndpointAddrGRPC = *c.EndpointAddrGRPC
	}
	if c.MetricsAddr != nil {
		config.MetricsAddr = *c.MetricsAddr
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.RegisteredTokenTTL != nil {
		config.RegisteredTokenTTL = c.RegisteredTokenTTL.Duration
	}
	if c.GuestTokenTTL != nil {
		config.GuestTokenTTL = c.GuestTokenTTL.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
	if c.MaxBodyBytes != nil {
		config.MaxBodyBytes = *c.MaxBodyBytes
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}

	return nil
}
