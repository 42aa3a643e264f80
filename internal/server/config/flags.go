package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gane/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address, empty disables
//	-m string   metrics bind address, empty disables
//	-s string   JWT HMAC secret key; write -s=<secret> when it starts with "-"
//	-t int      registered-user token validity, hours
//	-q int      guest token validity, hours
//	-b int      bcrypt cost
//	-l string   log level
//
// Arguments not in this list are ignored, so -c/-config can share os.Args.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-m", "-s", "-t", "-q", "-b", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run HTTP server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to run gRPC health server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port to serve Prometheus metrics")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	registeredTTL := fs.Int("t", int(config.RegisteredTokenTTL.Hours()), "registered token validity (in hours)")
	guestTTL := fs.Int("q", int(config.GuestTokenTTL.Hours()), "guest token validity (in hours)")

	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// only touch durations that were passed explicitly, so sub-hour values
	// from JSON or env survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.RegisteredTokenTTL = time.Duration(*registeredTTL) * time.Hour
		case "q":
			config.GuestTokenTTL = time.Duration(*guestTTL) * time.Hour
		}
	})

	return nil
}
