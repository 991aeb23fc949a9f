// Package config loads server settings from a .env file, the environment and flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/and161185/evote/internal/limiter"
)

// Config is the server configuration.
type Config struct {
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":5000"`
	GRPCAddr       string        `env:"GRPC_ADDR" envDefault:":5001"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	JWTSecret      string        `env:"JWT_SECRET"`
	AccessTTL      time.Duration `env:"ACCESS_TTL" envDefault:"1h"`
	AdminEmail     string        `env:"ADMIN_EMAIL"`
	AdminPassword  string        `env:"ADMIN_PASSWORD"`
	HealthInterval time.Duration `env:"HEALTH_INTERVAL" envDefault:"10s"`
	Dev            bool          `env:"EVOTE_DEV" envDefault:"false"`

	// TrustProxy makes the HTTP API take the client address from
	// X-Forwarded-For / X-Real-IP. Enable only behind a proxy that sets them.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`
	Login      Login
}

// Login configures failed-login throttling.
type Login struct {
	Window   time.Duration `env:"LOGIN_WINDOW" envDefault:"15m"`
	MaxFails int           `env:"LOGIN_MAX_FAILS" envDefault:"5"`
	BlockFor time.Duration `env:"LOGIN_BLOCK_FOR" envDefault:"15m"`
}

// Policy converts the settings to a limiter policy.
func (l Login) Policy() limiter.Policy {
	return limiter.Policy{Window: l.Window, MaxFails: l.MaxFails, BlockFor: l.BlockFor}
}

// Load reads envFile (missing is fine), overlays the process environment and then args.
func Load(envFile string, args []string) (Config, error) {
	vars, err := environ(envFile)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := env.Parse(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	flags := flag.NewFlagSet("evote-server", flag.ContinueOnError)
	flags.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	flags.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "gRPC health listen address")
	flags.StringVar(&cfg.DatabaseURL, "dsn", cfg.DatabaseURL, "PostgreSQL DSN")
	flags.StringVar(&cfg.JWTSecret, "jwt-key", cfg.JWTSecret, "HS256 signing key")
	flags.DurationVar(&cfg.AccessTTL, "access-ttl", cfg.AccessTTL, "access token TTL")
	flags.StringVar(&cfg.AdminEmail, "admin-email", cfg.AdminEmail, "bootstrap admin email")
	flags.DurationVar(&cfg.HealthInterval, "health-interval", cfg.HealthInterval, "database health check interval")
	flags.BoolVar(&cfg.Dev, "dev", cfg.Dev, "development logging and gRPC reflection")
	flags.BoolVar(&cfg.TrustProxy, "trust-proxy", cfg.TrustProxy, "take client IPs from forwarding headers")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// environ merges envFile under the process environment; real variables win.
func environ(envFile string) (map[string]string, error) {
	vars := map[string]string{}
	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars, nil
}

// Validate reports the first missing or inconsistent setting.
func (c Config) Validate() error {
	var missing []string
	for name, v := range map[string]string{
		"DATABASE_URL":   c.DatabaseURL,
		"JWT_SECRET":     c.JWTSecret,
		"ADMIN_EMAIL":    c.AdminEmail,
		"ADMIN_PASSWORD": c.AdminPassword,
	} {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 bytes")
	}
	if c.AccessTTL <= 0 || c.HealthInterval <= 0 {
		return errors.New("ACCESS_TTL and HEALTH_INTERVAL must be positive")
	}
	if c.Login.MaxFails <= 0 || c.Login.Window <= 0 || c.Login.BlockFor <= 0 {
		return errors.New("login limits must be positive")
	}
	return nil
}
