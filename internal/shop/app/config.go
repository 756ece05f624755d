package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/shopcart/pkg/cryptox"
	"github.com/aussiebroadwan/shopcart/pkg/httpx"
	"github.com/aussiebroadwan/shopcart/pkg/jwtx"
	"github.com/caarlos0/env/v10"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is parsed once at startup and passed by value into constructors.
type Config struct {
	JWTSecret      string        `env:"JWT_SECRET,unset"`                    // Required by serve: HS256 key, at least 32 bytes
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"shopcart"`    // iss claim, checked on verify
	TokenLeeway    time.Duration `env:"TOKEN_LEEWAY" envDefault:"0s"`        // Clock skew tolerated on exp/nbf
	RedisURL       string        `env:"REDIS_URL"`                           // Optional: shared revocation list, in-memory when empty
	BcryptCost     int           `env:"BCRYPT_COST" envDefault:"12"`         // bcrypt work factor
	HashWorkers    int           `env:"HASH_WORKERS" envDefault:"0"`         // Concurrent bcrypt computations (0: NumCPU)
	DatabaseDriver string        `env:"DATABASE_DRIVER" envDefault:"sqlite"` // sqlite or postgres
	DatabaseURL    string        `env:"DATABASE_URL" envDefault:"shop.db"`   // SQLite path or postgres DSN
	DBMaxConns     int32         `env:"DB_MAX_CONNS" envDefault:"20"`        // postgres pool size
	DBMinConns     int32         `env:"DB_MIN_CONNS" envDefault:"0"`

	Env                  string        `env:"ENV" envDefault:"dev"`         // dev, staging, prod
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`  // debug, info, warn, error
	LogFormat            string        `env:"LOG_FORMAT" envDefault:"json"` // json, text
	LogFile              string        `env:"LOG_FILE"`                     // Optional: copy of every record, e.g. app.log
	Port                 int           `env:"PORT" envDefault:"8080"`       // HTTP listen port
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"10m"`

	TrustedProxies []string         `env:"TRUSTED_PROXIES" envSeparator:","` // Proxies whose X-Forwarded-For is believed, e.g. 10.0.0.0/8
	RateLimits     httpx.RateLimits `env:"-"`                                // RATELIMIT_* overrides, see httpx.RateLimitsFromEnv
}

// LoadConfig reads the environment. It does not require JWT_SECRET since
// operator commands run without one; ValidateServe checks it.
func LoadConfig() (Config, error) {
	cfg, err := parseEnv()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.RateLimits = httpx.RateLimitsFromEnv()

	proxies, err := httpx.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return Config{}, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	cfg.RateLimits.TrustedProxies = proxies
	return cfg, nil
}

// Validate checks the settings every command depends on.
func (c Config) Validate() error {
	var errs []error
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DatabaseDriver))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.DBMaxConns < 1 {
		errs = append(errs, fmt.Errorf("DB_MAX_CONNS must be > 0, got %d", c.DBMaxConns))
	}
	if c.BcryptCost < cryptox.MinCost || c.BcryptCost > cryptox.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", cryptox.MinCost, cryptox.MaxCost, c.BcryptCost))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT: %d", c.Port))
	}
	return errors.Join(errs...)
}

// ValidateServe adds the checks only the HTTP server needs.
func (c Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.JWTSecret) < jwtx.MinSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes (generate one with `shop secret`)", jwtx.MinSecretLength)
	}
	return nil
}
