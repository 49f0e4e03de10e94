// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file if one
// exists), loads them into structured Go types, and validates that required
// values are present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process environment before anything below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the FREIGHT_ prefix. After the prefix is removed
	the key is lowercased and every double underscore becomes a "." so koanf
	can map it onto nested structs:

	  FREIGHT_SERVER__PORT         -> server.port         -> Config.Server.Port
	  FREIGHT_SERVER__READ_TIMEOUT -> server.read_timeout -> Config.Server.ReadTimeout
	  FREIGHT_AUTH__API_KEYS       -> auth.api_keys       -> Config.Auth.APIKeys
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "FREIGHT_"

// Load sources supported by the load query service.
const (
	LoadSourceCSV      = "csv"
	LoadSourcePostgres = "postgres"
)

// Config is the root configuration object for the application.
//
// Database and Redis are pointers because they are optional: the CSV-backed
// load service and the carrier service run without a database, and Redis is
// only needed for the carrier result cache.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Loads         LoadsConfig          `koanf:"loads"`
	Database      *DatabaseConfig      `koanf:"database"`
	Redis         *RedisConfig         `koanf:"redis"`
	FMCSA         FMCSAConfig          `koanf:"fmcsa"`
	Carrier       CarrierConfig        `koanf:"carrier"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are stored as seconds. RateLimit is requests per second per API
// key; zero disables the limiter.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
	RateLimit          float64  `koanf:"rate_limit" validate:"gte=0"`
	RateLimitBurst     int      `koanf:"rate_limit_burst" validate:"gte=0"`
}

// AuthConfig holds the static API-key allow-list.
//
// APIKeys is a comma-separated list, e.g. "key-one,key-two".
type AuthConfig struct {
	APIKeys string `koanf:"api_keys" validate:"required"`
}

// LoadsConfig selects where load records come from.
type LoadsConfig struct {
	Source  string `koanf:"source" validate:"omitempty,oneof=csv postgres"`
	CSVPath string `koanf:"csv_path"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time"`
}

// RedisConfig contains Redis connection details.
// Address is typically "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// FMCSAConfig points the carrier service at the registry.
type FMCSAConfig struct {
	BaseURL string        `koanf:"base_url"`
	WebKey  string        `koanf:"web_key"`
	Timeout time.Duration `koanf:"timeout"`
}

// CarrierConfig tunes the carrier verification service.
//
// CacheTTL of zero disables the Redis result cache.
type CarrierConfig struct {
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

const (
	defaultCSVPath      = "../allowed_references.csv"
	defaultFMCSATimeout = 10 * time.Second
)

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, validates it, applies defaults, and returns the result.
//
// Unlike a fatal-on-error loader it returns every failure to the caller, so
// the command entry point decides how to exit and tests can assert on errors.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// Start from the observability defaults so partial overrides from the
	// environment merge into them instead of replacing the whole block.
	mainConfig := &Config{Observability: DefaultObservabilityConfig()}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	mainConfig.applyDefaults()

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// The database block only matters when loads are served from Postgres,
	// but then it is mandatory.
	if mainConfig.Loads.Source == LoadSourcePostgres && mainConfig.Database == nil {
		return nil, fmt.Errorf("database config is required when loads.source is %q", LoadSourcePostgres)
	}

	mainConfig.Observability.ServiceName = "freight-agent-api"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

func (c *Config) applyDefaults() {
	if c.Loads.Source == "" {
		c.Loads.Source = LoadSourceCSV
	}
	if c.Loads.CSVPath == "" {
		c.Loads.CSVPath = defaultCSVPath
	}
	if c.FMCSA.Timeout <= 0 {
		c.FMCSA.Timeout = defaultFMCSATimeout
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
}

// Keys splits the configured allow-list, dropping blank entries.
func (c AuthConfig) Keys() []string {
	var keys []string
	for _, key := range strings.Split(c.APIKeys, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
