// Package config loads molnet settings from defaults, an optional YAML file
// and MOLNET_* environment variables, in that order of priority.
// Command-line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/katalvlaran/molnet/internal/logging"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MOLNET_"

// DefaultPath is read when no explicit path is given and the file exists.
const DefaultPath = "molnet.yaml"

// ErrInvalid wraps validation failures of the final configuration.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the full molnet configuration.
type Config struct {
	Network Network        `yaml:"network"`
	Logging logging.Config `yaml:"logging"`
	Store   Store          `yaml:"store"`
	Server  Server         `yaml:"server"`
	Metrics Metrics        `yaml:"metrics"`

	// LoadedFrom lists the sources applied, lowest priority first.
	LoadedFrom []string `yaml:"-"`
}

// Network holds pipeline parameters.
type Network struct {
	TopK          int     `yaml:"top_k" validate:"gte=0"`
	MinScore      float64 `yaml:"min_score" validate:"gte=-1,lte=1"`
	Iterations    int     `yaml:"iterations" validate:"gt=0"`
	DefaultRadius float64 `yaml:"default_radius" validate:"gt=0"`
	Workers       int     `yaml:"workers" validate:"gt=0,lte=256"`
	Seed          int64   `yaml:"seed"`
}

// Store locates the run database.
type Store struct {
	DBPath string `yaml:"db_path" validate:"required"`
}

// Server configures the HTTP API.
type Server struct {
	Addr           string `yaml:"addr" validate:"required"`
	MaxRequestSize int64  `yaml:"max_request_size" validate:"gt=0"`
	MaxNodes       int    `yaml:"max_nodes" validate:"gt=0"`
}

// Metrics configures metric export.
type Metrics struct {
	// Textfile, when set, receives the registry after each CLI run.
	Textfile string `yaml:"textfile"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Network: Network{
			TopK:          10,
			MinScore:      0.65,
			Iterations:    1000,
			DefaultRadius: 30,
			Workers:       1,
			Seed:          42,
		},
		Logging: logging.Config{Level: "info", Format: "json"},
		Store:   Store{DBPath: "molnet.db"},
		Server: Server{
			Addr:           ":8080",
			MaxRequestSize: 64 << 20,
			MaxNodes:       5000,
		},
	}
}

// Load builds the configuration. An empty path falls back to DefaultPath,
// which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.LoadedFrom = []string{"defaults"}

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := cfg.loadEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.LoadedFrom = append(c.LoadedFrom, path)

	return nil
}

// loadEnv overlays MOLNET_* variables. lookup is os.LookupEnv outside tests.
func (c *Config) loadEnv(lookup func(string) (string, bool)) error {
	var errs []error
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	setInt := func(key string, dst *int) {
		if v, ok := get(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s=%q: %w", EnvPrefix, key, v, err))
				return
			}
			*dst = n
		}
	}
	setFloat := func(key string, dst *float64) {
		if v, ok := get(key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s=%q: %w", EnvPrefix, key, v, err))
				return
			}
			*dst = f
		}
	}
	setString := func(key string, dst *string) {
		if v, ok := get(key); ok {
			*dst = v
		}
	}

	setInt("TOP_K", &c.Network.TopK)
	setFloat("MIN_SCORE", &c.Network.MinScore)
	setInt("ITERATIONS", &c.Network.Iterations)
	setFloat("DEFAULT_RADIUS", &c.Network.DefaultRadius)
	setInt("WORKERS", &c.Network.Workers)
	if v, ok := get("SEED"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %sSEED=%q: %w", EnvPrefix, v, err))
		} else {
			c.Network.Seed = seed
		}
	}
	setString("LOG_LEVEL", &c.Logging.Level)
	setString("LOG_FORMAT", &c.Logging.Format)
	setString("DB_PATH", &c.Store.DBPath)
	setString("ADDR", &c.Server.Addr)
	setString("METRICS_TEXTFILE", &c.Metrics.Textfile)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	c.LoadedFrom = append(c.LoadedFrom, "environment")

	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}
