// Package config resolves server settings from an optional YAML file, a .env
// file and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"evacuation-route-server/routing"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Port           string   `yaml:"port"`
	GraphPath      string   `yaml:"graphPath"`
	DBPath         string   `yaml:"dbPath"`
	SensorCSV      string   `yaml:"sensorCsv"`
	SensorCapacity int      `yaml:"sensorCapacity"`
	TargetPrefix   string   `yaml:"targetPrefix"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
	GinMode        string   `yaml:"ginMode"`
}

func Default() Config {
	return Config{
		Port:           "8080",
		SensorCapacity: 5,
		TargetPrefix:   routing.ShelterPrefix,
		GinMode:        "debug",
	}
}

// Load reads .env when present, then CONFIG_FILE when set, then applies
// environment overrides.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default environment variables")
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// LoadFile reads a YAML config on top of the defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	log.Printf("Loaded config file %s", path)
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("PORT", &c.Port)
	str("GRAPH_PATH", &c.GraphPath)
	str("DB_PATH", &c.DBPath)
	str("SENSOR_CSV", &c.SensorCSV)
	str("TARGET_PREFIX", &c.TargetPrefix)
	str("GIN_MODE", &c.GinMode)

	if v, ok := lookup("SENSOR_CAPACITY"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: SENSOR_CAPACITY=%q: %v", ErrInvalidConfig, v, err)
		}
		c.SensorCapacity = n
	}

	if v, ok := lookup("ALLOWED_ORIGINS"); ok && v != "" {
		c.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}
	return nil
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("%w: port %q is not a number", ErrInvalidConfig, c.Port)
	}
	if c.SensorCapacity <= 0 {
		return fmt.Errorf("%w: sensor capacity must be positive, got %d", ErrInvalidConfig, c.SensorCapacity)
	}
	if c.TargetPrefix == "" {
		return fmt.Errorf("%w: target prefix must not be empty", ErrInvalidConfig)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("%w: unknown gin mode %q", ErrInvalidConfig, c.GinMode)
	}
	return nil
}

// AllowAllOrigins is true when no origin list is configured.
func (c Config) AllowAllOrigins() bool {
	return len(c.AllowedOrigins) == 0
}

func (c Config) Addr() string {
	return ":" + c.Port
}
