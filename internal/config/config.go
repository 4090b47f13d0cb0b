// Package config loads the application configuration from YAML or JSON files.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "turing.yaml"

// DefaultTickDelay is the pause between ticks of a continuous run.
const DefaultTickDelay = 50 * time.Millisecond

// Store kinds.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the full application configuration.
type Config struct {
	// TickDelay paces continuous runs. Zero runs as fast as possible.
	TickDelay time.Duration `mapstructure:"tick_delay" json:"tick_delay"`

	// MaxTicks bounds a continuous run. Zero means unlimited.
	MaxTicks int `mapstructure:"max_ticks" json:"max_ticks"`

	// Seed fixes the random source. Zero draws a fresh seed per process.
	Seed uint64 `mapstructure:"seed" json:"seed"`

	// Random makes the initial reset draw a random table.
	Random bool `mapstructure:"random" json:"random"`

	LogLevel string `mapstructure:"log_level" json:"log_level"`
	LogFile  string `mapstructure:"log_file" json:"log_file"`

	HTTP  HTTPConfig  `mapstructure:"http" json:"http"`
	Store StoreConfig `mapstructure:"store" json:"store"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" json:"addr"`
}

// StoreConfig selects where run records go.
type StoreConfig struct {
	Kind string `mapstructure:"kind" json:"kind"`

	// Path is the directory of the file store.
	Path string `mapstructure:"path" json:"path"`

	RedisAddr     string `mapstructure:"redis_addr" json:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password" json:"-"`
	RedisDB       int    `mapstructure:"redis_db" json:"redis_db"`

	// TTL expires redis records. Zero keeps them forever.
	TTL    time.Duration `mapstructure:"ttl" json:"ttl"`
	Prefix string        `mapstructure:"prefix" json:"prefix"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		TickDelay: DefaultTickDelay,
		LogLevel:  "info",
		HTTP:      HTTPConfig{Addr: ":8080"},
		Store: StoreConfig{
			Kind:      StoreMemory,
			Path:      filepath.Join(".turing", "runs"),
			RedisAddr: "localhost:6379",
			Prefix:    "turing:",
		},
	}
}

// Load reads path (YAML or JSON by extension) on top of Default.
// A missing file yields the defaults; use LoadFile to require it.
func Load(path string) (Config, error) {
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFile is Load without the missing-file fallback.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data, strings.ToLower(filepath.Ext(path)))
}

// Parse decodes raw file contents. ext selects the format (".json" or YAML otherwise).
func Parse(data []byte, ext string) (Config, error) {
	raw := map[string]any{}
	if ext == ".json" {
		// Numbers stay json.Number so seeds above 2^53 keep every bit.
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse json config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse yaml config: %w", err)
		}
	}

	cfg := Default()
	if err := decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       durationHook,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// durationHook parses duration fields from strings such as "50ms". Bare
// numbers are rejected rather than read as nanoseconds.
func durationHook(from, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("duration %v needs a unit, e.g. \"50ms\"", data)
	}
	return time.ParseDuration(s)
}

// Validate rejects values no component can honour.
func (c Config) Validate() error {
	if c.TickDelay < 0 {
		return fmt.Errorf("tick_delay must not be negative: %s", c.TickDelay)
	}
	if c.MaxTicks < 0 {
		return fmt.Errorf("max_ticks must not be negative: %d", c.MaxTicks)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Store.Kind {
	case StoreNone, StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	if c.Store.Kind == StoreFile && c.Store.Path == "" {
		return errors.New("store.path is required for the file store")
	}
	return nil
}
