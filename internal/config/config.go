// Package config loads port-for settings from defaults, an optional
// configuration file and the environment.
//
// Configuration files may be YAML (.yaml, .yml) or JSON (.json, .jsonc).
// JSON files may contain comments and trailing commas; they are stripped
// with github.com/tidwall/jsonc before decoding with encoding/json.
//
// Precedence, lowest first: built-in defaults, the configuration file,
// environment variables, and finally command-line flags (applied by the
// cli package on top of the returned Config).
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/port-for/internal/model"
	"github.com/shinji-kodama/port-for/internal/port"
	"github.com/shinji-kodama/port-for/internal/store"
)

// Environment variables consulted by Load.
const (
	// EnvConfig names the configuration file when --config is not given.
	EnvConfig = "PORT_FOR_CONFIG"

	// EnvStore overrides the store path.
	EnvStore = "PORT_FOR_STORE"

	// EnvHost overrides the probe host.
	EnvHost = "PORT_FOR_HOST"
)

// searchNames are the file names looked up under $XDG_CONFIG_HOME/port-for,
// in order.
var searchNames = []string{"config.yaml", "config.yml", "config.json", "config.jsonc"}

// Config holds every tunable setting of the CLI.
type Config struct {
	// Store is the path of the reservation file.
	Store string `yaml:"store" json:"store"`

	// Host is the address probed when checking whether a port is in use.
	Host string `yaml:"host" json:"host"`

	// ConnectTimeout bounds each connect probe, e.g. "500ms".
	ConnectTimeout Duration `yaml:"connect_timeout" json:"connect_timeout"`

	// Low and High bound the candidate pool.
	Low  int `yaml:"low" json:"low"`
	High int `yaml:"high" json:"high"`

	MinRangeLen int `yaml:"min_range_len" json:"min_range_len"`
	Border      int `yaml:"border" json:"border"`

	// Exclude lists extra ranges that are never handed out, in "LOW-HIGH"
	// or "N" form.
	Exclude []model.Range `yaml:"exclude" json:"exclude"`

	// ExcludeDocker skips host ports published by Docker containers.
	ExcludeDocker bool `yaml:"exclude_docker" json:"exclude_docker"`

	// Lock serializes store updates with an advisory file lock.
	Lock bool `yaml:"lock" json:"lock"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store:          store.DefaultPath,
		Host:           port.DefaultProbeHost,
		ConnectTimeout: Duration(port.DefaultConnectTimeout),
		Low:            port.DefaultLowPort,
		High:           port.DefaultHighPort,
		MinRangeLen:    port.DefaultMinRangeLen,
		Border:         port.DefaultBorder,
	}
}

// Load builds a Config from defaults, the configuration file and the
// environment. path is the explicit file from --config; when empty the
// file is located with FindFile, and a missing file is not an error.
// An explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = FindFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// FindFile returns the configuration file to use when none was given on
// the command line, or "" when there is none.
func FindFile() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}

	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}

	for _, name := range searchNames {
		p := filepath.Join(dir, "port-for", name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// LoadFile merges the settings of the file at path into c. Keys absent
// from the file keep their current values; unknown keys are rejected.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document decodes to io.EOF.
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".json", ".jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q for %s (want .yaml, .yml, .json or .jsonc)", ext, path)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvStore); v != "" {
		c.Store = v
	}
	if v := os.Getenv(EnvHost); v != "" {
		c.Host = v
	}
}

// Validate checks the configuration for values the engine cannot use.
func (c *Config) Validate() error {
	var errs []error

	if c.Store == "" {
		errs = append(errs, errors.New("store path must not be empty"))
	}
	if c.Host == "" {
		errs = append(errs, errors.New("host must not be empty"))
	}
	if c.ConnectTimeout <= 0 {
		errs = append(errs, fmt.Errorf("connect_timeout must be positive, got %s", c.ConnectTimeout))
	}
	if err := model.ValidatePort(c.Low); err != nil {
		errs = append(errs, fmt.Errorf("low: %w", err))
	}
	if err := model.ValidatePort(c.High); err != nil {
		errs = append(errs, fmt.Errorf("high: %w", err))
	}
	if c.Low > c.High {
		errs = append(errs, fmt.Errorf("low (%d) must not exceed high (%d)", c.Low, c.High))
	}
	if c.MinRangeLen < 0 {
		errs = append(errs, fmt.Errorf("min_range_len must not be negative, got %d", c.MinRangeLen))
	}
	if c.Border < 0 {
		errs = append(errs, fmt.Errorf("border must not be negative, got %d", c.Border))
	}
	for _, r := range c.Exclude {
		if err := r.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("exclude: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Duration is a time.Duration that reads and writes its text form
// ("1s", "250ms") in both YAML and JSON.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// String returns the duration in time.Duration notation.
func (d Duration) String() string {
	return time.Duration(d).String()
}
