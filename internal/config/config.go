// Package config holds the crossrank CLI configuration file format.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/crossrank/distance"
	"github.com/hupe1980/crossrank/model"
)

// Store types.
const (
	StoreLocal = "local"
	StoreS3    = "s3"
	StoreMinio = "minio"
)

// Report formats.
const (
	FormatText  = "text"
	FormatTable = "table"
)

// Store selects where index files are read from.
type Store struct {
	Type     string `yaml:"type"`
	Root     string `yaml:"root,omitempty"`
	Bucket   string `yaml:"bucket,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Region   string `yaml:"region,omitempty"`
	Secure   bool   `yaml:"secure,omitempty"`
}

// Limits bounds the resources a run may use. Zero means unlimited.
type Limits struct {
	MemoryBytes   int64 `yaml:"memory_bytes,omitempty"`
	IOBytesPerSec int64 `yaml:"io_bytes_per_sec,omitempty"`
}

// Config is the in-memory representation of a crossrank YAML file.
type Config struct {
	K               int      `yaml:"k"`
	Measure         string   `yaml:"measure"`
	Indices         []string `yaml:"indices,omitempty"`
	Normalize       bool     `yaml:"normalize"`
	IncludeClass    bool     `yaml:"include_class,omitempty"`
	Workers         int      `yaml:"workers,omitempty"`
	Format          string   `yaml:"format"`
	Store           Store    `yaml:"store"`
	Limits          Limits   `yaml:"limits,omitempty"`
	MetricsTextfile string   `yaml:"metrics_textfile,omitempty"`
}

// Default returns the configuration used without a config file.
func Default() *Config {
	return &Config{
		K:         5,
		Measure:   distance.L1.String(),
		Normalize: true,
		Format:    FormatText,
		Store: Store{
			Type: StoreLocal,
			Root: ".",
		},
	}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// Load reads path and overlays it on Default. Keys missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML data over Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	var err error
	if cfg.Store.Root, err = ExpandPath(cfg.Store.Root); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Validate reports every invalid setting, wrapped in model.ErrConfiguration.
func (c *Config) Validate() error {
	var errs []error
	if c.K < 1 {
		errs = append(errs, fmt.Errorf("%w, got %d", model.ErrInvalidK, c.K))
	}
	if _, err := distance.ParseMeasure(c.Measure); err != nil {
		errs = append(errs, fmt.Errorf("%w: must be L1 or L2", err))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	switch c.Format {
	case FormatText, FormatTable:
	default:
		errs = append(errs, fmt.Errorf("unknown format %q", c.Format))
	}
	switch c.Store.Type {
	case StoreLocal:
	case StoreS3, StoreMinio:
		if c.Store.Bucket == "" {
			errs = append(errs, fmt.Errorf("store %s: bucket is required", c.Store.Type))
		}
		if c.Store.Type == StoreMinio && c.Store.Endpoint == "" {
			errs = append(errs, errors.New("store minio: endpoint is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store type %q", c.Store.Type))
	}
	if c.Limits.MemoryBytes < 0 || c.Limits.IOBytesPerSec < 0 {
		errs = append(errs, errors.New("limits must not be negative"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", model.ErrConfiguration, errors.Join(errs...))
}
