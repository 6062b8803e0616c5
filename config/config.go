// Package config loads ontograph settings: built-in defaults, then an
// optional TOML or YAML file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/TFMV/ontograph/physics"
	"github.com/TFMV/ontograph/render"
	"github.com/TFMV/ontograph/view"
)

// Environment overrides
const (
	EnvDatabaseURL = "ONTOGRAPH_DATABASE_URL"
	EnvRedisAddr   = "ONTOGRAPH_REDIS_ADDR"
	EnvAddr        = "ONTOGRAPH_ADDR"
)

// ErrUnsupportedFile is returned for config files that are neither TOML nor YAML
var ErrUnsupportedFile = errors.New("unsupported config file")

var validate = validator.New()

// Config holds all ontograph settings
type Config struct {
	Server   ServerConfig   `toml:"server" yaml:"server"`
	Layout   physics.Config `toml:"layout" yaml:"layout"`
	Render   RenderConfig   `toml:"render" yaml:"render"`
	Database DatabaseConfig `toml:"database" yaml:"database"`
	Redis    RedisConfig    `toml:"redis" yaml:"redis"`
	Debug    bool           `toml:"debug" yaml:"debug"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr           string        `toml:"addr" yaml:"addr" validate:"required"`
	ReadTimeout    time.Duration `toml:"read_timeout" yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout   time.Duration `toml:"write_timeout" yaml:"write_timeout" validate:"gt=0"`
	IdleTimeout    time.Duration `toml:"idle_timeout" yaml:"idle_timeout" validate:"gt=0"`
	RequestTimeout time.Duration `toml:"request_timeout" yaml:"request_timeout" validate:"gt=0"`
	MaxUploadBytes int64         `toml:"max_upload_bytes" yaml:"max_upload_bytes" validate:"gt=0"`
}

// RenderConfig controls snapshot output
type RenderConfig struct {
	Format         string        `toml:"format" yaml:"format" validate:"oneof=svg ascii json dot"`
	Width          float64       `toml:"width" yaml:"width" validate:"gt=0"`
	Height         float64       `toml:"height" yaml:"height" validate:"gt=0"`
	ShowLabels     bool          `toml:"show_labels" yaml:"show_labels"`
	ShowEdgeLabels bool          `toml:"show_edge_labels" yaml:"show_edge_labels"`
	Title          string        `toml:"title" yaml:"title"`
	FrameInterval  time.Duration `toml:"frame_interval" yaml:"frame_interval" validate:"gt=0"`
}

// DatabaseConfig points at the export database. Export is disabled when URL
// is empty.
type DatabaseConfig struct {
	URL string `toml:"url" yaml:"url"`
}

// RedisConfig points at the graph store. Graphs are kept in memory when Addr
// is empty.
type RedisConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Default returns the default configuration
func Default() *Config {
	opts := render.NewDefaultOptions("svg")
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    120 * time.Second,
			RequestTimeout: 30 * time.Second,
			MaxUploadBytes: 10 << 20,
		},
		Layout: physics.DefaultConfig(),
		Render: RenderConfig{
			Format:         opts.Format,
			Width:          opts.Width,
			Height:         opts.Height,
			ShowLabels:     opts.ShowLabels,
			ShowEdgeLabels: opts.ShowEdgeLabels,
			Title:          opts.Title,
			FrameInterval:  physics.DefaultInterval,
		},
	}
}

// Load reads the defaults, then the file at path if one is given, then the
// environment, and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	// The layout section keeps its own rules
	return c.Layout.Validate()
}

// RenderOptions returns output options for format, or the configured
// format when it is empty
func (c *Config) RenderOptions(format string) *render.OutputOptions {
	if format == "" {
		format = c.Render.Format
	}
	opts := render.NewDefaultOptions(format)
	opts.Width = c.Render.Width
	opts.Height = c.Render.Height
	opts.ShowLabels = c.Render.ShowLabels
	opts.ShowEdgeLabels = c.Render.ShowEdgeLabels
	opts.Title = c.Render.Title
	return opts
}

// Session returns the view configuration. The layout canvas always matches
// the render size.
func (c *Config) Session(format string) view.Config {
	layout := c.Layout
	layout.Width = c.Render.Width
	layout.Height = c.Render.Height
	return view.Config{
		Physics:  layout,
		Render:   c.RenderOptions(format),
		Interval: c.Render.FrameInterval,
		Debug:    c.Debug,
	}
}
