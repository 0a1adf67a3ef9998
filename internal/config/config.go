// Package config holds the editor settings that can be loaded from a YAML
// file and changed at runtime with the set command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownVariable = errors.New("unknown variable")
	ErrInvalidValue    = errors.New("invalid value")
)

// MinEntropyMargin is the smallest margin accepted for entropy_margin.
const MinEntropyMargin = 0.1

// Color schemes understood by the interactive editor.
const (
	SchemeDefault = "default"
	SchemeMono    = "mono"
	SchemeBright  = "bright"
)

// Config holds all editor settings.
type Config struct {
	BytesPerLine     int     `yaml:"bytes_per_line"`
	EntropyBlockSize int     `yaml:"entropy_block_size"`
	EntropyMargin    float64 `yaml:"entropy_margin"`
	MinStringSize    int     `yaml:"min_string_size"`
	MaxFileSize      int     `yaml:"max_file_size"`
	ColorScheme      string  `yaml:"color_scheme"`
	ShowASCII        bool    `yaml:"show_ascii"`
	LockBuffers      bool    `yaml:"lock_buffers"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		BytesPerLine:     16,
		EntropyBlockSize: 1024,
		EntropyMargin:    0.5,
		MinStringSize:    4,
		MaxFileSize:      0,
		ColorScheme:      SchemeDefault,
		ShowASCII:        true,
		LockBuffers:      false,
	}
}

// DefaultPath returns the location of the per-user configuration file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "hexed", "config.yaml"), nil
}

// Load reads the configuration from path. Missing keys keep their default
// values and a missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	return c, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks every setting against its allowed range.
func (c *Config) Validate() error {
	for _, v := range variables {
		if err := v.check(c); err != nil {
			return fmt.Errorf("%s: %w", v.name, err)
		}
	}

	return nil
}

// Set parses value and assigns it to the named variable. The configuration is
// left unchanged when the name is unknown or the value does not parse.
func (c *Config) Set(name, value string) error {
	v, ok := lookup(name)
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownVariable)
	}

	next := *c
	if err := v.set(&next, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("%s = %q: %w", name, value, err)
	}

	if err := v.check(&next); err != nil {
		return fmt.Errorf("%s = %q: %w", name, value, err)
	}

	*c = next

	return nil
}

// Get returns the named variable formatted as text.
func (c *Config) Get(name string) (string, error) {
	v, ok := lookup(name)
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrUnknownVariable)
	}

	return v.get(c), nil
}

// Names lists the settable variables in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(variables))
	for _, v := range variables {
		names = append(names, v.name)
	}

	slices.Sort(names)

	return names
}

type variable struct {
	name  string
	get   func(*Config) string
	set   func(*Config, string) error
	check func(*Config) error
}

func lookup(name string) (variable, bool) {
	for _, v := range variables {
		if v.name == name {
			return v, true
		}
	}

	return variable{}, false
}

func intVariable(name string, field func(*Config) *int, minimum int) variable {
	return variable{
		name: name,
		get:  func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, s string) error {
			n, err := strconv.Atoi(s)
			if err != nil {
				return ErrInvalidValue
			}

			*field(c) = n

			return nil
		},
		check: func(c *Config) error {
			if *field(c) < minimum {
				return fmt.Errorf("must be at least %d: %w", minimum, ErrInvalidValue)
			}

			return nil
		},
	}
}

func boolVariable(name string, field func(*Config) *bool) variable {
	return variable{
		name: name,
		get:  func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, s string) error {
			switch strings.ToLower(s) {
			case "on", "yes":
				s = "true"
			case "off", "no":
				s = "false"
			}

			b, err := strconv.ParseBool(s)
			if err != nil {
				return ErrInvalidValue
			}

			*field(c) = b

			return nil
		},
		check: func(*Config) error { return nil },
	}
}

var variables = []variable{
	intVariable("bytes_per_line", func(c *Config) *int { return &c.BytesPerLine }, 1),
	intVariable("entropy_block_size", func(c *Config) *int { return &c.EntropyBlockSize }, 1),
	{
		name: "entropy_margin",
		get:  func(c *Config) string { return strconv.FormatFloat(c.EntropyMargin, 'f', -1, 64) },
		set: func(c *Config, s string) error {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return ErrInvalidValue
			}

			c.EntropyMargin = f

			return nil
		},
		check: func(c *Config) error {
			if c.EntropyMargin < MinEntropyMargin {
				return fmt.Errorf("must be at least %g: %w", MinEntropyMargin, ErrInvalidValue)
			}

			return nil
		},
	},
	intVariable("min_string_size", func(c *Config) *int { return &c.MinStringSize }, 1),
	intVariable("max_file_size", func(c *Config) *int { return &c.MaxFileSize }, 0),
	{
		name: "color_scheme",
		get:  func(c *Config) string { return c.ColorScheme },
		set: func(c *Config, s string) error {
			c.ColorScheme = strings.ToLower(s)
			return nil
		},
		check: func(c *Config) error {
			switch c.ColorScheme {
			case SchemeDefault, SchemeMono, SchemeBright:
				return nil
			}

			return fmt.Errorf("scheme %q: %w", c.ColorScheme, ErrInvalidValue)
		},
	},
	boolVariable("show_ascii", func(c *Config) *bool { return &c.ShowASCII }),
	boolVariable("lock_buffers", func(c *Config) *bool { return &c.LockBuffers }),
}
