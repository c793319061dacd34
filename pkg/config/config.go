// Package config loads tsel settings from .tsel/config.yaml.
package config

import (
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/treeselect/pkg/tree"
)

// DirName is the per-project settings directory.
const DirName = ".tsel"

// FileName is the settings file inside DirName.
const FileName = "config.yaml"

// Config represents a tsel configuration file (.tsel/config.yaml)
type Config struct {
	// Separator splits input paths into node names (default "/")
	Separator string `yaml:"separator,omitempty" json:"separator,omitempty"`

	// Style controls text rendering
	Style StyleConfig `yaml:"style,omitempty" json:"style,omitempty"`

	// Watch configures live reload of input files
	Watch WatchConfig `yaml:"watch,omitempty" json:"watch,omitempty"`
}

// StyleConfig mirrors tree.Style with YAML tags. Empty fields keep defaults.
type StyleConfig struct {
	Indent    string `yaml:"indent,omitempty" json:"indent,omitempty"`
	Checked   string `yaml:"checked,omitempty" json:"checked,omitempty"`
	Unchecked string `yaml:"unchecked,omitempty" json:"unchecked,omitempty"`
	Partial   string `yaml:"partial,omitempty" json:"partial,omitempty"`
}

// WatchConfig controls file watching
type WatchConfig struct {
	// Debounce is a Go duration string (default "200ms")
	Debounce string `yaml:"debounce,omitempty" json:"debounce,omitempty"`
}

// DefaultDebounce is used when watch.debounce is unset.
const DefaultDebounce = 200 * time.Millisecond

// DefaultConfig returns the built-in settings
func DefaultConfig() Config {
	def := tree.DefaultStyle()
	return Config{
		Separator: tree.DefaultSeparator,
		Style: StyleConfig{
			Indent:    def.Indent,
			Checked:   def.Checked,
			Unchecked: def.Unchecked,
			Partial:   def.Partial,
		},
		Watch: WatchConfig{Debounce: DefaultDebounce.String()},
	}
}

// TreeStyle returns the rendering style with defaults filled in.
func (c *Config) TreeStyle() tree.Style {
	s := tree.DefaultStyle()
	if c.Style.Indent != "" {
		s.Indent = c.Style.Indent
	}
	if c.Style.Checked != "" {
		s.Checked = c.Style.Checked
	}
	if c.Style.Unchecked != "" {
		s.Unchecked = c.Style.Unchecked
	}
	if c.Style.Partial != "" {
		s.Partial = c.Style.Partial
	}
	return s
}

// DebounceDuration parses watch.debounce, falling back to DefaultDebounce.
func (c *Config) DebounceDuration() time.Duration {
	if c.Watch.Debounce == "" {
		return DefaultDebounce
	}
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return DefaultDebounce
	}
	return d
}

// BuildOptions returns the tree.Build options implied by the config.
func (c *Config) BuildOptions() []tree.BuildOption {
	return []tree.BuildOption{tree.WithSeparator(c.Separator)}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Separator != "" && utf8.RuneCountInString(c.Separator) != 1 {
		return fmt.Errorf("separator must be a single character, got %q", c.Separator)
	}
	if err := c.TreeStyle().Validate(); err != nil {
		return fmt.Errorf("style: %w", err)
	}
	if c.Watch.Debounce != "" {
		d, err := time.ParseDuration(c.Watch.Debounce)
		if err != nil {
			return fmt.Errorf("watch.debounce: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("watch.debounce must be positive, got %s", d)
		}
	}
	return nil
}

// LoadConfig loads a configuration from a file. Unset fields keep defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if config.Separator == "" {
		config.Separator = tree.DefaultSeparator
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &config, nil
}

// Load resolves the config to use: an explicit path must exist; otherwise
// the nearest .tsel/config.yaml above dir is used, and defaults apply when
// none is found.
func Load(explicitPath, dir string) (*Config, string, error) {
	if explicitPath != "" {
		cfg, err := LoadConfig(explicitPath)
		return cfg, explicitPath, err
	}

	path, err := FindConfig(dir)
	if err != nil {
		cfg := DefaultConfig()
		return &cfg, "", nil
	}
	cfg, err := LoadConfig(path)
	return cfg, path, err
}

// Marshal renders the config as YAML (used by `tsel config`).
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
