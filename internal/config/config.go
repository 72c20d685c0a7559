// Package config loads the nsi.yaml project configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/1-Byte/name-suggestion-index/internal/canonical"
)

// FileName is the configuration file looked up in the working directory
// when no path is given.
const FileName = "nsi.yaml"

// Config is the project configuration.
type Config struct {
	// Root is the data directory holding one subdirectory per tree.
	Root string `yaml:"root"`

	// LineWidth bounds the line length of written files.
	LineWidth int `yaml:"line_width"`

	// Features is the directory of custom *.geojson locations.
	Features string `yaml:"features"`

	// Ledger is the SQLite file recording generated ids per build.
	// Empty disables the ledger.
	Ledger string `yaml:"ledger"`

	// Trees lists the known trees. Entries here are merged over the
	// defaults.
	Trees map[string]Tree `yaml:"trees"`
}

// Tree configures one tree.
type Tree struct {
	// FallbackTag names an entry that has no name tag.
	FallbackTag string `yaml:"fallback_tag"`
}

// Default returns the configuration used when there is no file.
func Default() *Config {
	return &Config{
		Root:      "data",
		LineWidth: canonical.DefaultWidth,
		Features:  "features",
		Trees: map[string]Tree{
			"brands":    {FallbackTag: "brand"},
			"flags":     {FallbackTag: "flag:name"},
			"operators": {FallbackTag: "operator"},
			"transit":   {FallbackTag: "network"},
		},
	}
}

// Load reads the configuration at path over the defaults. Relative
// directories in the file are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	cfg.Root = resolve(base, cfg.Root)
	cfg.Features = resolve(base, cfg.Features)
	cfg.Ledger = resolve(base, cfg.Ledger)
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipelines cannot use.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root is required")
	}
	if c.LineWidth < 0 {
		return fmt.Errorf("line_width must not be negative, got %d", c.LineWidth)
	}
	if len(c.Trees) == 0 {
		return fmt.Errorf("trees must be non-empty")
	}
	for name := range c.Trees {
		if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
			return fmt.Errorf("tree name %q is not a plain directory name", name)
		}
	}
	return nil
}

// FallbackTags maps every tree to its fallback tag.
func (c *Config) FallbackTags() map[string]string {
	tags := make(map[string]string, len(c.Trees))
	for name, t := range c.Trees {
		tags[name] = t.FallbackTag
	}
	return tags
}

// TreeNames returns the configured trees in sorted order.
func (c *Config) TreeNames() []string {
	names := make([]string, 0, len(c.Trees))
	for name := range c.Trees {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// HasTree reports whether name is a configured tree.
func (c *Config) HasTree(name string) bool {
	_, ok := c.Trees[name]
	return ok
}

func resolve(base, dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}
