// Package config models the resolved, read-only settings for one build call.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is constructed once per build and never mutated afterwards.
type Config struct {
	Title       string `yaml:"title" toml:"title"`
	Description string `yaml:"description" toml:"description"`
	Author      string `yaml:"author" toml:"author"`
	BaseURL     string `yaml:"base_url" toml:"base_url"`
	Theme       string `yaml:"theme" toml:"theme"`

	ContentDir string `yaml:"content_dir" toml:"content_dir"`
	OutputDir  string `yaml:"output_dir" toml:"output_dir"`
	ThemesDir  string `yaml:"themes_dir" toml:"themes_dir"`
	StaticDir  string `yaml:"static_dir" toml:"static_dir"`

	BuildDrafts bool `yaml:"build_drafts" toml:"build_drafts"`
	PerPage     int  `yaml:"per_page" toml:"per_page"`

	// ExcerptLength caps generated excerpts (runes, word-boundary truncated).
	ExcerptLength int `yaml:"excerpt_length" toml:"excerpt_length"`

	DefaultLanguage string     `yaml:"default_language" toml:"default_language"`
	Languages       []Language `yaml:"languages" toml:"languages"`

	// ContentTypes overrides or extends the built-in type registry,
	// keyed by directory name.
	ContentTypes map[string]ContentType `yaml:"content_types" toml:"content_types"`

	HighlightStyle string `yaml:"highlight_style" toml:"highlight_style"`

	// SearchIndex enables bleve search index generation in the
	// best-effort tail of the build.
	SearchIndex bool `yaml:"search_index" toml:"search_index"`
}

// Language describes one configured site language with optional per-language
// presentation overrides.
type Language struct {
	Code        string `yaml:"code" toml:"code"`
	Name        string `yaml:"name" toml:"name"`
	Title       string `yaml:"title" toml:"title"`
	Description string `yaml:"description" toml:"description"`
}

// ContentType is a registered content-type definition.
type ContentType struct {
	Dir            string   `yaml:"dir" toml:"dir"`
	URLPrefix      string   `yaml:"url_prefix" toml:"url_prefix"`
	DefaultLayout  string   `yaml:"default_layout" toml:"default_layout"`
	RequiredFields []string `yaml:"required_fields" toml:"required_fields"`
	// Dated types get a validation warning when an item carries no date.
	Dated bool `yaml:"dated" toml:"dated"`
}

// Load reads a configuration file (YAML or TOML by extension), expands
// environment variables, applies defaults and normalizes paths relative to
// the file's directory.
func Load(path string) (*Config, error) {
	// A .env alongside the config participates in expansion; absence is fine.
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ApplyDefaults()
	cfg.resolvePaths(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolvePaths(base string) {
	for _, dir := range []*string{&c.ContentDir, &c.OutputDir, &c.ThemesDir, &c.StaticDir} {
		if *dir != "" && !filepath.IsAbs(*dir) {
			*dir = filepath.Join(base, *dir)
		}
	}
}

// Validate reports configuration contradictions that defaults cannot repair.
func (c *Config) Validate() error {
	if c.PerPage < 1 {
		return fmt.Errorf("per_page must be >= 1, got %d", c.PerPage)
	}
	if c.DefaultLanguage == "" {
		return fmt.Errorf("default_language must not be empty")
	}
	seen := make(map[string]struct{}, len(c.Languages))
	for _, lang := range c.Languages {
		if lang.Code == "" {
			return fmt.Errorf("language with empty code")
		}
		if _, dup := seen[lang.Code]; dup {
			return fmt.Errorf("duplicate language code %q", lang.Code)
		}
		seen[lang.Code] = struct{}{}
	}
	if _, ok := seen[c.DefaultLanguage]; !ok {
		return fmt.Errorf("default_language %q is not in languages", c.DefaultLanguage)
	}
	return nil
}

// LanguageCodes returns the configured codes in declaration order.
func (c *Config) LanguageCodes() []string {
	codes := make([]string, 0, len(c.Languages))
	for _, l := range c.Languages {
		codes = append(codes, l.Code)
	}
	return codes
}

// HasLanguage reports whether code is configured.
func (c *Config) HasLanguage(code string) bool {
	for _, l := range c.Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// LanguageTitle returns the per-language title override, falling back to the
// site title.
func (c *Config) LanguageTitle(code string) string {
	for _, l := range c.Languages {
		if l.Code == code && l.Title != "" {
			return l.Title
		}
	}
	return c.Title
}

// TypeFor returns the registered content-type definition for a directory
// name, if one exists.
func (c *Config) TypeFor(dir string) (ContentType, bool) {
	ct, ok := c.ContentTypes[dir]
	return ct, ok
}
