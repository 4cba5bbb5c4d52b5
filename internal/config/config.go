// Package config loads conversion settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound    = errors.New("config file not found")
	ErrEmptyConfigName   = errors.New("config name cannot be empty")
	ErrConfigParse       = errors.New("failed to parse config")
	ErrFieldTooLong      = errors.New("field exceeds maximum length")
	ErrInvalidFieldValue = errors.New("invalid field value")
)

// Field length limits.
const (
	MaxTitleLength    = 200  // Document title
	MaxAuthorLength   = 100  // Author name
	MaxSubjectLength  = 200  // Subject line
	MaxKeywordsLength = 500  // Comma-separated keywords
	MaxFormatLength   = 100  // Page number format string
	MaxPageSizeLength = 10   // "letter", "a4", "legal"
	MaxMarginLength   = 20   // "2cm", "0.75in"
	MaxThemeLength    = 50   // Theme name
	MaxPathLength     = 2048 // CSS or output paths
)

// Config holds all configuration for document conversion.
type Config struct {
	Style       StyleConfig       `yaml:"style"`
	Page        PageConfig        `yaml:"page"`
	PageNumbers PageNumbersConfig `yaml:"pageNumbers"`
	TOC         TOCConfig         `yaml:"toc"`
	Cover       CoverConfig       `yaml:"cover"`
	Metadata    MetadataConfig    `yaml:"metadata"`
	Output      OutputConfig      `yaml:"output"`
}

// StyleConfig defines visual styling options.
type StyleConfig struct {
	Theme string `yaml:"theme"` // Built-in theme name (mutually exclusive with css)
	CSS   string `yaml:"css"`   // Path to a custom stylesheet
}

// PageConfig defines PDF page geometry.
type PageConfig struct {
	Size         string `yaml:"size"`         // "a4", "a3", "a5", "letter", "legal"
	MarginTop    string `yaml:"marginTop"`    // CSS length, e.g. "2cm"
	MarginBottom string `yaml:"marginBottom"` // CSS length
	MarginLeft   string `yaml:"marginLeft"`   // CSS length
	MarginRight  string `yaml:"marginRight"`  // CSS length
}

// PageNumbersConfig defines page footer numbering options.
type PageNumbersConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Position string `yaml:"position"` // "left", "center", "right"
	Format   string `yaml:"format"`   // e.g. "Page {page} of {pages}"
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	Enabled bool `yaml:"enabled"`
}

// CoverConfig defines cover page options.
type CoverConfig struct {
	Enabled bool `yaml:"enabled"`
}

// MetadataConfig defines document metadata embedded in the PDF.
type MetadataConfig struct {
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Subject  string `yaml:"subject"`
	Keywords string `yaml:"keywords"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir               string `yaml:"dir"`               // Output directory (empty = alongside source)
	PreserveStructure bool   `yaml:"preserveStructure"` // Mirror input directory layout
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("style.theme", c.Style.Theme, MaxThemeLength); err != nil {
		return err
	}
	if err := validateFieldLength("style.css", c.Style.CSS, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	for _, m := range []struct {
		field string
		value string
	}{
		{"page.marginTop", c.Page.MarginTop},
		{"page.marginBottom", c.Page.MarginBottom},
		{"page.marginLeft", c.Page.MarginLeft},
		{"page.marginRight", c.Page.MarginRight},
	} {
		if err := validateFieldLength(m.field, m.value, MaxMarginLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("pageNumbers.format", c.PageNumbers.Format, MaxFormatLength); err != nil {
		return err
	}
	if c.PageNumbers.Position != "" {
		switch strings.ToLower(c.PageNumbers.Position) {
		case "left", "center", "right":
			// valid
		default:
			return fmt.Errorf("%w: pageNumbers.position %q (must be left, center, or right)", ErrInvalidFieldValue, c.PageNumbers.Position)
		}
	}

	if err := validateFieldLength("metadata.title", c.Metadata.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("metadata.author", c.Metadata.Author, MaxAuthorLength); err != nil {
		return err
	}
	if err := validateFieldLength("metadata.subject", c.Metadata.Subject, MaxSubjectLength); err != nil {
		return err
	}
	if err := validateFieldLength("metadata.keywords", c.Metadata.Keywords, MaxKeywordsLength); err != nil {
		return err
	}

	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration with all features disabled.
func DefaultConfig() *Config {
	return &Config{
		Style:       StyleConfig{},
		Page:        PageConfig{},
		PageNumbers: PageNumbersConfig{Enabled: false},
		TOC:         TOCConfig{Enabled: false},
		Cover:       CoverConfig{Enabled: false},
		Output:      OutputConfig{},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/mdpress/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "mdpress", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
