// Package config defines core configuration types for qfix.
// These types are pure data structures; loading lives in internal/configloader.
package config

import "fmt"

// ColorMode controls colorized output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the color mode is known.
func (c ColorMode) IsValid() bool {
	switch c {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// ApplyConfig controls how accepted fixes are applied.
// A nil field is unset and lets an earlier configuration layer decide.
type ApplyConfig struct {
	// Write saves changed files instead of printing a preview.
	Write *bool `yaml:"write,omitempty"`

	// All applies every applicable fix of an issue, not only the first one.
	All *bool `yaml:"all,omitempty"`
}

// WriteEnabled reports whether changed files are saved. Unset means false.
func (a ApplyConfig) WriteEnabled() bool {
	return a.Write != nil && *a.Write
}

// AllEnabled reports whether every fix of an issue is applied. Unset means false.
func (a ApplyConfig) AllEnabled() bool {
	return a.All != nil && *a.All
}

// Bool returns a pointer to v, for setting optional fields.
func Bool(v bool) *bool {
	return &v
}

// Config is the root configuration structure for qfix.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Color selects colorized output.
	Color ColorMode `yaml:"color"`

	// Root is the directory relative file handles resolve against.
	Root string `yaml:"root"`

	// Apply configures the apply command.
	Apply ApplyConfig `yaml:"apply"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel: "info",
		Color:    ColorAuto,
		Root:     ".",
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Apply.Write = cloneBool(c.Apply.Write)
	clone.Apply.All = cloneBool(c.Apply.All)
	return &clone
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// ValidationError describes an invalid configuration value.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// Validate checks the configuration for unknown values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Field: "log_level", Value: c.LogLevel, Message: "expected debug, info, warn or error"}
	}
	if !c.Color.IsValid() {
		return &ValidationError{Field: "color", Value: string(c.Color), Message: "expected auto, always or never"}
	}
	if c.Root == "" {
		return &ValidationError{Field: "root", Value: c.Root, Message: "must not be empty"}
	}
	return nil
}
