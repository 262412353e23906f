// Package config loads the cbx configuration file and builds the logger.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/etnz/cambio"
	toml "github.com/pelletier/go-toml/v2"
)

// Environment variables override the configuration file. They are also how global settings
// are handed to cbx-<name> extensions.
const (
	EnvMovements = "CBX_MOVEMENTS"
	EnvInitial   = "CBX_INITIAL_BALANCES"
	EnvLogLevel  = "CBX_LOG_LEVEL"
	EnvStyle     = "CBX_STYLE"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "cbx.toml"

// Config holds the settings of the cbx tool.
type Config struct {
	Movements       string   `toml:"movements"`        // JSONL movements file
	InitialBalances string   `toml:"initial_balances"` // JSON object of opening balances, optional
	LogLevel        string   `toml:"log_level"`
	Style           string   `toml:"style"` // terminal rendering style: auto, dark, light, notty
	WordWrap        int      `toml:"word_wrap"`
	Lenders         []Lender `toml:"lenders"`
}

// Lender declares a lender client, so that it is reported even before its first movement.
type Lender struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Movements: "movements.jsonl",
		LogLevel:  "info",
		Style:     "auto",
		WordWrap:  100,
	}
}

// LoadConfig loads configuration from files with environment overrides. Missing files are
// skipped; later files override earlier ones.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if v := os.Getenv(EnvMovements); v != "" {
		config.Movements = v
	}
	if v := os.Getenv(EnvInitial); v != "" {
		config.InitialBalances = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv(EnvStyle); v != "" {
		config.Style = v
	}
}

func (c *Config) validate() error {
	c.Style = strings.ToLower(strings.TrimSpace(c.Style))
	switch c.Style {
	case "", "auto", "dark", "light", "notty", "ascii", "dracula", "pink", "tokyo-night":
	default:
		return fmt.Errorf("unknown style %q", c.Style)
	}
	for i, l := range c.Lenders {
		if strings.TrimSpace(l.ID) == "" && strings.TrimSpace(l.Name) == "" {
			return fmt.Errorf("lender #%d has neither an id nor a name", i+1)
		}
	}
	return nil
}

// Env returns the settings as environment variable assignments.
func (c *Config) Env() []string {
	return []string{
		EnvMovements + "=" + c.Movements,
		EnvInitial + "=" + c.InitialBalances,
		EnvLogLevel + "=" + c.LogLevel,
		EnvStyle + "=" + c.Style,
	}
}

// KnownLenders merges the declared lenders with the ones found in the movements. Declared
// lenders come first, in declaration order.
func (c *Config) KnownLenders(movements []cambio.Movement) []cambio.Lender {
	var lenders []cambio.Lender
	for _, l := range c.Lenders {
		lenders = append(lenders, cambio.Lender{ID: strings.TrimSpace(l.ID), Name: strings.TrimSpace(l.Name)})
	}
	for _, found := range cambio.Lenders(movements) {
		known := false
		for _, l := range lenders {
			if (l.ID != "" && l.ID == found.ID) || (l.ID == "" && strings.EqualFold(l.Name, found.Name)) {
				known = true
				break
			}
		}
		if !known {
			lenders = append(lenders, found)
		}
	}
	return lenders
}
