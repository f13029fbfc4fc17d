package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/stegoscan/internal/model"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".stegoscan"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .stegoscan configuration file.
// All fields are optional; unset fields keep their built-in defaults,
// and CLI flags override file values.
type File struct {
	// MaxMessageBytes overrides the decoder's length-gate upper bound.
	MaxMessageBytes int `yaml:"maxMessageBytes,omitempty"`

	// PrintableRatio overrides the printable-ASCII acceptance threshold.
	PrintableRatio float64 `yaml:"printableRatio,omitempty"`

	// Channel overrides the default channel for single-channel operations.
	Channel string `yaml:"channel,omitempty"`

	// BatchSize overrides the number of concurrent batch analyses.
	BatchSize int `yaml:"batchSize,omitempty"`

	// Extensions overrides the file extensions scanned in batch mode.
	Extensions []string `yaml:"extensions,omitempty"`

	// MaxImageMegapixels overrides the accepted image size limit.
	MaxImageMegapixels int `yaml:"maxImageMegapixels,omitempty"`
}

// LoadConfigFile loads scan settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers should
// handle this error based on whether the path was explicitly specified.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Apply copies the file's set values onto the config.
// Unset (zero) file values leave the config untouched, so the merge order
// is: built-in defaults, then config file, then CLI flags.
func (cf *File) Apply(c *Config) error {
	if cf.MaxMessageBytes != 0 {
		c.MaxMessageBytes = cf.MaxMessageBytes
	}
	if cf.PrintableRatio != 0 {
		c.PrintableRatio = cf.PrintableRatio
	}
	if cf.Channel != "" {
		channel, err := model.ParseChannel(cf.Channel)
		if err != nil {
			return fmt.Errorf("config file: %w", err)
		}
		c.Channel = channel
	}
	if cf.BatchSize != 0 {
		c.BatchSize = cf.BatchSize
	}
	if len(cf.Extensions) > 0 {
		c.Extensions = append([]string(nil), cf.Extensions...)
	}
	if cf.MaxImageMegapixels != 0 {
		c.MaxImageMegapixels = cf.MaxImageMegapixels
	}
	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .stegoscan in the current directory
// 3. Look for .stegoscan in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
