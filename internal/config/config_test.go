package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/stegoscan/internal/model"
)

// TestNewConfig tests default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.MaxMessageBytes != 1024 {
		t.Errorf("MaxMessageBytes = %d, want 1024", cfg.MaxMessageBytes)
	}
	if cfg.PrintableRatio != 0.8 {
		t.Errorf("PrintableRatio = %v, want 0.8", cfg.PrintableRatio)
	}
	if cfg.Channel != model.ChannelBlue {
		t.Errorf("Channel = %v, want blue", cfg.Channel)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("BatchSize = %d, want %d", cfg.BatchSize, DefaultBatchSize)
	}
	if len(cfg.Extensions) != 2 {
		t.Errorf("Extensions = %v, want [.png .bmp]", cfg.Extensions)
	}
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.Targets = []string{"image.png"}
		return cfg
	}

	t.Run("accepts valid configuration", func(t *testing.T) {
		t.Parallel()

		if err := valid().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "no targets",
			mutate:  func(c *Config) { c.Targets = nil },
			wantErr: ErrNoTarget,
		},
		{
			name:    "zero max message bytes",
			mutate:  func(c *Config) { c.MaxMessageBytes = 0 },
			wantErr: ErrInvalidMaxMessageBytes,
		},
		{
			name:    "printable ratio above one",
			mutate:  func(c *Config) { c.PrintableRatio = 1.5 },
			wantErr: ErrInvalidPrintableRatio,
		},
		{
			name:    "printable ratio zero",
			mutate:  func(c *Config) { c.PrintableRatio = 0 },
			wantErr: ErrInvalidPrintableRatio,
		},
		{
			name:    "invalid channel",
			mutate:  func(c *Config) { c.Channel = model.Channel(9) },
			wantErr: ErrInvalidChannel,
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.BatchSize = 0 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name:    "negative megapixel limit",
			mutate:  func(c *Config) { c.MaxImageMegapixels = -1 },
			wantErr: ErrInvalidMaxMegapixels,
		},
		{
			name:    "json and markdown together",
			mutate:  func(c *Config) { c.JSONReport = true; c.MarkdownReport = true },
			wantErr: ErrConflictingReportFormats,
		},
		{
			name:    "markdown and csv together",
			mutate:  func(c *Config) { c.MarkdownReport = true; c.CSVReport = true },
			wantErr: ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestLoadConfigFile tests YAML config file loading and merging.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads and applies settings", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := []byte(`
maxMessageBytes: 2048
printableRatio: 0.9
channel: red
batchSize: 8
extensions:
  - .png
`)
		if err := os.WriteFile(path, content, 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile failed: %v", err)
		}

		cfg := NewConfig()
		if err := cf.Apply(cfg); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}

		if cfg.MaxMessageBytes != 2048 {
			t.Errorf("MaxMessageBytes = %d, want 2048", cfg.MaxMessageBytes)
		}
		if cfg.PrintableRatio != 0.9 {
			t.Errorf("PrintableRatio = %v, want 0.9", cfg.PrintableRatio)
		}
		if cfg.Channel != model.ChannelRed {
			t.Errorf("Channel = %v, want red", cfg.Channel)
		}
		if cfg.BatchSize != 8 {
			t.Errorf("BatchSize = %d, want 8", cfg.BatchSize)
		}
		if len(cfg.Extensions) != 1 || cfg.Extensions[0] != ".png" {
			t.Errorf("Extensions = %v, want [.png]", cfg.Extensions)
		}
	})

	t.Run("unset fields keep defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("batchSize: 2\n"), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile failed: %v", err)
		}

		cfg := NewConfig()
		if err := cf.Apply(cfg); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}

		if cfg.BatchSize != 2 {
			t.Errorf("BatchSize = %d, want 2", cfg.BatchSize)
		}
		if cfg.MaxMessageBytes != DefaultMaxMessageBytes {
			t.Errorf("MaxMessageBytes = %d, want default", cfg.MaxMessageBytes)
		}
	})

	t.Run("invalid channel name fails on apply", func(t *testing.T) {
		t.Parallel()

		cf := &File{Channel: "magenta"}
		if err := cf.Apply(NewConfig()); err == nil {
			t.Error("expected error for invalid channel name")
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("::bad:yaml:["), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for malformed yaml")
		}
	})
}

// TestFindConfigFile tests explicit config path resolution.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path wins", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile = %q, want %q", got, path)
		}
	})

	t.Run("explicit missing path yields empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "absent")); got != "" {
			t.Errorf("FindConfigFile = %q, want empty", got)
		}
	})
}
