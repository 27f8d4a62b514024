// Package config loads cache settings from TOML or YAML files. Decoding
// happens onto a pre-filled defaults struct, so a file only needs to name the
// settings it wants to change.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ashpect/ttlcache/pkg/cache"
)

func defaultSystemCfg() *SystemCfg {
	return &SystemCfg{
		ID: "ttlcache",
		Cache: CacheCfg{
			ClearExpiredMs: 10000,
			LiveTimeMs:     60000,
			MaxSizeKb:      5000,
			Sweep:          true,
			Debug:          false,
		},
	}
}

// Load reads the config file at path, chosen by extension (.toml, .yaml or
// .yml). Settings absent from the file keep their defaults.
func Load(path string) (*SystemCfg, error) {
	cfg := defaultSystemCfg()

	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported extension %q", ext)
	}

	return cfg, nil
}

// ToOptions converts the file representation into cache options. Out-of-range
// values are passed through untouched; the cache's own option sanitizer
// handles fallback and diagnostics.
func (c CacheCfg) ToOptions() cache.Options {
	return cache.Options{
		SweepInterval: time.Duration(c.ClearExpiredMs) * time.Millisecond,
		SweepDisabled: !c.Sweep,
		DefaultTTL:    time.Duration(c.LiveTimeMs) * time.Millisecond,
		MaxSizeKB:     c.MaxSizeKb,
		Debug:         c.Debug,
	}
}
