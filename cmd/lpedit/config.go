package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/fwojciec/lpedit"
)

// Config holds settings read from the TOML configuration file.
type Config struct {
	DBPath        string `toml:"db_path"`
	MinTextLength int    `toml:"min_text_length"`
	Concurrency   int    `toml:"concurrency"`
	Verbose       bool   `toml:"verbose"`
}

// LoadConfig reads the configuration at path. An empty path selects
// ~/.lpedit/config.toml. A missing file yields the zero Config.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	if path == "" {
		path = defaultConfigPath()
	}
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	} else if err != nil {
		return Config{}, lpedit.Errorf(lpedit.EINVALID, "failed to parse %s: %v", path, err)
	}

	if cfg.MinTextLength < 0 {
		return Config{}, lpedit.Errorf(lpedit.EINVALID, "%s: min_text_length must not be negative", path)
	}
	if cfg.Concurrency < 0 {
		return Config{}, lpedit.Errorf(lpedit.EINVALID, "%s: concurrency must not be negative", path)
	}
	return cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lpedit", "config.toml")
}
