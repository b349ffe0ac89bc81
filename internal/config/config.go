// Package config loads the manager's YAML configuration, writing a default
// scaffold on first run so a fresh checkout works without setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config filename looked up when none is given.
const DefaultFile = "config.yaml"

// Config is the full manager configuration.
type Config struct {
	Paths    Paths    `yaml:"paths"`
	Settings Settings `yaml:"settings"`
	Logging  Logging  `yaml:"logging"`
}

// Paths locates the manager's data files.
type Paths struct {
	RecipesFile   string `yaml:"recipes_file"`
	AddonsDBFile  string `yaml:"addons_db_file"`
	JournalFile   string `yaml:"journal_file"`
	ExportDefault string `yaml:"export_default"`
}

// Settings tunes addon fetching.
type Settings struct {
	DBMaxAgeDays    int    `yaml:"db_max_age_days"`
	KubeJSAddonsURL string `yaml:"kubejs_addons_url"`
}

// Logging controls log verbosity.
type Logging struct {
	Level string `yaml:"level"`
}

// Default returns the configuration written on first run.
func Default() Config {
	return Config{
		Paths: Paths{
			RecipesFile:   "recipes.json",
			AddonsDBFile:  "addons_db.json",
			JournalFile:   "journal.db",
			ExportDefault: "export.js",
		},
		Settings: Settings{
			DBMaxAgeDays:    7,
			KubeJSAddonsURL: "https://kubejs.com/wiki/addons",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Load reads the config file at path. A missing file is scaffolded with
// defaults and the defaults returned; an unreadable or malformed file is an
// error rather than a silent fallback.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := write(path, cfg); err != nil {
				return Config{}, err
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Paths.RecipesFile == "" {
		return fmt.Errorf("paths.recipes_file must not be empty")
	}
	if c.Settings.DBMaxAgeDays < 0 {
		return fmt.Errorf("settings.db_max_age_days must not be negative")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

func write(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
