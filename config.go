package ankitab

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config controls database discovery and write-back defaults. Values are
// layered: built-in defaults, then an optional YAML file, then ANKITAB_*
// environment variables.
type Config struct {
	// SearchPaths are the roots FindDatabase walks when looking for a
	// collection file.
	SearchPaths []string `koanf:"search_paths" validate:"min=1"`

	// User narrows discovery to one profile directory name. Empty means
	// any, which fails when more than one profile is found.
	User string `koanf:"user"`

	// BackupDir is the default backup location for Write. Empty means a
	// "backups" directory next to the store.
	BackupDir string `koanf:"backup_dir"`

	// MaxDepth bounds how deep FindDatabase descends below each search
	// path.
	MaxDepth int `koanf:"max_depth" validate:"gte=1,lte=16"`

	// Filename is the collection file name to look for.
	Filename string `koanf:"filename" validate:"required"`
}

// DefaultConfig returns the built-in defaults, with the platform's usual
// Anki data directories as search paths.
func DefaultConfig() Config {
	cfg := Config{
		MaxDepth: 4,
		Filename: "collection.anki2",
	}
	home, err := os.UserHomeDir()
	if err != nil {
		cfg.SearchPaths = []string{"."}
		return cfg
	}
	switch runtime.GOOS {
	case "darwin":
		cfg.SearchPaths = []string{filepath.Join(home, "Library", "Application Support", "Anki2")}
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			cfg.SearchPaths = []string{filepath.Join(appdata, "Anki2")}
		} else {
			cfg.SearchPaths = []string{filepath.Join(home, "AppData", "Roaming", "Anki2")}
		}
	default:
		cfg.SearchPaths = []string{
			filepath.Join(home, ".local", "share", "Anki2"),
			filepath.Join(home, "Anki"),
		}
	}
	return cfg
}

// LoadConfig builds a Config from the defaults, the YAML file at path
// (skipped when path is empty), and ANKITAB_* environment variables, in
// that order. The result is validated before being returned.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider("ANKITAB_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "ANKITAB_"))
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config from environment: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
