// Package config resolves tinct-shell settings from defaults, a JSON file
// and the environment. Command-line flags are applied on top by the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jmylchreest/tinct-shell/internal/colour"
	"github.com/jmylchreest/tinct-shell/internal/render"
)

const (
	appName = "tinct-shell"

	// EnvPrefix is prepended to every environment override.
	EnvPrefix = "TINCT_SHELL_"

	// FileName is the config file inside $XDG_CONFIG_HOME/tinct-shell.
	FileName = "config.json"
)

// Config holds the resolved settings.
type Config struct {
	ThemeDir        string `json:"theme_dir"`
	ThemeName       string `json:"theme_name"`
	NeutralTheme    string `json:"neutral_theme"`
	Algorithm       string `json:"algorithm"`
	ExtractorPlugin string `json:"extractor_plugin"`
	DataDir         string `json:"data_dir"`
	FontMarker      string `json:"font_marker"`
	Cache           bool   `json:"cache"`
}

// Default returns the built-in settings.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		ThemeDir:     filepath.Join(home, ".themes", "CustomTheme", "gnome-shell"),
		ThemeName:    "CustomTheme",
		NeutralTheme: "default",
		Algorithm:    string(colour.AlgorithmMedianCut),
		DataDir:      filepath.Join(xdgDir("XDG_DATA_HOME", home, ".local", "share"), appName),
		FontMarker:   render.DefaultFontMarker,
		Cache:        true,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", home, ".config"), appName, FileName)
}

func xdgDir(env, home string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// Builder layers configuration sources over the defaults.
type Builder struct {
	config   Config
	filePath string
	required bool
	useEnv   bool
}

// NewBuilder creates a Builder starting from Default.
func NewBuilder() *Builder {
	return &Builder{config: Default()}
}

// WithFile reads path after the defaults. A missing file is an error only
// when required is set.
func (b *Builder) WithFile(path string, required bool) *Builder {
	b.filePath = path
	b.required = required
	return b
}

// WithEnvConfig applies TINCT_SHELL_* variables after the file.
func (b *Builder) WithEnvConfig() *Builder {
	b.useEnv = true
	return b
}

// Build resolves and validates the configuration.
func (b *Builder) Build() (Config, error) {
	config := b.config

	if b.filePath != "" {
		if err := loadFile(b.filePath, &config); err != nil {
			if !errors.Is(err, os.ErrNotExist) || b.required {
				return Config{}, err
			}
		}
	}

	if b.useEnv {
		if err := applyEnv(&config); err != nil {
			return Config{}, err
		}
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path) // #nosec G304 - User config path
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(config *Config) error {
	fields := map[string]*string{
		"THEME_DIR":        &config.ThemeDir,
		"THEME_NAME":       &config.ThemeName,
		"NEUTRAL_THEME":    &config.NeutralTheme,
		"ALGORITHM":        &config.Algorithm,
		"EXTRACTOR_PLUGIN": &config.ExtractorPlugin,
		"DATA_DIR":         &config.DataDir,
		"FONT_MARKER":      &config.FontMarker,
	}
	for key, dst := range fields {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "CACHE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sCACHE: %w", EnvPrefix, err)
		}
		config.Cache = b
	}
	return nil
}

// Validate checks the settings that cannot be defaulted.
func (c Config) Validate() error {
	if c.ThemeName == "" {
		return fmt.Errorf("theme_name cannot be empty")
	}
	if c.FontMarker == "" {
		return fmt.Errorf("font_marker cannot be empty")
	}
	if !colour.IsValidAlgorithm(colour.Algorithm(c.Algorithm)) {
		return fmt.Errorf("invalid algorithm: %s (valid algorithms: %v)", c.Algorithm, colour.ValidAlgorithms())
	}
	return nil
}
