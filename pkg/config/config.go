// Package config handles loading and saving scopick configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/scopick/config.yaml
//   - Data:    ~/.local/share/scopick/ (catalogs)
//   - State:   ~/.local/state/scopick/ (session logs)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CatalogRef is a named catalog source registered in the config, so
// `scopick --data work` resolves without typing the path every time.
type CatalogRef struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	// ExpandCategories/ExpandGeographies set the initial expansion default
	// per tree: the category tree traditionally opens expanded, the
	// geography tree collapsed.
	ExpandCategories  *bool   `yaml:"expand_categories,omitempty"`
	ExpandGeographies *bool   `yaml:"expand_geographies,omitempty"`
	Theme             string  `yaml:"theme,omitempty"`         // dark, light
	SidebarRatio      float64 `yaml:"sidebar_ratio,omitempty"` // selected-panel width share (0.2-0.5)
}

// ExportConfig controls where finished scopes land.
type ExportConfig struct {
	Dir string `yaml:"dir,omitempty"` // defaults to the working directory
}

// LogConfig controls the session log file.
type LogConfig struct {
	File  string `yaml:"file,omitempty"`  // defaults to <state dir>/scopick.log
	Level string `yaml:"level,omitempty"` // debug, info, warn, error
}

// Config is the top-level configuration for scopick.
type Config struct {
	DataDir  string       `yaml:"data_dir,omitempty"` // where to look for catalogs first
	Catalogs []CatalogRef `yaml:"catalogs,omitempty"`
	UI       UIConfig     `yaml:"ui,omitempty"`
	Export   ExportConfig `yaml:"export,omitempty"`
	Log      LogConfig    `yaml:"log,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	expandCats := true
	expandGeos := false
	return Config{
		UI: UIConfig{
			ExpandCategories:  &expandCats,
			ExpandGeographies: &expandGeos,
			Theme:             "dark",
			SidebarRatio:      0.35,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ExpandCategories resolves the category-tree expansion default.
func (c Config) ExpandCategories() bool {
	if c.UI.ExpandCategories == nil {
		return true
	}
	return *c.UI.ExpandCategories
}

// ExpandGeographies resolves the geography-tree expansion default.
func (c Config) ExpandGeographies() bool {
	if c.UI.ExpandGeographies == nil {
		return false
	}
	return *c.UI.ExpandGeographies
}

// ConfigDir returns the XDG config directory for scopick.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "scopick")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "scopick")
}

// DataDir returns the XDG data directory for scopick.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "scopick")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "scopick")
}

// StateDir returns the XDG state directory for scopick.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "scopick")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "scopick")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DefaultLogPath returns the session log location used when the config does
// not name one.
func DefaultLogPath() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "scopick.log")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// Expand ~ in user-supplied paths
	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.Export.Dir = expandHome(cfg.Export.Dir)
	cfg.Log.File = expandHome(cfg.Log.File)
	for i := range cfg.Catalogs {
		cfg.Catalogs[i].Path = expandHome(cfg.Catalogs[i].Path)
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// FindCatalog returns the registered catalog with the given name, or nil.
func (c Config) FindCatalog(name string) *CatalogRef {
	for i := range c.Catalogs {
		if strings.EqualFold(c.Catalogs[i].Name, name) {
			return &c.Catalogs[i]
		}
	}
	return nil
}

// ResolvedPath returns the catalog path with ~ expanded.
func (r CatalogRef) ResolvedPath() string {
	return expandHome(r.Path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
