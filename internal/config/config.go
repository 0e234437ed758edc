// Package config loads pdfinbox settings from a YAML or TOML file, fills
// in defaults for anything left unset and validates the result.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pdfinbox/internal/errors"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Collision strategies applied when an imported file already exists in the
// managed directory.
const (
	CollisionRename    = "rename"
	CollisionSkip      = "skip"
	CollisionOverwrite = "overwrite"
)

const appName = "pdfinbox"

// Directories names the two scanned directories.
type Directories struct {
	Managed   string `yaml:"managed" toml:"managed"`     // Destination, e.g. ~/papers
	Unmanaged string `yaml:"unmanaged" toml:"unmanaged"` // Source, e.g. ~/Downloads
}

// Settings control how imports move files.
type Settings struct {
	Collision  string `yaml:"collision" toml:"collision"`     // rename, skip or overwrite
	DryRun     bool   `yaml:"dry_run" toml:"dry_run"`         // Report the move without doing it
	CreateDirs bool   `yaml:"create_dirs" toml:"create_dirs"` // Create the managed directory when missing
	Backup     bool   `yaml:"backup" toml:"backup"`           // Keep a .bak copy of an overwritten file
}

// Watch configures filesystem change notifications.
type Watch struct {
	Enabled    bool `yaml:"enabled" toml:"enabled"`
	DebounceMS int  `yaml:"debounce_ms" toml:"debounce_ms"`
}

// Keys maps each logical action to a comma separated list of key names as
// understood by bubbletea (e.g. "k,up", "ctrl+c").
type Keys struct {
	ScrollUp   string `yaml:"scroll_up" toml:"scroll_up"`
	ScrollDown string `yaml:"scroll_down" toml:"scroll_down"`
	Enter      string `yaml:"enter" toml:"enter"`
	Exit       string `yaml:"exit" toml:"exit"`
	Quit       string `yaml:"quit" toml:"quit"`
	FocusLeft  string `yaml:"focus_left" toml:"focus_left"`
	FocusRight string `yaml:"focus_right" toml:"focus_right"`
}

// Theme holds the colors used by the TUI. Only Name needs to be set; the
// colors are filled from the named palette.
type Theme struct {
	Name        string `yaml:"name" toml:"name"`
	Primary     string `yaml:"primary,omitempty" toml:"primary,omitempty"`
	Focus       string `yaml:"focus,omitempty" toml:"focus,omitempty"`
	Border      string `yaml:"border,omitempty" toml:"border,omitempty"`
	HighlightBg string `yaml:"highlight_bg,omitempty" toml:"highlight_bg,omitempty"`
	HighlightFg string `yaml:"highlight_fg,omitempty" toml:"highlight_fg,omitempty"`
	Success     string `yaml:"success,omitempty" toml:"success,omitempty"`
	Error       string `yaml:"error,omitempty" toml:"error,omitempty"`
	Muted       string `yaml:"muted,omitempty" toml:"muted,omitempty"`
}

// Log configures the log file.
type Log struct {
	File  string `yaml:"file" toml:"file"` // Empty discards log output
	Debug bool   `yaml:"debug" toml:"debug"`
	JSON  bool   `yaml:"json" toml:"json"`
}

// History configures the import history database.
type History struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
}

// Config represents the application configuration structure.
type Config struct {
	Directories Directories `yaml:"directories" toml:"directories"`
	Settings    Settings    `yaml:"settings" toml:"settings"`
	Watch       Watch       `yaml:"watch" toml:"watch"`
	Keys        Keys        `yaml:"keys" toml:"keys"`
	Theme       Theme       `yaml:"theme" toml:"theme"`
	Log         Log         `yaml:"log" toml:"log"`
	History     History     `yaml:"history" toml:"history"`
}

// ConfigDir returns $XDG_CONFIG_HOME/pdfinbox, falling back to
// ~/.config/pdfinbox.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultPath returns the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(fallback, appName)
	}
	return filepath.Join(home, fallback, appName)
}

// LoadConfig loads configuration from the default location. A TOML file
// next to it is used when no YAML file exists.
func LoadConfig() (*Config, error) {
	path := DefaultPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		alt := filepath.Join(ConfigDir(), "config.toml")
		if _, err := os.Stat(alt); err == nil {
			path = alt
		}
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.finish()
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.ConfigNotFound, err)
	}

	// Decode over the defaults so that absent keys keep their default value.
	if err := decode(path, data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	cfg.finish()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch format(path) {
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	}
	return ""
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Directories.Managed = "~/papers"
	cfg.Directories.Unmanaged = "~/Downloads"

	cfg.Settings.Collision = CollisionRename
	cfg.Settings.DryRun = false
	cfg.Settings.CreateDirs = true
	cfg.Settings.Backup = false

	cfg.Watch.Enabled = true
	cfg.Watch.DebounceMS = 250

	cfg.Keys = DefaultKeys()

	cfg.Log.File = filepath.Join(xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state")), "pdfinbox.log")

	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")), "history.db")

	cfg.Theme.Name = "default"
	return cfg
}

// DefaultKeys returns the stock key bindings.
func DefaultKeys() Keys {
	return Keys{
		ScrollUp:   "k,up",
		ScrollDown: "j,down",
		Enter:      "enter",
		Exit:       "ctrl+c",
		Quit:       "q",
		FocusLeft:  "left",
		FocusRight: "right",
	}
}

// New returns the default configuration with paths expanded.
func New() *Config {
	cfg := defaultConfig()
	cfg.finish()
	return cfg
}

// SaveConfig writes the configuration in the format implied by the file
// extension. It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch format(path) {
	case "toml":
		data, err = toml.Marshal(cfg)
	case "yaml":
		data, err = yaml.Marshal(cfg)
	default:
		return errors.NewConfigError("unsupported config format", path, errors.InvalidConfig, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// reservedKeys drive focus and cannot be assigned to an action.
var reservedKeys = map[string]bool{"tab": true, "esc": true, "/": true}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	switch c.Settings.Collision {
	case CollisionRename, CollisionSkip, CollisionOverwrite:
	default:
		return errors.NewConfigError("invalid collision setting", "settings.collision", errors.InvalidConfig,
			fmt.Errorf("%q is not one of rename, skip, overwrite", c.Settings.Collision))
	}

	if c.Directories.Managed == "" {
		return errors.NewConfigError("directory is required", "directories.managed", errors.InvalidConfig, nil)
	}
	if c.Directories.Unmanaged == "" {
		return errors.NewConfigError("directory is required", "directories.unmanaged", errors.InvalidConfig, nil)
	}
	if filepath.Clean(c.Directories.Managed) == filepath.Clean(c.Directories.Unmanaged) {
		return errors.NewConfigError("managed and unmanaged directories must differ", "directories", errors.InvalidConfig, nil)
	}

	if c.Watch.DebounceMS < 0 {
		return errors.NewConfigError("debounce must be >= 0", "watch.debounce_ms", errors.InvalidConfig, nil)
	}

	if !knownTheme(c.Theme.Name) {
		return errors.NewConfigError("unknown theme", "theme.name", errors.InvalidConfig,
			fmt.Errorf("%q, available: %s", c.Theme.Name, strings.Join(ListThemes(), ", ")))
	}

	if c.History.Enabled && c.History.Path == "" {
		return errors.NewConfigError("history path is required when history is enabled", "history.path", errors.InvalidConfig, nil)
	}

	return c.Keys.Validate()
}

// Validate checks that every action has at least one key, that no
// reserved focus key is rebound and that no key drives two actions.
func (k Keys) Validate() error {
	owner := make(map[string]string)
	for _, b := range k.bindings() {
		keys := SplitKeys(b.value)
		if len(keys) == 0 {
			return errors.NewConfigError("no key bound", "keys."+b.name, errors.InvalidConfig, nil)
		}
		for _, key := range keys {
			if reservedKeys[key] {
				return errors.NewConfigError("reserved key cannot be rebound", "keys."+b.name, errors.InvalidConfig,
					fmt.Errorf("%q", key))
			}
			if other, ok := owner[key]; ok && other != b.name {
				return errors.NewConfigError("key bound to two actions", "keys."+b.name, errors.InvalidConfig,
					fmt.Errorf("%q is already bound to %s", key, other))
			}
			owner[key] = b.name
		}
	}
	return nil
}

type namedBinding struct {
	name  string
	value string
}

func (k Keys) bindings() []namedBinding {
	return []namedBinding{
		{"scroll_up", k.ScrollUp},
		{"scroll_down", k.ScrollDown},
		{"enter", k.Enter},
		{"exit", k.Exit},
		{"quit", k.Quit},
		{"focus_left", k.FocusLeft},
		{"focus_right", k.FocusRight},
	}
}

// SplitKeys splits a comma separated key list, dropping blanks. A lone ","
// names the comma key itself.
func SplitKeys(s string) []string {
	if strings.TrimSpace(s) == "," {
		return []string{","}
	}
	var keys []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			keys = append(keys, part)
		}
	}
	return keys
}

func (c *Config) finish() {
	c.ApplyTheme(c.Theme.Name)
	c.expand()
}

func (c *Config) expand() {
	c.Directories.Managed = ExpandPath(c.Directories.Managed)
	c.Directories.Unmanaged = ExpandPath(c.Directories.Unmanaged)
	c.Log.File = ExpandPath(c.Log.File)
	c.History.Path = ExpandPath(c.History.Path)
}

// ExpandPath expands environment variables and a leading ~.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return filepath.Clean(p)
}
