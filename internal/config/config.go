package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Margins adjusts a window's frame by class, compensating for client-side
// decorations that make some applications render smaller or larger than the
// geometry they are given.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// Hotkeys binds global key sequences to daemon actions. Sequences use
// xgbutil keybind grammar, e.g. "Mod4-j" or "Mod4-Shift-space".
type Hotkeys struct {
	FocusNext string `yaml:"focus_next"`
	FocusPrev string `yaml:"focus_prev"`
	Retile    string `yaml:"retile"`
}

// Config is the daemon configuration.
type Config struct {
	// ScreenPadding insets the usable screen area on every side before
	// windows are laid out.
	ScreenPadding int `yaml:"screen_padding"`

	// Margins maps a WM_CLASS class name to per-window frame adjustments.
	Margins map[string]Margins `yaml:"margins,omitempty"`

	// ManagedClasses restricts tiling to the listed WM_CLASS names. Empty
	// means every normal window is managed.
	ManagedClasses []string `yaml:"managed_classes,omitempty"`

	// IgnoredClasses are never tiled, even when listed in ManagedClasses.
	IgnoredClasses []string `yaml:"ignored_classes,omitempty"`

	Hotkeys Hotkeys `yaml:"hotkeys"`

	// ResyncSeconds is the interval of the periodic full re-sync that
	// catches missed window events. Zero disables it.
	ResyncSeconds int `yaml:"resync_seconds"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		ScreenPadding: 0,
		Hotkeys: Hotkeys{
			FocusNext: "Mod4-j",
			FocusPrev: "Mod4-k",
			Retile:    "Mod4-r",
		},
		ResyncSeconds: 5,
	}
}

// DefaultConfigPath returns ~/.config/bsptile/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "bsptile", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults without error.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads and validates the configuration at path. A missing
// file yields the defaults without error.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the standard location, creating the
// directory if needed.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration for values the daemon cannot work with.
func (c *Config) Validate() error {
	if c.ScreenPadding < 0 {
		return fmt.Errorf("screen_padding must be >= 0, got %d", c.ScreenPadding)
	}
	if c.ResyncSeconds < 0 {
		return fmt.Errorf("resync_seconds must be >= 0, got %d", c.ResyncSeconds)
	}
	for class := range c.Margins {
		if strings.TrimSpace(class) == "" {
			return fmt.Errorf("margins contains an empty class name")
		}
	}
	return nil
}

// GetMargins returns the margin adjustments for a window class.
func (c *Config) GetMargins(class string) Margins {
	if c.Margins == nil {
		return Margins{}
	}
	return c.Margins[class]
}

// ManagesClass reports whether windows of the given WM_CLASS class should
// be tiled.
func (c *Config) ManagesClass(class string) bool {
	for _, ignored := range c.IgnoredClasses {
		if strings.EqualFold(ignored, class) {
			return false
		}
	}
	if len(c.ManagedClasses) == 0 {
		return true
	}
	for _, managed := range c.ManagedClasses {
		if strings.EqualFold(managed, class) {
			return true
		}
	}
	return false
}
