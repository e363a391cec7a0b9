// Package config loads the exprjit driver's configuration from a TOML
// file, falling back to built-in defaults when no file exists.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config controls how the driver compiles and runs expressions.
type Config struct {
	// Execution settings.
	Execution struct {
		StepLimit   int    `toml:"step_limit"`
		StackSize   uint   `toml:"stack_size"`
		Backend     string `toml:"backend"` // "emulate" or "hardware"
		EnableTrace bool   `toml:"enable_trace"`
	} `toml:"execution"`

	// Builtins controls which host externs are available to compiled
	// expressions.
	Builtins struct {
		EnableDiv bool `toml:"enable_div"`
		EnableMod bool `toml:"enable_mod"`
		EnableInc bool `toml:"enable_inc"`
		EnableDec bool `toml:"enable_dec"`
	} `toml:"builtins"`

	// Display settings.
	Display struct {
		NumberFormat string `toml:"number_format"` // "dec" or "hex"
	} `toml:"display"`
}

// DefaultConfig returns the baseline behavior: emulated execution, all
// four builtins enabled, decimal output.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Execution.StepLimit = 10000
	cfg.Execution.StackSize = 16384
	cfg.Execution.Backend = "emulate"
	cfg.Execution.EnableTrace = false

	cfg.Builtins.EnableDiv = true
	cfg.Builtins.EnableMod = true
	cfg.Builtins.EnableInc = true
	cfg.Builtins.EnableDec = true

	cfg.Display.NumberFormat = "dec"
	return cfg
}

// GetConfigPath returns the platform-specific config file path,
// creating its directory if necessary.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "exprjit")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "exprjit")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, falling back to defaults if
// the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveTo writes configuration to path, creating its directory if
// necessary.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
