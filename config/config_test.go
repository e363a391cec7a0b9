package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Execution.StepLimit != 10000 {
		t.Errorf("StepLimit = %d, want 10000", cfg.Execution.StepLimit)
	}
	if cfg.Execution.Backend != "emulate" {
		t.Errorf("Backend = %q, want emulate", cfg.Execution.Backend)
	}
	if !cfg.Builtins.EnableDiv || !cfg.Builtins.EnableMod || !cfg.Builtins.EnableInc || !cfg.Builtins.EnableDec {
		t.Error("expected all builtins enabled by default")
	}
	if cfg.Display.NumberFormat != "dec" {
		t.Errorf("NumberFormat = %q, want dec", cfg.Display.NumberFormat)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Fatal("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("path = %q, want a config.toml file", path)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Execution.StepLimit = 5000
	cfg.Builtins.EnableDiv = false
	cfg.Display.NumberFormat = "hex"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if loaded.Execution.StepLimit != 5000 {
		t.Errorf("StepLimit = %d, want 5000", loaded.Execution.StepLimit)
	}
	if loaded.Builtins.EnableDiv {
		t.Error("expected EnableDiv=false to round-trip")
	}
	if loaded.Display.NumberFormat != "hex" {
		t.Errorf("NumberFormat = %q, want hex", loaded.Display.NumberFormat)
	}
}

func TestLoadNonExistentReturnsDefaults(t *testing.T) {
	tempDir := t.TempDir()
	cfg, err := LoadFrom(filepath.Join(tempDir, "nonexistent.toml"))
	if err != nil {
		t.Fatalf("LoadFrom should not error on a missing file: %v", err)
	}
	if cfg.Execution.StepLimit != 10000 {
		t.Error("expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalid := "[execution]\nstep_limit = \"not a number\"\n"
	if err := os.WriteFile(configPath, []byte(invalid), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected an error loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "sub1", "sub2", "config.toml")

	if err := DefaultConfig().SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}
}
