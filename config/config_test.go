package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graphened.toml")
	contents := fmt.Sprintf(`ListenAddress = "0.0.0.0:7000"
DataDir = "%s"
GenesisFile = "genesis.json"
ParamsFile = "chainparams.toml"
ValidatorKey = "aabbccddeeff"
`, dir)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ListenAddress != "0.0.0.0:7000" {
		t.Fatalf("unexpected listen address: %s", cfg.ListenAddress)
	}
	if cfg.DataDir != dir {
		t.Fatalf("unexpected data dir: %s", cfg.DataDir)
	}
	if cfg.GenesisFile != "genesis.json" {
		t.Fatalf("unexpected genesis file: %s", cfg.GenesisFile)
	}
	if cfg.ParamsFile != "chainparams.toml" {
		t.Fatalf("unexpected params file: %s", cfg.ParamsFile)
	}
	if cfg.ValidatorKey != "aabbccddeeff" {
		t.Fatalf("unexpected validator key: %s", cfg.ValidatorKey)
	}
}

func TestLoadGeneratesValidatorKeyWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graphened.toml")
	contents := fmt.Sprintf(`ListenAddress = ":6001"
DataDir = "%s"
GenesisFile = "genesis.json"
ParamsFile = "chainparams.toml"
`, dir)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ValidatorKey == "" {
		t.Fatalf("expected a validator key to be generated")
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if reloaded.ValidatorKey != cfg.ValidatorKey {
		t.Fatalf("expected generated key to be persisted: got %q then %q", cfg.ValidatorKey, reloaded.ValidatorKey)
	}
}

func TestLoadCreatesDefaultWhenFileMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graphened.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DataDir == "" {
		t.Fatalf("expected a default data dir")
	}
	if cfg.ValidatorKey == "" {
		t.Fatalf("expected a default validator key")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be written: %v", err)
	}
}
