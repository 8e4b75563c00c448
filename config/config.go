// Package config loads graphened's node-level configuration file: where its
// data directory and genesis/parameter files live, and the validator signing
// key it produces blocks with. Chain-wide tunables (authority depth limits,
// fees, maintenance interval) are a separate concern handled by
// chainparams.Load, the same split the teacher draws between its own
// config.toml and native/*/params config structs.
//
// Grounded on the teacher's config/config.go: TOML-decoded struct, an
// on-first-run validator key auto-generation step, and a defaulting
// createDefault path, narrowed to the fields graphened actually reads.
package config

import (
	"encoding/hex"
	"os"

	"github.com/graphene-chain/core/crypto"

	"github.com/BurntSushi/toml"
)

// Config is graphened's node-level configuration file.
type Config struct {
	ListenAddress string `toml:"ListenAddress"`
	DataDir       string `toml:"DataDir"`
	GenesisFile   string `toml:"GenesisFile"`
	ParamsFile    string `toml:"ParamsFile"`
	ValidatorKey  string `toml:"ValidatorKey"`
}

// Load loads the configuration from the given path.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if cfg.ValidatorKey == "" {
		key, err := crypto.GeneratePrivateKey()
		if err != nil {
			return nil, err
		}
		cfg.ValidatorKey = hex.EncodeToString(key.Bytes())

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, os.ModePerm)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		if err := toml.NewEncoder(f).Encode(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ListenAddress: ":6001",
		DataDir:       "./graphene-data",
		GenesisFile:   "./genesis.json",
		ParamsFile:    "./chainparams.toml",
		ValidatorKey:  hex.EncodeToString(key.Bytes()),
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
