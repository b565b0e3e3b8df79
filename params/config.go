// Package params loads the CLI's CoinSelectConfig from a TOML file, the
// same way the teacher's RouterConfig is loaded with BurntSushi/toml.
package params

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/cardano-tx/coinselect/internal/log"
)

// ProtocolParamsConfig mirrors spec §6.2's configurable protocol
// constants.
type ProtocolParamsConfig struct {
	CoinsPerUTXOByte int64 `toml:",omitempty"`
	MaxValueSize     int64 `toml:",omitempty"`
	MaxTxSize        int64 `toml:",omitempty"`
	KeyDeposit       int64 `toml:",omitempty"`
	PoolDeposit      int64 `toml:",omitempty"`
}

// OptionsConfig mirrors spec §6.3's recognized `options` keys.
// Unrecognized TOML keys are ignored by BurntSushi/toml, matching the
// spec's "unknown keys are ignored" rule.
type OptionsConfig struct {
	MaxTokensPerOutput uint32 `toml:"_maxTokensPerOutput,omitempty"`
	FeeParamsA         string `toml:"feeParamsA,omitempty"`
}

// CoinSelectConfig is the top-level config document for cmd/composetx.
type CoinSelectConfig struct {
	Network       string `toml:",omitempty"` // "mainnet" | "testnet"
	ChangeAddress string

	ProtocolParams *ProtocolParamsConfig `toml:",omitempty"`
	Options        *OptionsConfig        `toml:",omitempty"`
}

// LoadConfig reads and parses a CoinSelectConfig TOML file, logging its
// own progress the way params.LoadRouterConfig does.
func LoadConfig(configFile string) (*CoinSelectConfig, error) {
	if configFile == "" {
		return nil, fmt.Errorf("empty config file path")
	}
	log.Info("load coinselect config file", "path", configFile)

	config := &CoinSelectConfig{}
	if _, err := toml.DecodeFile(configFile, config); err != nil {
		return nil, fmt.Errorf("parse config file %q failed: %w", configFile, err)
	}
	if config.ChangeAddress == "" {
		return nil, fmt.Errorf("config missing changeAddress")
	}

	log.Info("load coinselect config file finished", "network", config.Network)
	return config, nil
}
