// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Client ClientConfig `toml:"client"`
	Bridge BridgeConfig `toml:"bridge"`
}

// ClientConfig maps dial-client settings.
type ClientConfig struct {
	BridgeURL   *string `toml:"bridge-url"`
	Window      *int    `toml:"window"`
	Provider    *string `toml:"provider"`
	ProviderURL *string `toml:"provider-url"`
	Lang        *string `toml:"lang"`
}

// BridgeConfig maps bridge process settings.
type BridgeConfig struct {
	Listen     *string `toml:"listen"`
	SerialPort *string `toml:"serial-port"`
	BaudRate   *int    `toml:"baud"`
	RetrySec   *int    `toml:"retry-sec"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
