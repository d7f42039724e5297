// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

// Package config loads uvault configuration from the data directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/univault-io/univault/internal/suite"
)

// Config holds uvault configuration settings
type Config struct {
	DefaultSuite string `yaml:"default_suite" description:"Suite used by generate when -suite is omitted" default:"ed25519"`
	VaultFile    string `yaml:"vault_file" description:"Vault file path (relative to data dir)" default:"vault.json"`

	// KDF cost overrides for newly created vaults. Zero means the built-in
	// cost. Existing vaults keep the parameters recorded at creation.
	KDFTime     uint32 `yaml:"kdf_time" description:"Argon2id time cost override for new vaults"`
	KDFMemoryKB uint32 `yaml:"kdf_memory_kb" description:"Argon2id memory cost override for new vaults, in KiB"`
	KDFThreads  uint8  `yaml:"kdf_threads" description:"Argon2id parallelism override for new vaults"`
}

// DefaultConfig returns the default configuration for runtime use.
func DefaultConfig() Config {
	return Config{
		DefaultSuite: suite.Ed25519,
		VaultFile:    "vault.json",
	}
}

// DefaultDataDir is the default data directory for uvault
const DefaultDataDir = "~/.univault"

// GetDataDir returns the uvault data directory.
// Resolution order: -d flag > UNIVAULT_DATA env var > ~/.univault
func GetDataDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envDir := os.Getenv("UNIVAULT_DATA"); envDir != "" {
		return envDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "" // Can't determine default
	}
	return filepath.Join(home, ".univault")
}

// RequireDataDir resolves the data directory from the flag value, the
// UNIVAULT_DATA environment variable, or ~/.univault. Exits if unresolvable.
func RequireDataDir(flagValue string) string {
	dir := GetDataDir(flagValue)
	if dir == "" {
		fmt.Fprintln(os.Stderr, "Error: Could not determine data directory")
		fmt.Fprintln(os.Stderr, "Use -d <path> or set UNIVAULT_DATA environment variable")
		os.Exit(1)
	}
	return dir
}

// GetConfigPath returns the path to the config file in the data directory.
// Returns empty string if dataDir is empty.
func GetConfigPath(dataDir string) string {
	if dataDir == "" {
		return ""
	}
	return filepath.Join(dataDir, "config.yaml")
}

// LoadConfig loads configuration from config.yaml in the data directory.
// If dataDir is empty or the file doesn't exist, returns default config.
// The vault file path is resolved relative to the data directory.
func LoadConfig(dataDir string) (Config, error) {
	config, err := LoadConfigFromPath(GetConfigPath(dataDir))
	if err != nil {
		return config, err
	}

	if !filepath.IsAbs(config.VaultFile) {
		config.VaultFile = filepath.Join(dataDir, config.VaultFile)
	}

	return config, nil
}

// LoadConfigFromPath loads configuration from the specified path.
// If path is empty or the file doesn't exist, returns default config.
func LoadConfigFromPath(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		// Other errors - log but return defaults
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Failed to read config file: %v\n", err)
		return DefaultConfig(), nil
	}

	// Start with defaults, then overlay config file values
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if _, err := suite.Lookup(config.DefaultSuite); err != nil {
		return Config{}, fmt.Errorf("invalid default_suite '%s' in config: %w", config.DefaultSuite, err)
	}

	// Fill in defaults for missing values
	defaults := DefaultConfig()
	if config.VaultFile == "" {
		config.VaultFile = defaults.VaultFile
	}

	return config, nil
}
