// config.go - Configuration management for the zerocoin tool
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"zerocoin/internal/transcript"
	"zerocoin/internal/zerocoin"
)

// Config keys, shared by the JSON file, ZEROCOIN_* environment variables and flag bindings.
const (
	keyLogLevel        = "log_level"
	keyLogFile         = "log_file"
	keyParamsPath      = "params_path"
	keyKeyDir          = "key_dir"
	keyMaxMintAttempts = "max_mint_attempts"
	keyChallengeHash   = "challenge_hash"
	keyWorkers         = "workers"
)

// Config represents the tool configuration
type Config struct {
	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// File paths
	ParamsPath string `json:"params_path"`
	KeyDir     string `json:"key_dir"`

	// Minting and proofs
	MaxMintAttempts uint64 `json:"max_mint_attempts"`
	ChallengeHash   string `json:"challenge_hash"`
	Workers         int    `json:"workers"`

	// Parameter generation
	Generation zerocoin.GenerationConfig `json:"generation"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		LogFile:         "",
		ParamsPath:      "params.json",
		KeyDir:          "keys",
		MaxMintAttempts: zerocoin.MaxCoinMintAttempts,
		ChallengeHash:   transcript.SHA256d.String(),
		Workers:         4,
		Generation:      zerocoin.DefaultGenerationConfig(),
	}
}

// LoadConfig loads configuration from file or creates default
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		config := DefaultConfig()
		if err := json.NewDecoder(file).Decode(config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
		return config, nil
	}

	config := DefaultConfig()
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save default config: %w", err)
	}
	return config, nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ApplyOverrides copies every key set in v (environment or changed flag) over the file values.
func (c *Config) ApplyOverrides(v *viper.Viper) {
	if v.IsSet(keyLogLevel) {
		c.LogLevel = v.GetString(keyLogLevel)
	}
	if v.IsSet(keyLogFile) {
		c.LogFile = v.GetString(keyLogFile)
	}
	if v.IsSet(keyParamsPath) {
		c.ParamsPath = v.GetString(keyParamsPath)
	}
	if v.IsSet(keyKeyDir) {
		c.KeyDir = v.GetString(keyKeyDir)
	}
	if v.IsSet(keyMaxMintAttempts) {
		c.MaxMintAttempts = v.GetUint64(keyMaxMintAttempts)
	}
	if v.IsSet(keyChallengeHash) {
		c.ChallengeHash = v.GetString(keyChallengeHash)
	}
	if v.IsSet(keyWorkers) {
		c.Workers = v.GetInt(keyWorkers)
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.ParamsPath == "" {
		return fmt.Errorf("params_path must be set")
	}
	if c.MaxMintAttempts == 0 {
		return fmt.Errorf("max_mint_attempts must be positive")
	}
	if _, err := transcript.ParseHash(c.ChallengeHash); err != nil {
		return fmt.Errorf("challenge_hash: %w", err)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if err := c.Generation.Validate(); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	return nil
}

// engineOptions turns the configuration into zerocoin options.
func (c *Config) engineOptions() ([]zerocoin.Option, error) {
	h, err := transcript.ParseHash(c.ChallengeHash)
	if err != nil {
		return nil, err
	}
	return []zerocoin.Option{
		zerocoin.WithMaxAttempts(c.MaxMintAttempts),
		zerocoin.WithWorkers(c.Workers),
		zerocoin.WithChallengeHash(h),
	}, nil
}
