package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL       string
	ChainID      string
	KeyFile      string
	StateDir     string
	PGDSN        string
	RewardPools  string
	LPPools      string
	BridgeTokens string
	SecretTokens string
	MaxRetries   int
	RetryBackoff time.Duration
	CallTimeout  time.Duration
	LogLevel     string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MIGRATE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("chain-id", "secret-4")
	v.SetDefault("state-dir", "./data")
	v.SetDefault("reward-pools", "./catalogs/reward_pools.json")
	v.SetDefault("lp-pools", "./catalogs/liquidity_pools.json")
	v.SetDefault("bridge-tokens", "./catalogs/bridge_tokens.json")
	v.SetDefault("secret-tokens", "./catalogs/secret_tokens.json")
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("call-timeout", 15*time.Second)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:       v.GetString("rpc"),
		ChainID:      v.GetString("chain-id"),
		KeyFile:      v.GetString("key-file"),
		StateDir:     v.GetString("state-dir"),
		PGDSN:        v.GetString("pg-dsn"),
		RewardPools:  v.GetString("reward-pools"),
		LPPools:      v.GetString("lp-pools"),
		BridgeTokens: v.GetString("bridge-tokens"),
		SecretTokens: v.GetString("secret-tokens"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		CallTimeout:  v.GetDuration("call-timeout"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc endpoint is required (--rpc or MIGRATE_RPC)")
	}
	if c.KeyFile == "" {
		return fmt.Errorf("key file is required (--key-file or MIGRATE_KEY_FILE)")
	}
	return nil
}

// RecordsPath is the file-backed record store location under the state dir.
func (c Config) RecordsPath() string {
	return filepath.Join(c.StateDir, "records.json")
}
