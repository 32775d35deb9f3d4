package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Withdraw staked deposits and LP positions from retired SecretSwap pools",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show per-pool credential and balance state",
		RunE:  runStatus,
	}
	addCommonFlags(statusCmd.Flags())
	root.AddCommand(statusCmd)

	keysCmd := &cobra.Command{
		Use:   "set-keys",
		Short: "Issue the migration viewing key on pools that lack one",
		RunE:  runSetKeys,
	}
	addCommonFlags(keysCmd.Flags())
	keysCmd.Flags().StringSlice("pools", nil, "pool addresses to issue keys for (comma-separated, default all missing)")
	root.AddCommand(keysCmd)

	withdrawCmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw from selected pools in one transaction",
		RunE:  runWithdraw,
	}
	addCommonFlags(withdrawCmd.Flags())
	withdrawCmd.Flags().StringSlice("pools", nil, "pool addresses to withdraw from (comma-separated, default all withdrawable)")
	withdrawCmd.Flags().Bool("skip-lp", false, "leave LP positions untouched")
	root.AddCommand(withdrawCmd)

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget recorded key issuances and the cached signature",
		RunE:  runClear,
	}
	addCommonFlags(clearCmd.Flags())
	root.AddCommand(clearCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(fs *pflag.FlagSet) {
	fs.String("rpc", "", "chain RPC URL")
	fs.String("chain-id", "secret-4", "chain id")
	fs.String("key-file", "", "wallet key file path")
	fs.String("state-dir", "./data", "local state directory")
	fs.String("pg-dsn", "", "Postgres DSN for the record store (default file-backed)")
	fs.String("reward-pools", "./catalogs/reward_pools.json", "reward pool catalog path")
	fs.String("lp-pools", "./catalogs/liquidity_pools.json", "liquidity pool catalog path")
	fs.String("bridge-tokens", "./catalogs/bridge_tokens.json", "bridge token catalog path")
	fs.String("secret-tokens", "./catalogs/secret_tokens.json", "secret token catalog path")
	fs.Int("max-retries", 5, "maximum retry attempts")
	fs.Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	fs.Duration("call-timeout", 15*time.Second, "single RPC call timeout")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
