package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"secretmigrate/internal/balances"
	"secretmigrate/internal/catalog"
	"secretmigrate/internal/chain"
	"secretmigrate/internal/config"
	"secretmigrate/internal/creds"
	"secretmigrate/internal/model"
	"secretmigrate/internal/storage"
	"secretmigrate/internal/storage/postgres"
	"secretmigrate/internal/wallet"
)

// app is the wiring every subcommand shares: config, logger, wallet session,
// chain client, record store, and the loaded catalogs.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	wallet  *wallet.KeyFileWallet
	client  *chain.Client
	records storage.RecordStore
	catalog *catalog.Catalog
	address string

	closers []func()
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	a.catalog, err = catalog.Load(catalog.Paths{
		RewardPools:    cfg.RewardPools,
		LiquidityPools: cfg.LPPools,
		BridgeTokens:   cfg.BridgeTokens,
		SecretTokens:   cfg.SecretTokens,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.wallet, err = wallet.LoadKeyFile(cfg.KeyFile)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	if err := a.wallet.EnableChain(ctx, cfg.ChainID); err != nil {
		a.Close()
		return nil, err
	}
	accounts, err := a.wallet.Accounts(ctx, cfg.ChainID)
	if err != nil {
		a.Close()
		return nil, err
	}
	if len(accounts) == 0 {
		a.Close()
		return nil, fmt.Errorf("key file holds no account for chain %s", cfg.ChainID)
	}
	a.address = accounts[0].Address

	err = chain.WithRetry(ctx, cfg.MaxRetries, cfg.RetryBackoff, func(ctx context.Context) error {
		var dialErr error
		a.client, dialErr = chain.NewClient(ctx, cfg.RPCURL, cfg.CallTimeout)
		return dialErr
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("connect rpc: %w", err)
	}
	a.closers = append(a.closers, a.client.Close)

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		a.records = store
	} else {
		a.records = storage.NewFileStore(cfg.RecordsPath())
	}

	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// resolveStatuses resolves the credential state for every catalog contract:
// reward pools by pool address, LP positions by LP token address.
func (a *app) resolveStatuses(ctx context.Context) (map[string]model.CredentialStatus, error) {
	issued, err := a.records.IssuedContracts(ctx, a.address)
	if err != nil {
		return nil, fmt.Errorf("load issued set: %w", err)
	}
	recorded := make(map[string]bool, len(issued))
	for _, addr := range issued {
		recorded[addr] = true
	}

	addresses := make([]string, 0, len(a.catalog.RewardPools)+len(a.catalog.LiquidityPools))
	for _, p := range a.catalog.RewardPools {
		addresses = append(addresses, p.PoolAddress)
	}
	for _, p := range a.catalog.LiquidityPools {
		addresses = append(addresses, p.LPTokenAddress)
	}

	resolver := creds.NewResolver(a.wallet, a.cfg.ChainID, a.logger)
	return resolver.ResolveAll(ctx, addresses, recorded), nil
}

// credentialFor returns the concrete key string for a resolved status: the
// wallet's own stored key, or the recorded derived signature.
func (a *app) credentialFor(ctx context.Context, status model.CredentialStatus) (string, error) {
	switch status.Source {
	case model.SourceWallet:
		return a.wallet.StoredCredential(ctx, a.cfg.ChainID, status.Contract)
	case model.SourceDerived:
		return a.records.DerivedSignature(ctx, a.address)
	default:
		return "", nil
	}
}

// buildTargets turns resolved statuses into balance-query targets, skipping
// contracts with no usable credential.
func (a *app) buildTargets(ctx context.Context, statuses map[string]model.CredentialStatus) ([]balances.Target, error) {
	var targets []balances.Target

	for _, p := range a.catalog.RewardPools {
		status := statuses[p.PoolAddress]
		if !status.HasCredential {
			continue
		}
		key, err := a.credentialFor(ctx, status)
		if err != nil || key == "" {
			a.logger.Warn("credential lookup failed", zap.String("contract", p.PoolAddress), zap.Error(err))
			continue
		}
		targets = append(targets, balances.Target{
			Kind:       balances.TargetReward,
			Contract:   p.Ref(),
			Credential: key,
			Source:     status.Source,
			Symbol:     p.DepositToken.Symbol,
			Decimals:   p.DepositToken.Decimals,
		})
	}

	for _, p := range a.catalog.LiquidityPools {
		status := statuses[p.LPTokenAddress]
		if !status.HasCredential {
			continue
		}
		key, err := a.credentialFor(ctx, status)
		if err != nil || key == "" {
			a.logger.Warn("credential lookup failed", zap.String("contract", p.LPTokenAddress), zap.Error(err))
			continue
		}
		targets = append(targets, balances.Target{
			Kind:       balances.TargetLP,
			Contract:   p.LPTokenRef(),
			Pair:       model.ContractRef{Address: p.PoolAddress},
			Credential: key,
			Source:     status.Source,
		})
	}

	return targets, nil
}
