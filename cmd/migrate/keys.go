package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"secretmigrate/internal/creds"
	"secretmigrate/internal/model"
	"secretmigrate/internal/state"
)

func runSetKeys(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	requested, err := requestedSet(cmd)
	if err != nil {
		return err
	}

	statuses, err := a.resolveStatuses(ctx)
	if err != nil {
		return err
	}

	missing := missingKeyContracts(a, statuses, requested)
	if len(missing) == 0 {
		return model.ErrNothingNeedsKeys
	}

	signature, err := creds.DerivedSignature(ctx, a.wallet, a.records, a.cfg.ChainID, a.address)
	if err != nil {
		return fmt.Errorf("derive migration signature: %w", err)
	}

	issuer := creds.NewIssuer(a.client, a.wallet, a.records, a.cfg.ChainID, a.logger)
	result, err := issuer.Issue(ctx, a.address, signature, missing)
	if err != nil {
		return err
	}

	a.logger.Info("viewing keys issued",
		zap.Int("contracts", len(missing)),
		zap.String("tx_hash", result.TxHash),
	)

	// Balances become visible once the key is set; show the refreshed view.
	store := state.NewStore()
	session := store.Connect(a.address)
	if err := refreshState(ctx, a, store, session); err != nil {
		return err
	}
	printStatus(a, store.Snapshot(), "")
	return nil
}

// missingKeyContracts picks the contracts a key issuance should cover:
// requested (or all) enabled reward pools and LP tokens without a usable
// credential. Disabled pools are skipped, the emergency path needs no key.
func missingKeyContracts(a *app, statuses map[string]model.CredentialStatus, requested map[string]bool) []model.ContractRef {
	var out []model.ContractRef

	for _, p := range a.catalog.RewardPools {
		if p.Disabled {
			continue
		}
		if len(requested) > 0 && !requested[p.PoolAddress] {
			continue
		}
		if !statuses[p.PoolAddress].HasCredential {
			out = append(out, p.Ref())
		}
	}
	for _, p := range a.catalog.LiquidityPools {
		if len(requested) > 0 && !requested[p.LPTokenAddress] {
			continue
		}
		if !statuses[p.LPTokenAddress].HasCredential {
			out = append(out, p.LPTokenRef())
		}
	}
	return out
}

func requestedSet(cmd *cobra.Command) (map[string]bool, error) {
	pools, err := cmd.Flags().GetStringSlice("pools")
	if err != nil {
		return nil, err
	}
	if len(pools) == 0 {
		return nil, nil
	}
	set := make(map[string]bool, len(pools))
	for _, p := range pools {
		set[p] = true
	}
	return set, nil
}
