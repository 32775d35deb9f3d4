package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"secretmigrate/internal/balances"
	"secretmigrate/internal/model"
	"secretmigrate/internal/state"
	"secretmigrate/internal/withdraw"
)

func runWithdraw(cmd *cobra.Command, _ []string) error {
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
	skipLP, _ := cmd.Flags().GetBool("skip-lp")

	store := state.NewStore()
	session := store.Connect(a.address)
	if err := refreshState(ctx, a, store, session); err != nil {
		return err
	}
	snapshot := store.Snapshot()

	selections := buildSelections(a, snapshot, requested, skipLP)
	if len(selections) == 0 {
		if missing := missingKeyContracts(a, snapshot.Credentials, requested); len(missing) > 0 {
			return fmt.Errorf("%w: %d pools still need a viewing key, run set-keys first",
				model.ErrNothingWithdrawable, len(missing))
		}
		return model.ErrNothingWithdrawable
	}

	w := withdraw.NewWithdrawer(a.client, a.wallet, a.cfg.ChainID, a.logger)
	result, err := w.Withdraw(ctx, a.address, selections)
	if err != nil {
		return err
	}

	a.logger.Info("withdrawal committed",
		zap.Int("messages", len(selections)),
		zap.String("tx_hash", result.TxHash),
	)
	fmt.Printf("withdrew from %d pools, tx %s\n", len(selections), result.TxHash)

	// Ask the wallet to track the tokens the withdrawal returned.
	// Best-effort; a wallet without a UI ignores this.
	for _, addr := range returnedTokens(selections) {
		if err := a.wallet.SuggestToken(ctx, a.cfg.ChainID, addr); err != nil {
			a.logger.Debug("suggest token failed", zap.String("token", addr), zap.Error(err))
		}
	}
	return nil
}

func returnedTokens(selections []withdraw.Selection) []string {
	seen := map[string]bool{}
	var out []string
	add := func(addr string) {
		// Native denoms need no wallet registration.
		if !strings.HasPrefix(addr, "secret1") || seen[addr] {
			return
		}
		seen[addr] = true
		out = append(out, addr)
	}
	for _, sel := range selections {
		switch {
		case sel.Reward != nil:
			add(sel.Reward.Pool.DepositToken.Address)
			add(sel.Reward.Pool.RewardToken.Address)
		case sel.LP != nil:
			add(sel.LP.Pool.Asset0Address)
			add(sel.LP.Pool.Asset1Address)
		}
	}
	return out
}

// buildSelections picks what the withdrawal transaction covers: disabled
// pools always go through the emergency path, enabled pools and LP positions
// only with a known positive balance. A stale wallet-managed key excludes the
// contract, the wallet has to rotate it first.
func buildSelections(a *app, s state.State, requested map[string]bool, skipLP bool) []withdraw.Selection {
	var out []withdraw.Selection

	for _, p := range a.catalog.RewardPools {
		if len(requested) > 0 && !requested[p.PoolAddress] {
			continue
		}
		status := s.Credentials[p.PoolAddress]
		if status.Stale && status.Source == model.SourceWallet {
			continue
		}
		if p.Disabled {
			// The emergency path works without a key, so an unknown balance
			// is no obstacle; only a verified zero stake is skipped.
			if b, ok := s.Balances[p.PoolAddress]; ok && !balances.IsPositive(b.Raw) {
				continue
			}
			out = append(out, withdraw.Selection{Reward: &withdraw.RewardSelection{Pool: p}})
			continue
		}
		b, ok := s.Balances[p.PoolAddress]
		if !ok || !balances.IsPositive(b.Raw) {
			continue
		}
		out = append(out, withdraw.Selection{Reward: &withdraw.RewardSelection{Pool: p, Balance: b.Raw}})
	}

	if skipLP {
		return out
	}
	for _, p := range a.catalog.LPPools() {
		if len(requested) > 0 && !requested[p.LPTokenAddress] {
			continue
		}
		status := s.Credentials[p.LPTokenAddress]
		if status.Stale && status.Source == model.SourceWallet {
			continue
		}
		b, ok := s.LPBalances[p.LPTokenAddress]
		if !ok || !balances.IsPositive(b.Raw) {
			continue
		}
		out = append(out, withdraw.Selection{LP: &withdraw.LPSelection{Pool: p, Balance: b.Raw}})
	}
	return out
}
