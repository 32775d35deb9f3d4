package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"secretmigrate/internal/balances"
	"secretmigrate/internal/creds"
	"secretmigrate/internal/model"
	"secretmigrate/internal/state"
)

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := state.NewStore()
	session := store.Connect(a.address)

	if err := refreshState(ctx, a, store, session); err != nil {
		return err
	}

	// Best-effort; fee balance is informational only.
	feeBalance, err := a.client.BankBalance(ctx, a.address, feeDenom)
	if err != nil {
		a.logger.Warn("fee balance lookup failed", zap.Error(err))
		feeBalance = ""
	}

	printStatus(a, store.Snapshot(), feeBalance)
	return nil
}

const feeDenom = "uscrt"

// LP tokens on this chain are minted with 6 decimals.
const lpTokenDecimals = 6

// refreshState resolves credentials, fetches balances, and folds both into
// the state store under the given session.
func refreshState(ctx context.Context, a *app, store *state.Store, session state.Session) error {
	statuses, err := a.resolveStatuses(ctx)
	if err != nil {
		return err
	}
	store.Dispatch(state.SetCredentials{Session: session, Statuses: statuses})

	targets, err := a.buildTargets(ctx, statuses)
	if err != nil {
		return err
	}

	agg := balances.NewAggregator(a.client, a.logger)
	result, err := agg.FetchBalances(ctx, a.address, targets)
	if err != nil {
		return err
	}

	store.Dispatch(state.SetBalances{
		Session:    session,
		Balances:   result.Balances,
		LPBalances: result.LPBalances,
		Invalid:    result.InvalidCredentials,
	})

	if len(result.InvalidCredentials) > 0 {
		stale := make([]string, 0, len(result.InvalidCredentials))
		for addr := range result.InvalidCredentials {
			stale = append(stale, addr)
		}
		store.Dispatch(state.MarkStale{Session: session, Contracts: stale})
		a.logger.Warn("credentials rejected on-chain", zap.Int("contracts", len(stale)))
	}

	return nil
}

func printStatus(a *app, s state.State, feeBalance string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "wallet\t%s\n", s.Session.Address)
	if feeBalance != "" {
		fmt.Fprintf(w, "fee balance\t%s SCRT\n", balances.FormatAmount(feeBalance, 6))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "POOL\tDEPOSIT\tKEY\tBALANCE")

	for _, p := range a.catalog.RewardPools {
		status := s.Credentials[p.PoolAddress]
		name := p.Name
		if name == "" {
			name = p.PoolAddress
		}
		suffix := ""
		if p.Disabled {
			suffix = " (disabled)"
		}
		fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\n",
			name, suffix, p.DepositToken.Symbol, keyLabel(status), balanceLabel(s, p.PoolAddress))
	}

	lpPools := a.catalog.LPPools()
	if len(lpPools) > 0 {
		fmt.Fprintln(w, "\nLP POSITION\tKEY\tSHARE")
		for _, p := range lpPools {
			status := s.Credentials[p.LPTokenAddress]
			fmt.Fprintf(w, "%s-%s\t%s\t%s\n",
				p.Asset0Symbol, p.Asset1Symbol, keyLabel(status), lpShareLabel(s, p))
		}
	}

	fmt.Fprintf(w, "\n%d contracts selectable for key issuance or withdrawal\n",
		len(selectableContracts(a, s, nil)))
}

func keyLabel(status model.CredentialStatus) string {
	switch {
	case status.Stale:
		return string(status.Source) + " (stale)"
	case status.HasCredential:
		return string(status.Source)
	default:
		return "missing"
	}
}

func balanceLabel(s state.State, address string) string {
	if source, ok := s.Invalid[address]; ok {
		return fmt.Sprintf("invalid %s key", source)
	}
	b, ok := s.Balances[address]
	if !ok {
		return "?"
	}
	return balances.FormatAmount(b.Raw, b.Decimals) + " " + b.Symbol
}

func lpShareLabel(s state.State, p model.LPPoolInfo) string {
	if source, ok := s.Invalid[p.LPTokenAddress]; ok {
		return fmt.Sprintf("invalid %s key", source)
	}
	b, ok := s.LPBalances[p.LPTokenAddress]
	if !ok {
		return "?"
	}
	if !b.HasShare() {
		// A positive balance with an unresolved share is still a position;
		// only a verified zero renders as zero.
		if balances.IsPositive(b.Raw) {
			return balances.FormatAmount(b.Raw, lpTokenDecimals) + " LP (share ?)"
		}
		return "0"
	}
	return fmt.Sprintf("%s %s + %s %s",
		balances.FormatAmount(b.Amount0, p.Asset0Decimals), p.Asset0Symbol,
		balances.FormatAmount(b.Amount1, p.Asset1Decimals), p.Asset1Symbol)
}

// selectableContracts applies the selection rule to the fetched state and
// returns the contracts eligible for the requested action.
func selectableContracts(a *app, s state.State, requested map[string]bool) []string {
	var out []string

	consider := func(address string) {
		if len(requested) > 0 && !requested[address] {
			return
		}
		status := s.Credentials[address]
		balance := creds.BalanceState{}
		if b, ok := s.Balances[address]; ok {
			balance = creds.BalanceState{Known: true, Raw: b.Raw}
		} else if b, ok := s.LPBalances[address]; ok {
			balance = creds.BalanceState{Known: true, Raw: b.Raw}
		}
		if creds.Selectable(status, balance) {
			out = append(out, address)
		}
	}

	for _, p := range a.catalog.RewardPools {
		consider(p.PoolAddress)
	}
	for _, p := range a.catalog.LiquidityPools {
		consider(p.LPTokenAddress)
	}
	return out
}
