package balances

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"secretmigrate/internal/chain"
	"secretmigrate/internal/model"
)

// fakeQuerier serves canned responses keyed by contract address, on both the
// batch and single-query paths.
type fakeQuerier struct {
	responses map[string]string
	batchErr  error
	itemErrs  map[string]error

	batchCalls  int
	singleCalls int
}

func (q *fakeQuerier) ComputeQuery(_ context.Context, contract model.ContractRef, _ []byte) (json.RawMessage, error) {
	q.singleCalls++
	if err, ok := q.itemErrs[contract.Address]; ok {
		return nil, err
	}
	raw, ok := q.responses[contract.Address]
	if !ok {
		return nil, fmt.Errorf("no response for %s", contract.Address)
	}
	return json.RawMessage(raw), nil
}

func (q *fakeQuerier) BatchComputeQuery(_ context.Context, items []chain.BatchItem) ([]chain.BatchResult, error) {
	q.batchCalls++
	if q.batchErr != nil {
		return nil, q.batchErr
	}
	results := make([]chain.BatchResult, 0, len(items))
	for _, item := range items {
		if err, ok := q.itemErrs[item.Contract.Address]; ok {
			results = append(results, chain.BatchResult{ID: item.ID, Err: err})
			continue
		}
		results = append(results, chain.BatchResult{
			ID:       item.ID,
			Response: json.RawMessage(q.responses[item.Contract.Address]),
		})
	}
	return results, nil
}

func rewardTarget(address string) Target {
	return Target{
		Kind:       TargetReward,
		Contract:   model.ContractRef{Address: address, CodeHash: "hash"},
		Credential: "key",
		Source:     model.SourceDerived,
		Symbol:     "sSCRT",
		Decimals:   6,
	}
}

func TestFetchBalancesPartialFailure(t *testing.T) {
	q := &fakeQuerier{
		responses: map[string]string{
			"secret1ok1":    `{"balance":{"amount":"100"}}`,
			"secret1ok2":    `{"balance":{"amount":"200"}}`,
			"secret1bad":    `{"viewing_key_error":{"msg":"wrong key"}}`,
			"secret1generr": `{"query_error":{"msg":"contract panicked: out of gas"}}`,
		},
		itemErrs: map[string]error{"secret1down": fmt.Errorf("connection reset")},
	}
	agg := NewAggregator(q, nil)

	targets := []Target{
		rewardTarget("secret1ok1"),
		rewardTarget("secret1bad"),
		rewardTarget("secret1down"),
		rewardTarget("secret1generr"),
		rewardTarget("secret1ok2"),
	}
	result, err := agg.FetchBalances(context.Background(), "secret1wallet", targets)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(result.Balances) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(result.Balances))
	}
	if result.Balances["secret1ok1"].Raw != "100" || result.Balances["secret1ok2"].Raw != "200" {
		t.Fatalf("balance attribution wrong: %+v", result.Balances)
	}
	if source, ok := result.InvalidCredentials["secret1bad"]; !ok || source != model.SourceDerived {
		t.Fatalf("invalid credential not attributed: %+v", result.InvalidCredentials)
	}
	// Failed queries are unknown, not zero and not invalid. A generic
	// query_error is a query failure too; it must never condemn the key.
	for _, addr := range []string{"secret1down", "secret1generr"} {
		if _, ok := result.Balances[addr]; ok {
			t.Fatalf("query failure for %s leaked into balances", addr)
		}
		if _, ok := result.InvalidCredentials[addr]; ok {
			t.Fatalf("query failure for %s leaked into invalid credentials", addr)
		}
	}
}

func TestFetchBalancesFallbackEquivalence(t *testing.T) {
	responses := map[string]string{
		"secret1a": `{"balance":{"amount":"1"}}`,
		"secret1b": `{"viewing_key_error":{"msg":"nope"}}`,
		"secret1c": `{"balance":{"amount":"3"}}`,
	}
	targets := []Target{
		rewardTarget("secret1a"),
		rewardTarget("secret1b"),
		rewardTarget("secret1c"),
	}

	batched := &fakeQuerier{responses: responses}
	viaBatch, err := NewAggregator(batched, nil).FetchBalances(context.Background(), "secret1wallet", targets)
	if err != nil {
		t.Fatalf("batched fetch: %v", err)
	}

	degraded := &fakeQuerier{responses: responses, batchErr: fmt.Errorf("batch unsupported")}
	viaSequential, err := NewAggregator(degraded, nil).FetchBalances(context.Background(), "secret1wallet", targets)
	if err != nil {
		t.Fatalf("sequential fetch: %v", err)
	}
	if degraded.singleCalls == 0 {
		t.Fatalf("fallback path never used")
	}

	if len(viaBatch.Balances) != len(viaSequential.Balances) {
		t.Fatalf("balance sets differ: %+v vs %+v", viaBatch.Balances, viaSequential.Balances)
	}
	for addr, b := range viaBatch.Balances {
		if viaSequential.Balances[addr].Raw != b.Raw {
			t.Fatalf("balance for %s differs: %+v vs %+v", addr, b, viaSequential.Balances[addr])
		}
	}
	if len(viaBatch.InvalidCredentials) != len(viaSequential.InvalidCredentials) {
		t.Fatalf("invalid sets differ: %+v vs %+v",
			viaBatch.InvalidCredentials, viaSequential.InvalidCredentials)
	}
}

func TestFetchBalancesResolvesLPShares(t *testing.T) {
	q := &fakeQuerier{
		responses: map[string]string{
			"secret1lptoken": `{"balance":{"amount":"500000"}}`,
			"secret1pair":    `{"assets":[{"amount":"1000000"},{"amount":"3000000"}],"total_share":"2000000"}`,
		},
	}
	agg := NewAggregator(q, nil)

	targets := []Target{{
		Kind:       TargetLP,
		Contract:   model.ContractRef{Address: "secret1lptoken", CodeHash: "hash"},
		Pair:       model.ContractRef{Address: "secret1pair"},
		Credential: "key",
		Source:     model.SourceWallet,
	}}
	result, err := agg.FetchBalances(context.Background(), "secret1wallet", targets)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	lp, ok := result.LPBalances["secret1lptoken"]
	if !ok {
		t.Fatalf("lp balance missing: %+v", result)
	}
	if lp.Raw != "500000" {
		t.Fatalf("raw balance mismatch: %+v", lp)
	}
	if lp.Amount0 != "250000" || lp.Amount1 != "750000" || lp.TotalShare != "2000000" {
		t.Fatalf("share mismatch: %+v", lp)
	}
}

func TestFetchBalancesSkipsSharesForZeroLP(t *testing.T) {
	q := &fakeQuerier{
		responses: map[string]string{
			"secret1lptoken": `{"balance":{"amount":"0"}}`,
		},
	}
	agg := NewAggregator(q, nil)

	targets := []Target{{
		Kind:       TargetLP,
		Contract:   model.ContractRef{Address: "secret1lptoken"},
		Pair:       model.ContractRef{Address: "secret1pair"},
		Credential: "key",
	}}
	result, err := agg.FetchBalances(context.Background(), "secret1wallet", targets)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	lp := result.LPBalances["secret1lptoken"]
	if lp.Raw != "0" || lp.HasShare() {
		t.Fatalf("zero balance should not trigger a reserves query: %+v", lp)
	}
	// Only the balance batch ran; no pair query.
	if q.singleCalls != 0 {
		t.Fatalf("unexpected reserves query: %d single calls", q.singleCalls)
	}
}
