package main

import (
	"testing"

	"secretmigrate/internal/model"
	"secretmigrate/internal/state"
)

func TestLPShareLabelUnresolvedShare(t *testing.T) {
	pool := model.LPPoolInfo{
		LPTokenAddress: "secret1lp",
		Asset0Symbol:   "sSCRT",
		Asset1Symbol:   "sETH",
		Asset0Decimals: 6,
		Asset1Decimals: 18,
	}

	s := state.State{
		LPBalances: map[string]model.LPBalance{
			// Reserves query failed: balance known, share absent.
			"secret1lp": {LPTokenAddress: "secret1lp", Raw: "500000"},
		},
		Invalid: map[string]model.CredentialSource{},
	}

	got := lpShareLabel(s, pool)
	if got == "0" {
		t.Fatalf("positive balance with unresolved share rendered as zero")
	}
	if got != "0.5 LP (share ?)" {
		t.Fatalf("unexpected label: %q", got)
	}
}

func TestLPShareLabelVerifiedZero(t *testing.T) {
	pool := model.LPPoolInfo{LPTokenAddress: "secret1lp"}
	s := state.State{
		LPBalances: map[string]model.LPBalance{
			"secret1lp": {LPTokenAddress: "secret1lp", Raw: "0"},
		},
		Invalid: map[string]model.CredentialSource{},
	}

	if got := lpShareLabel(s, pool); got != "0" {
		t.Fatalf("verified zero should render as zero, got %q", got)
	}
}

func TestLPShareLabelResolvedShare(t *testing.T) {
	pool := model.LPPoolInfo{
		LPTokenAddress: "secret1lp",
		Asset0Symbol:   "sSCRT",
		Asset1Symbol:   "sETH",
		Asset0Decimals: 6,
		Asset1Decimals: 6,
	}
	s := state.State{
		LPBalances: map[string]model.LPBalance{
			"secret1lp": {
				LPTokenAddress: "secret1lp",
				Raw:            "500000",
				Amount0:        "250000",
				Amount1:        "750000",
				TotalShare:     "2000000",
			},
		},
		Invalid: map[string]model.CredentialSource{},
	}

	if got := lpShareLabel(s, pool); got != "0.25 sSCRT + 0.75 sETH" {
		t.Fatalf("unexpected label: %q", got)
	}
}
