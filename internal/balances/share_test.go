package balances

import (
	"testing"

	"secretmigrate/internal/model"
)

func TestComputeShare(t *testing.T) {
	reserves := model.ReservesSnapshot{
		Reserve0:   "1000000",
		Reserve1:   "3000000",
		TotalShare: "2000000",
	}

	amount0, amount1, err := ComputeShare("500000", reserves)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if amount0 != "250000" || amount1 != "750000" {
		t.Fatalf("share mismatch: %s / %s", amount0, amount1)
	}
}

func TestComputeShareZeroBalance(t *testing.T) {
	reserves := model.ReservesSnapshot{Reserve0: "999", Reserve1: "111", TotalShare: "5000"}
	amount0, amount1, err := ComputeShare("0", reserves)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if amount0 != "0" || amount1 != "0" {
		t.Fatalf("zero balance should claim nothing: %s / %s", amount0, amount1)
	}
}

func TestComputeShareFullSupply(t *testing.T) {
	reserves := model.ReservesSnapshot{Reserve0: "123457", Reserve1: "789", TotalShare: "41000"}
	amount0, amount1, err := ComputeShare("41000", reserves)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if amount0 != reserves.Reserve0 || amount1 != reserves.Reserve1 {
		t.Fatalf("full supply should claim all reserves: %s / %s", amount0, amount1)
	}
}

func TestComputeShareFloors(t *testing.T) {
	reserves := model.ReservesSnapshot{Reserve0: "10", Reserve1: "10", TotalShare: "3"}
	amount0, _, err := ComputeShare("1", reserves)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// 1*10/3 = 3.33..., integer floor.
	if amount0 != "3" {
		t.Fatalf("expected floor division, got %s", amount0)
	}
}

func TestComputeShareZeroSupply(t *testing.T) {
	reserves := model.ReservesSnapshot{Reserve0: "1000", Reserve1: "1000", TotalShare: "0"}
	amount0, amount1, err := ComputeShare("500", reserves)
	if err != nil {
		t.Fatalf("zero supply must not error: %v", err)
	}
	if amount0 != "0" || amount1 != "0" {
		t.Fatalf("zero supply should yield zero shares: %s / %s", amount0, amount1)
	}
}

func TestComputeShareInvalidInput(t *testing.T) {
	reserves := model.ReservesSnapshot{Reserve0: "1", Reserve1: "1", TotalShare: "1"}
	if _, _, err := ComputeShare("not-a-number", reserves); err == nil {
		t.Fatalf("expected error for invalid balance")
	}
	bad := model.ReservesSnapshot{Reserve0: "x", Reserve1: "1", TotalShare: "1"}
	if _, _, err := ComputeShare("1", bad); err == nil {
		t.Fatalf("expected error for invalid reserve")
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		raw      string
		decimals uint8
		want     string
	}{
		{"1234567", 6, "1.234567"},
		{"1000000", 6, "1"},
		{"1500000", 6, "1.5"},
		{"123", 6, "0.000123"},
		{"0", 6, "0"},
		{"42", 0, "42"},
		{"garbage", 6, "0"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.raw, tc.decimals); got != tc.want {
			t.Fatalf("FormatAmount(%q, %d) = %q, want %q", tc.raw, tc.decimals, got, tc.want)
		}
	}
}
