package balances

import (
	"fmt"
	"math/big"

	"secretmigrate/internal/model"
)

// ComputeShare returns a holder's pro-rata claim on a pool's reserves:
// floor(balance * reserve / totalShare) per asset, in integer arithmetic
// throughout. A zero total share yields {0, 0}. Pure: identical inputs give
// identical outputs.
func ComputeShare(lpBalance string, reserves model.ReservesSnapshot) (amount0, amount1 string, err error) {
	balance, ok := new(big.Int).SetString(lpBalance, 10)
	if !ok {
		return "", "", fmt.Errorf("invalid lp balance %q", lpBalance)
	}
	total, ok := new(big.Int).SetString(reserves.TotalShare, 10)
	if !ok {
		return "", "", fmt.Errorf("invalid total share %q", reserves.TotalShare)
	}
	if total.Sign() == 0 {
		return "0", "0", nil
	}
	reserve0, ok := new(big.Int).SetString(reserves.Reserve0, 10)
	if !ok {
		return "", "", fmt.Errorf("invalid reserve0 %q", reserves.Reserve0)
	}
	reserve1, ok := new(big.Int).SetString(reserves.Reserve1, 10)
	if !ok {
		return "", "", fmt.Errorf("invalid reserve1 %q", reserves.Reserve1)
	}

	share0 := new(big.Int).Div(new(big.Int).Mul(balance, reserve0), total)
	share1 := new(big.Int).Div(new(big.Int).Mul(balance, reserve1), total)
	return share0.String(), share1.String(), nil
}
