package model

// PoolBalance is a user's staked balance in one reward pool. Raw is an
// integer amount in the deposit token's smallest unit, as a decimal string.
type PoolBalance struct {
	PoolAddress string `json:"pool_address"`
	Raw         string `json:"raw"`
	Symbol      string `json:"symbol"`
	Decimals    uint8  `json:"decimals"`
}

// LPBalance is a user's LP token balance for one liquidity pool. The
// underlying amounts and total share are populated only when the raw balance
// is nonzero and the secondary reserves query succeeded; their absence means
// "balance known, share unknown", never zero.
type LPBalance struct {
	LPTokenAddress string `json:"lp_token_address"`
	Raw            string `json:"raw"`
	Amount0        string `json:"amount0,omitempty"`
	Amount1        string `json:"amount1,omitempty"`
	TotalShare     string `json:"total_share,omitempty"`
}

// HasShare reports whether the underlying amounts were resolved.
func (b LPBalance) HasShare() bool {
	return b.Amount0 != "" && b.Amount1 != ""
}

// ReservesSnapshot is a pair contract's reserves and LP supply at one point
// in time. Reserves move with every trade, so snapshots are fetched fresh for
// each share calculation and never cached.
type ReservesSnapshot struct {
	Reserve0   string `json:"reserve0"`
	Reserve1   string `json:"reserve1"`
	TotalShare string `json:"total_share"`
}
