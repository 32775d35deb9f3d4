package model

// TokenMeta captures display metadata for a token referenced by address.
type TokenMeta struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
	Decimals uint8  `json:"decimals"`
}

// RewardPool describes one staking pool from the static catalog.
type RewardPool struct {
	PoolAddress  string    `json:"pool_address"`
	CodeHash     string    `json:"code_hash"`
	Name         string    `json:"name,omitempty"`
	DepositToken TokenMeta `json:"deposit_token"`
	RewardToken  TokenMeta `json:"reward_token"`
	// Disabled pools no longer accept standard redemption; only the
	// emergency path returns funds.
	Disabled bool `json:"disabled"`
}

// Ref returns the pool's contract reference.
func (p RewardPool) Ref() ContractRef {
	return ContractRef{Address: p.PoolAddress, CodeHash: p.CodeHash}
}

// AssetInfo is either a contract-backed token or a native denom, matching the
// pair contract's own representation.
type AssetInfo struct {
	Token       *TokenRef    `json:"token,omitempty"`
	NativeToken *NativeDenom `json:"native_token,omitempty"`
}

// TokenRef points at a token contract inside an AssetInfo.
type TokenRef struct {
	ContractAddr  string `json:"contract_addr"`
	TokenCodeHash string `json:"token_code_hash,omitempty"`
}

// NativeDenom is a bank-module denom inside an AssetInfo.
type NativeDenom struct {
	Denom string `json:"denom"`
}

// Address returns the contract address or denom backing the asset.
func (a AssetInfo) Address() string {
	if a.Token != nil {
		return a.Token.ContractAddr
	}
	if a.NativeToken != nil {
		return a.NativeToken.Denom
	}
	return ""
}

// IsNative reports whether the asset is a bank denom.
func (a AssetInfo) IsNative() bool {
	return a.NativeToken != nil
}

// LiquidityPool describes one pair contract and its LP token from the static
// catalog.
type LiquidityPool struct {
	PoolAddress     string      `json:"pool_address"`
	LPTokenAddress  string      `json:"lp_token_address"`
	LPTokenCodeHash string      `json:"lp_token_code_hash,omitempty"`
	AssetInfos      []AssetInfo `json:"asset_infos"`
}

// LPTokenRef returns the LP token's contract reference.
func (p LiquidityPool) LPTokenRef() ContractRef {
	return ContractRef{Address: p.LPTokenAddress, CodeHash: p.LPTokenCodeHash}
}

// LPPoolInfo is a liquidity pool with its paired assets resolved to display
// symbols and decimals.
type LPPoolInfo struct {
	PoolAddress    string `json:"pool_address"`
	LPTokenAddress string `json:"lp_token_address"`
	LPTokenHash    string `json:"lp_token_code_hash,omitempty"`
	Asset0Address  string `json:"asset0_address"`
	Asset1Address  string `json:"asset1_address"`
	Asset0Symbol   string `json:"asset0_symbol"`
	Asset1Symbol   string `json:"asset1_symbol"`
	Asset0Decimals uint8  `json:"asset0_decimals"`
	Asset1Decimals uint8  `json:"asset1_decimals"`
}
