// Package catalog loads the static contract catalogs shipped with the tool:
// reward pools, liquidity pools, and token metadata. Catalogs are read once
// at startup and never refreshed.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"secretmigrate/internal/model"
)

// Catalog holds the loaded contract sets plus the token metadata used to
// resolve display symbols and decimals.
type Catalog struct {
	RewardPools    []model.RewardPool
	LiquidityPools []model.LiquidityPool

	bridgeTokens map[string]model.TokenMeta
	secretTokens map[string]model.TokenMeta
	poolTokens   map[string]model.TokenMeta
}

// Paths names the catalog files on disk. Token files are optional; pools
// without metadata fall back to placeholder symbols.
type Paths struct {
	RewardPools    string
	LiquidityPools string
	BridgeTokens   string
	SecretTokens   string
}

// Load reads the catalog files. Missing optional token files are skipped;
// a missing pool file is an error.
func Load(paths Paths) (*Catalog, error) {
	c := &Catalog{
		bridgeTokens: make(map[string]model.TokenMeta),
		secretTokens: make(map[string]model.TokenMeta),
		poolTokens:   make(map[string]model.TokenMeta),
	}

	if err := readJSONFile(paths.RewardPools, &c.RewardPools); err != nil {
		return nil, fmt.Errorf("load reward pools: %w", err)
	}
	if err := readJSONFile(paths.LiquidityPools, &c.LiquidityPools); err != nil {
		return nil, fmt.Errorf("load liquidity pools: %w", err)
	}

	if paths.BridgeTokens != "" {
		var tokens []model.TokenMeta
		if err := readJSONFile(paths.BridgeTokens, &tokens); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("load bridge tokens: %w", err)
			}
		}
		for _, t := range tokens {
			c.bridgeTokens[t.Address] = t
		}
	}
	if paths.SecretTokens != "" {
		var tokens []model.TokenMeta
		if err := readJSONFile(paths.SecretTokens, &tokens); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("load secret tokens: %w", err)
			}
		}
		for _, t := range tokens {
			c.secretTokens[t.Address] = t
		}
	}

	// Deposit and reward tokens embedded in the pool catalog are the last
	// lookup tier.
	for _, p := range c.RewardPools {
		if p.DepositToken.Address != "" {
			c.poolTokens[p.DepositToken.Address] = p.DepositToken
		}
		if p.RewardToken.Address != "" {
			c.poolTokens[p.RewardToken.Address] = p.RewardToken
		}
	}

	SortRewardPools(c.RewardPools)
	return c, nil
}

// Token resolves display metadata for an address. Bridge tokens take
// precedence over secret tokens, which take precedence over tokens embedded
// in the reward-pool catalog. Unknown addresses get a truncated-address
// placeholder with 6 decimals.
func (c *Catalog) Token(address string) model.TokenMeta {
	if t, ok := c.bridgeTokens[address]; ok {
		return t
	}
	if t, ok := c.secretTokens[address]; ok {
		return t
	}
	if t, ok := c.poolTokens[address]; ok {
		return t
	}
	return model.TokenMeta{
		Address:  address,
		Symbol:   truncateAddress(address),
		Decimals: 6,
	}
}

// LPPools resolves each liquidity pool's asset pair to display metadata.
func (c *Catalog) LPPools() []model.LPPoolInfo {
	infos := make([]model.LPPoolInfo, 0, len(c.LiquidityPools))
	for _, p := range c.LiquidityPools {
		if len(p.AssetInfos) < 2 {
			continue
		}
		a0 := c.assetMeta(p.AssetInfos[0])
		a1 := c.assetMeta(p.AssetInfos[1])
		infos = append(infos, model.LPPoolInfo{
			PoolAddress:    p.PoolAddress,
			LPTokenAddress: p.LPTokenAddress,
			LPTokenHash:    p.LPTokenCodeHash,
			Asset0Address:  p.AssetInfos[0].Address(),
			Asset1Address:  p.AssetInfos[1].Address(),
			Asset0Symbol:   a0.Symbol,
			Asset1Symbol:   a1.Symbol,
			Asset0Decimals: a0.Decimals,
			Asset1Decimals: a1.Decimals,
		})
	}
	return infos
}

func (c *Catalog) assetMeta(a model.AssetInfo) model.TokenMeta {
	if a.IsNative() {
		denom := a.NativeToken.Denom
		symbol := denom
		// Chain convention: micro-denoms carry a "u" prefix.
		if strings.HasPrefix(denom, "u") && len(denom) > 1 {
			symbol = strings.ToUpper(denom[1:])
		}
		return model.TokenMeta{Address: denom, Symbol: symbol, Decimals: 6}
	}
	return c.Token(a.Address())
}

// bridgeRewardSymbol marks bridge mining pools, which pay out sSCRT; swap
// staking pools pay out the governance token.
const bridgeRewardSymbol = "sSCRT"

// SortRewardPools orders pools for display: swap-staking pools before bridge
// pools, enabled before disabled, named pools first, plain-token deposits
// before LP deposits, then alphabetical by deposit symbol.
func SortRewardPools(pools []model.RewardPool) {
	sort.SliceStable(pools, func(i, j int) bool {
		a, b := pools[i], pools[j]
		aSwap, bSwap := a.RewardToken.Symbol != bridgeRewardSymbol, b.RewardToken.Symbol != bridgeRewardSymbol
		if aSwap != bSwap {
			return aSwap
		}
		if a.Disabled != b.Disabled {
			return !a.Disabled
		}
		aNamed, bNamed := a.Name != "", b.Name != ""
		if aNamed != bNamed {
			return aNamed
		}
		aLP, bLP := isLPSymbol(a.DepositToken.Symbol), isLPSymbol(b.DepositToken.Symbol)
		if aLP != bLP {
			return !aLP
		}
		return a.DepositToken.Symbol < b.DepositToken.Symbol
	})
}

func isLPSymbol(symbol string) bool {
	return strings.HasPrefix(symbol, "LP-") || strings.Contains(symbol, "-LP")
}

func truncateAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
