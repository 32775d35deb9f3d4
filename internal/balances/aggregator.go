// Package balances fetches encrypted pool balances in batched round trips,
// attributes per-contract failures, and derives pro-rata LP shares.
package balances

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"secretmigrate/internal/chain"
	"secretmigrate/internal/codec"
	"secretmigrate/internal/model"
)

// SubBatchSize bounds how many queries share one physical round trip.
const SubBatchSize = 10

// reservesConcurrency bounds parallel secondary reserves queries.
const reservesConcurrency = 4

// TargetKind distinguishes reward pools from LP token positions.
type TargetKind int

const (
	// TargetReward is a staking pool balance query.
	TargetReward TargetKind = iota
	// TargetLP is an LP token balance query with a secondary reserves
	// lookup when the balance is nonzero.
	TargetLP
)

// Target is one contract to query, with its resolved credential.
type Target struct {
	Kind     TargetKind
	Contract model.ContractRef
	// Pair is the pair contract holding the reserves; LP targets only.
	Pair       model.ContractRef
	Credential string
	Source     model.CredentialSource
	Symbol     string
	Decimals   uint8
}

// Result is a partial-failure-aware fetch outcome. A contract address
// appears in exactly one of Balances/LPBalances or InvalidCredentials, or in
// neither when its query failed at the transport level (unknown, not zero).
type Result struct {
	Balances           map[string]model.PoolBalance
	LPBalances         map[string]model.LPBalance
	InvalidCredentials map[string]model.CredentialSource
}

func newResult() Result {
	return Result{
		Balances:           make(map[string]model.PoolBalance),
		LPBalances:         make(map[string]model.LPBalance),
		InvalidCredentials: make(map[string]model.CredentialSource),
	}
}

// Querier is what the aggregator needs from the chain client.
type Querier interface {
	ComputeQuery(ctx context.Context, contract model.ContractRef, query []byte) (json.RawMessage, error)
	BatchComputeQuery(ctx context.Context, items []chain.BatchItem) ([]chain.BatchResult, error)
}

// Aggregator batches balance queries across many contracts.
type Aggregator struct {
	querier Querier
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewAggregator builds an Aggregator. The limiter paces the sequential
// fallback path so a degraded endpoint is not hammered.
func NewAggregator(q Querier, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		querier: q,
		limiter: rate.NewLimiter(rate.Limit(5), 1),
		logger:  logger,
	}
}

// FetchBalances queries every target, batched SubBatchSize per round trip.
// A chunk whose combined request fails outright degrades to sequential
// per-contract queries; individual failures are logged and skipped, so the
// result is always the union of whatever succeeded. Credential-invalid
// responses land in InvalidCredentials without affecting other targets.
func (a *Aggregator) FetchBalances(ctx context.Context, walletAddress string, targets []Target) (Result, error) {
	result := newResult()
	if len(targets) == 0 {
		return result, nil
	}

	byAddress := make(map[string]Target, len(targets))
	for _, target := range targets {
		byAddress[target.Contract.Address] = target
	}

	for start := 0; start < len(targets); start += SubBatchSize {
		end := start + SubBatchSize
		if end > len(targets) {
			end = len(targets)
		}
		chunk := targets[start:end]

		if err := ctx.Err(); err != nil {
			return result, err
		}

		items := make([]chain.BatchItem, 0, len(chunk))
		for _, target := range chunk {
			query, err := codec.BalanceQuery(walletAddress, target.Credential)
			if err != nil {
				a.logger.Error("build balance query failed",
					zap.String("contract", target.Contract.Address), zap.Error(err))
				continue
			}
			items = append(items, chain.BatchItem{
				ID:       target.Contract.Address,
				Contract: target.Contract,
				Query:    query,
			})
		}
		if len(items) == 0 {
			continue
		}

		batchResults, err := a.querier.BatchComputeQuery(ctx, items)
		if err != nil {
			a.logger.Warn("batch query failed, falling back to sequential",
				zap.Int("queries", len(items)), zap.Error(err))
			a.fetchSequential(ctx, items, byAddress, &result)
			continue
		}

		for _, br := range batchResults {
			target, ok := byAddress[br.ID]
			if !ok {
				a.logger.Warn("batch result for unknown query id", zap.String("id", br.ID))
				continue
			}
			if br.Err != nil {
				a.logger.Warn("balance query failed",
					zap.String("contract", br.ID), zap.Error(br.Err))
				continue
			}
			a.applyResponse(target, br.Response, &result)
		}
	}

	a.resolveShares(ctx, byAddress, &result)

	a.logger.Info("balance fetch complete",
		zap.Int("targets", len(targets)),
		zap.Int("balances", len(result.Balances)),
		zap.Int("lp_balances", len(result.LPBalances)),
		zap.Int("invalid_credentials", len(result.InvalidCredentials)),
	)
	return result, nil
}

// fetchSequential is the degraded path: one independent query per contract,
// paced by the limiter, collecting whatever succeeds.
func (a *Aggregator) fetchSequential(ctx context.Context, items []chain.BatchItem, byAddress map[string]Target, result *Result) {
	for _, item := range items {
		if err := a.limiter.Wait(ctx); err != nil {
			return
		}
		response, err := a.querier.ComputeQuery(ctx, item.Contract, item.Query)
		if err != nil {
			a.logger.Warn("sequential balance query failed",
				zap.String("contract", item.Contract.Address), zap.Error(err))
			continue
		}
		target, ok := byAddress[item.ID]
		if !ok {
			continue
		}
		a.applyResponse(target, response, result)
	}
}

// applyResponse classifies one query response and records it under exactly
// one result bucket.
func (a *Aggregator) applyResponse(target Target, raw json.RawMessage, result *Result) {
	classified, err := codec.Classify(raw)
	if err != nil {
		a.logger.Warn("unrecognized balance response",
			zap.String("contract", target.Contract.Address))
		return
	}

	switch classified.Kind {
	case codec.KindCredentialError:
		a.logger.Warn("credential rejected",
			zap.String("contract", target.Contract.Address),
			zap.String("source", string(target.Source)),
			zap.String("msg", classified.CredentialMsg),
		)
		result.InvalidCredentials[target.Contract.Address] = target.Source
	case codec.KindBalance:
		if target.Kind == TargetLP {
			result.LPBalances[target.Contract.Address] = model.LPBalance{
				LPTokenAddress: target.Contract.Address,
				Raw:            classified.Amount,
			}
		} else {
			result.Balances[target.Contract.Address] = model.PoolBalance{
				PoolAddress: target.Contract.Address,
				Raw:         classified.Amount,
				Symbol:      target.Symbol,
				Decimals:    target.Decimals,
			}
		}
	default:
		a.logger.Warn("unexpected response kind for balance query",
			zap.String("contract", target.Contract.Address))
	}
}

// resolveShares runs the secondary reserves query for every LP target with a
// nonzero balance and fills in the underlying amounts. Reserves move with
// every trade, so each call fetches fresh. Failure leaves the raw balance in
// place with the share absent.
func (a *Aggregator) resolveShares(ctx context.Context, byAddress map[string]Target, result *Result) {
	poolQuery, err := codec.PoolQuery()
	if err != nil {
		a.logger.Error("build pool query failed", zap.Error(err))
		return
	}

	type pending struct {
		address   string
		lpBalance model.LPBalance
		target    Target
	}
	var work []pending
	for address, lpBalance := range result.LPBalances {
		if !IsPositive(lpBalance.Raw) {
			continue
		}
		target, ok := byAddress[address]
		if !ok || target.Pair.Address == "" {
			continue
		}
		work = append(work, pending{address: address, lpBalance: lpBalance, target: target})
	}
	if len(work) == 0 {
		return
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(reservesConcurrency)

	for _, item := range work {
		address, lpBalance, target := item.address, item.lpBalance, item.target
		group.Go(func() error {
			response, err := a.querier.ComputeQuery(groupCtx, target.Pair, poolQuery)
			if err != nil {
				a.logger.Warn("reserves query failed",
					zap.String("pair", target.Pair.Address), zap.Error(err))
				return nil
			}
			classified, err := codec.Classify(response)
			if err != nil || classified.Kind != codec.KindReserves {
				a.logger.Warn("unrecognized reserves response",
					zap.String("pair", target.Pair.Address))
				return nil
			}

			amount0, amount1, err := ComputeShare(lpBalance.Raw, classified.Reserves)
			if err != nil {
				a.logger.Warn("share computation failed",
					zap.String("pair", target.Pair.Address), zap.Error(err))
				return nil
			}

			mu.Lock()
			lpBalance.Amount0 = amount0
			lpBalance.Amount1 = amount1
			lpBalance.TotalShare = classified.Reserves.TotalShare
			result.LPBalances[address] = lpBalance
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait only fences completion.
	_ = group.Wait()
}
