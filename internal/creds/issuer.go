package creds

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"secretmigrate/internal/chain"
	"secretmigrate/internal/codec"
	"secretmigrate/internal/model"
	"secretmigrate/internal/storage"
	"secretmigrate/internal/wallet"
)

// Gas budget for a key-issuance transaction: linear per message plus a fixed
// overhead.
const (
	setKeyGasPerMsg = 40_000
	setKeyGasBase   = 50_000
)

// Issuer sets the derived-signature credential on contracts that lack one.
// All messages go into a single transaction; the chain commits them
// atomically, so there is no partial-success bookkeeping.
type Issuer struct {
	broadcaster chain.Broadcaster
	wallet      wallet.Wallet
	records     storage.RecordStore
	chainID     string
	logger      *zap.Logger
}

// NewIssuer builds an Issuer.
func NewIssuer(b chain.Broadcaster, w wallet.Wallet, records storage.RecordStore, chainID string, logger *zap.Logger) *Issuer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Issuer{broadcaster: b, wallet: w, records: records, chainID: chainID, logger: logger}
}

// Issue submits one transaction setting the derived signature as the viewing
// credential on every given contract, then merges the contracts into the
// wallet's persisted issued set. A rejected transaction fails the whole
// batch with the chain's log attached.
func (i *Issuer) Issue(ctx context.Context, walletAddress, derivedSignature string, contracts []model.ContractRef) (model.TxResult, error) {
	if len(contracts) == 0 {
		return model.TxResult{}, model.ErrNothingNeedsKeys
	}
	if derivedSignature == "" {
		return model.TxResult{}, fmt.Errorf("derived signature is empty")
	}

	body, err := codec.SetViewingKeyMsg(derivedSignature)
	if err != nil {
		return model.TxResult{}, fmt.Errorf("build set_viewing_key msg: %w", err)
	}

	msgs := make([]model.ExecuteMsg, 0, len(contracts))
	for _, contract := range contracts {
		msgs = append(msgs, model.ExecuteMsg{
			Sender:   walletAddress,
			Contract: contract,
			Msg:      body,
		})
	}

	tx := model.Tx{
		ChainID:  i.chainID,
		Sender:   walletAddress,
		Msgs:     msgs,
		GasLimit: uint64(len(msgs))*setKeyGasPerMsg + setKeyGasBase,
	}

	signed, err := chain.SignTx(ctx, i.wallet, tx)
	if err != nil {
		return model.TxResult{}, err
	}

	i.logger.Info("issuing viewing keys",
		zap.String("wallet", walletAddress),
		zap.Int("contracts", len(contracts)),
		zap.Uint64("gas_limit", tx.GasLimit),
	)

	result, err := i.broadcaster.BroadcastTx(ctx, signed)
	if err != nil {
		return model.TxResult{}, err
	}
	if !result.Committed() {
		return result, &model.TxFailedError{Code: result.Code, RawLog: result.RawLog}
	}

	addresses := make([]string, 0, len(contracts))
	for _, contract := range contracts {
		addresses = append(addresses, contract.Address)
	}
	if err := i.records.RecordIssued(ctx, walletAddress, addresses); err != nil {
		// The keys are live on chain; losing the record only costs a
		// re-issuance next session.
		i.logger.Error("persisting issued set failed", zap.Error(err))
		return result, fmt.Errorf("record issued contracts: %w", err)
	}

	return result, nil
}
