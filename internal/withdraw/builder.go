// Package withdraw builds and submits the redemption transaction: one
// message per selected contract, with the message kind dispatched from the
// pool's kind and disabled flag.
package withdraw

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"secretmigrate/internal/balances"
	"secretmigrate/internal/chain"
	"secretmigrate/internal/codec"
	"secretmigrate/internal/model"
	"secretmigrate/internal/wallet"
)

// Gas budget per withdrawal message plus fixed overhead, shared by reward
// redemption and LP burns.
const (
	withdrawGasPerMsg = 200_000
	withdrawGasBase   = 100_000
)

// Selection is one contract the user wants to withdraw from. Exactly one of
// Reward or LP is set.
type Selection struct {
	Reward *RewardSelection
	LP     *LPSelection
}

// RewardSelection redeems a staking pool. Balance is the raw known balance;
// it may be empty for disabled pools, whose emergency path returns the full
// balance without naming an amount.
type RewardSelection struct {
	Pool    model.RewardPool
	Balance string
}

// LPSelection burns the user's full LP balance for underlying assets.
type LPSelection struct {
	Pool    model.LPPoolInfo
	Balance string
}

// BuildMessages dispatches the correct message kind per selection:
//
//   - disabled reward pool: emergency redeem, no amount
//   - enabled reward pool: redeem the full known balance
//   - LP position: send the LP balance to the pair contract with a
//     withdraw_liquidity callback
//
// Selections with nothing to withdraw are skipped; an empty outcome is
// model.ErrNothingWithdrawable.
func BuildMessages(walletAddress string, selections []Selection) ([]model.ExecuteMsg, error) {
	msgs := make([]model.ExecuteMsg, 0, len(selections))

	for _, sel := range selections {
		switch {
		case sel.Reward != nil:
			msg, ok, err := rewardMessage(walletAddress, *sel.Reward)
			if err != nil {
				return nil, err
			}
			if ok {
				msgs = append(msgs, msg)
			}
		case sel.LP != nil:
			msg, ok, err := lpMessage(walletAddress, *sel.LP)
			if err != nil {
				return nil, err
			}
			if ok {
				msgs = append(msgs, msg)
			}
		}
	}

	if len(msgs) == 0 {
		return nil, model.ErrNothingWithdrawable
	}
	return msgs, nil
}

func rewardMessage(walletAddress string, sel RewardSelection) (model.ExecuteMsg, bool, error) {
	if sel.Pool.Disabled {
		body, err := codec.EmergencyRedeemMsg()
		if err != nil {
			return model.ExecuteMsg{}, false, fmt.Errorf("build emergency_redeem msg: %w", err)
		}
		return model.ExecuteMsg{Sender: walletAddress, Contract: sel.Pool.Ref(), Msg: body}, true, nil
	}

	if !balances.IsPositive(sel.Balance) {
		return model.ExecuteMsg{}, false, nil
	}
	body, err := codec.RedeemMsg(sel.Balance)
	if err != nil {
		return model.ExecuteMsg{}, false, fmt.Errorf("build redeem msg: %w", err)
	}
	return model.ExecuteMsg{Sender: walletAddress, Contract: sel.Pool.Ref(), Msg: body}, true, nil
}

func lpMessage(walletAddress string, sel LPSelection) (model.ExecuteMsg, bool, error) {
	if !balances.IsPositive(sel.Balance) {
		return model.ExecuteMsg{}, false, nil
	}
	body, err := codec.WithdrawLiquidityMsg(sel.Pool.PoolAddress, sel.Balance)
	if err != nil {
		return model.ExecuteMsg{}, false, fmt.Errorf("build withdraw_liquidity msg: %w", err)
	}
	contract := model.ContractRef{Address: sel.Pool.LPTokenAddress, CodeHash: sel.Pool.LPTokenHash}
	return model.ExecuteMsg{Sender: walletAddress, Contract: contract, Msg: body}, true, nil
}

// GasLimit returns the gas budget for a withdrawal transaction.
func GasLimit(msgCount int) uint64 {
	return uint64(msgCount)*withdrawGasPerMsg + withdrawGasBase
}

// Withdrawer signs and broadcasts withdrawal transactions.
type Withdrawer struct {
	broadcaster chain.Broadcaster
	wallet      wallet.Wallet
	chainID     string
	logger      *zap.Logger
}

// NewWithdrawer builds a Withdrawer.
func NewWithdrawer(b chain.Broadcaster, w wallet.Wallet, chainID string, logger *zap.Logger) *Withdrawer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Withdrawer{broadcaster: b, wallet: w, chainID: chainID, logger: logger}
}

// Withdraw builds one transaction for the selections and submits it. A
// nonzero chain code surfaces the raw log verbatim; there is no automatic
// retry.
func (w *Withdrawer) Withdraw(ctx context.Context, walletAddress string, selections []Selection) (model.TxResult, error) {
	msgs, err := BuildMessages(walletAddress, selections)
	if err != nil {
		return model.TxResult{}, err
	}

	tx := model.Tx{
		ChainID:  w.chainID,
		Sender:   walletAddress,
		Msgs:     msgs,
		GasLimit: GasLimit(len(msgs)),
	}

	signed, err := chain.SignTx(ctx, w.wallet, tx)
	if err != nil {
		return model.TxResult{}, err
	}

	w.logger.Info("submitting withdrawal",
		zap.String("wallet", walletAddress),
		zap.Int("messages", len(msgs)),
		zap.Uint64("gas_limit", tx.GasLimit),
	)

	result, err := w.broadcaster.BroadcastTx(ctx, signed)
	if err != nil {
		return model.TxResult{}, err
	}
	if !result.Committed() {
		return result, &model.TxFailedError{Code: result.Code, RawLog: result.RawLog}
	}
	return result, nil
}
