package chain

import (
	"context"
	"encoding/json"
	"fmt"

	"secretmigrate/internal/model"
	"secretmigrate/internal/wallet"
)

// SignTx produces the canonical sign document for a transaction and has the
// wallet sign it.
func SignTx(ctx context.Context, w wallet.Wallet, tx model.Tx) (model.SignedTx, error) {
	doc, err := json.Marshal(tx)
	if err != nil {
		return model.SignedTx{}, fmt.Errorf("marshal sign doc: %w", err)
	}
	sig, err := w.SignAmino(ctx, tx.ChainID, tx.Sender, doc)
	if err != nil {
		return model.SignedTx{}, fmt.Errorf("sign tx: %w", err)
	}
	return model.SignedTx{Tx: tx, Signature: sig}, nil
}

// Broadcaster submits signed transactions. *Client implements it; tests use
// fakes.
type Broadcaster interface {
	BroadcastTx(ctx context.Context, tx model.SignedTx) (model.TxResult, error)
}
