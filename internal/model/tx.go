package model

import "encoding/json"

// ExecuteMsg is one contract execution inside a transaction.
type ExecuteMsg struct {
	Sender   string          `json:"sender"`
	Contract ContractRef     `json:"contract"`
	Msg      json.RawMessage `json:"msg"`
}

// Tx is an unsigned transaction: an ordered list of execute messages and the
// gas budget for the whole batch.
type Tx struct {
	ChainID  string       `json:"chain_id"`
	Sender   string       `json:"sender"`
	Msgs     []ExecuteMsg `json:"msgs"`
	GasLimit uint64       `json:"gas_limit"`
	Memo     string       `json:"memo,omitempty"`
}

// SignedTx pairs a transaction with its wallet signature.
type SignedTx struct {
	Tx        Tx     `json:"tx"`
	Signature []byte `json:"signature"`
}

// TxResult is the chain's execution result. Code zero means the transaction
// committed; any other code carries the failure reason in RawLog.
type TxResult struct {
	Code   uint32 `json:"code"`
	TxHash string `json:"txhash"`
	RawLog string `json:"raw_log"`
}

// Committed reports whether the transaction executed successfully on chain.
func (r TxResult) Committed() bool {
	return r.Code == 0
}
