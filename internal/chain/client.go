// Package chain talks to the query/broadcast endpoint over JSON-RPC. The
// endpoint decrypts compute queries server-side; this client treats request
// and response bodies as opaque JSON.
package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"

	"secretmigrate/internal/model"
)

// Client wraps an RPC connection to the chain endpoint.
type Client struct {
	rpcClient   *rpc.Client
	callTimeout time.Duration
}

// NewClient dials the endpoint.
func NewClient(ctx context.Context, rpcURL string, callTimeout time.Duration) (*Client, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	if callTimeout <= 0 {
		callTimeout = 15 * time.Second
	}
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	return &Client{rpcClient: rpcClient, callTimeout: callTimeout}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

type computeQueryArgs struct {
	ContractAddress string          `json:"contract_address"`
	CodeHash        string          `json:"code_hash,omitempty"`
	Query           json.RawMessage `json:"query"`
}

// ComputeQuery runs one contract query and returns the decrypted JSON
// response.
func (c *Client) ComputeQuery(ctx context.Context, contract model.ContractRef, query []byte) (json.RawMessage, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	var result json.RawMessage
	args := computeQueryArgs{ContractAddress: contract.Address, CodeHash: contract.CodeHash, Query: query}
	if err := c.rpcClient.CallContext(callCtx, &result, "compute_query", args); err != nil {
		return nil, fmt.Errorf("compute query %s: %w", contract.Address, err)
	}
	return result, nil
}

// BatchItem is one query inside a batched round trip. ID is chosen by the
// caller and echoed back on the matching result; results are correlated by
// it, never by position.
type BatchItem struct {
	ID       string
	Contract model.ContractRef
	Query    []byte
}

// BatchResult carries one item's response or its individual failure.
type BatchResult struct {
	ID       string
	Response json.RawMessage
	Err      error
}

// BatchComputeQuery runs all items in a single physical round trip. A
// returned error means the whole batch failed at the transport level;
// otherwise per-item failures are reported on the matching BatchResult.
func (c *Client) BatchComputeQuery(ctx context.Context, items []BatchItem) ([]BatchResult, error) {
	if len(items) == 0 {
		return nil, nil
	}

	elems := make([]rpc.BatchElem, len(items))
	responses := make([]json.RawMessage, len(items))
	for i, item := range items {
		elems[i] = rpc.BatchElem{
			Method: "compute_query",
			Args: []interface{}{computeQueryArgs{
				ContractAddress: item.Contract.Address,
				CodeHash:        item.Contract.CodeHash,
				Query:           item.Query,
			}},
			Result: &responses[i],
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	if err := c.rpcClient.BatchCallContext(callCtx, elems); err != nil {
		return nil, fmt.Errorf("batch compute query: %w", err)
	}

	results := make([]BatchResult, len(items))
	for i, item := range items {
		results[i] = BatchResult{ID: item.ID, Response: responses[i], Err: elems[i].Error}
	}
	return results, nil
}

// BroadcastTx submits a signed transaction and waits for its execution
// result. A non-nil error means the broadcast itself failed; an on-chain
// failure comes back as a result with a nonzero code.
func (c *Client) BroadcastTx(ctx context.Context, tx model.SignedTx) (model.TxResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	var result model.TxResult
	if err := c.rpcClient.CallContext(callCtx, &result, "tx_broadcast", tx); err != nil {
		return model.TxResult{}, fmt.Errorf("broadcast tx: %w", err)
	}
	return result, nil
}

// BankBalance returns the fee-denom balance of an address as a decimal
// string.
func (c *Client) BankBalance(ctx context.Context, address, denom string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	var result struct {
		Amount string `json:"amount"`
	}
	if err := c.rpcClient.CallContext(callCtx, &result, "bank_balance", address, denom); err != nil {
		return "", fmt.Errorf("bank balance %s: %w", address, err)
	}
	if result.Amount == "" {
		return "0", nil
	}
	return result.Amount, nil
}
