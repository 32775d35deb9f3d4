// Package codec builds contract query and execute payloads and classifies
// query responses. It does serialization only; no balance or credential logic
// lives here.
package codec

import (
	"encoding/base64"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BalanceQuery returns the encrypted-balance query body for a staking pool or
// SNIP-20 token contract.
func BalanceQuery(address, credential string) ([]byte, error) {
	body := struct {
		Balance struct {
			Address string `json:"address"`
			Key     string `json:"key"`
		} `json:"balance"`
	}{}
	body.Balance.Address = address
	body.Balance.Key = credential
	return json.Marshal(body)
}

// PoolQuery returns the reserves query body for a pair contract. It takes no
// arguments and needs no credential.
func PoolQuery() ([]byte, error) {
	return json.Marshal(map[string]struct{}{"pool": {}})
}

// SetViewingKeyMsg returns the execute body that sets a viewing credential on
// a contract.
func SetViewingKeyMsg(credential string) ([]byte, error) {
	body := struct {
		SetViewingKey struct {
			Key string `json:"key"`
		} `json:"set_viewing_key"`
	}{}
	body.SetViewingKey.Key = credential
	return json.Marshal(body)
}

// RedeemMsg returns the execute body withdrawing an exact staked amount.
func RedeemMsg(amount string) ([]byte, error) {
	body := struct {
		Redeem struct {
			Amount string `json:"amount"`
		} `json:"redeem"`
	}{}
	body.Redeem.Amount = amount
	return json.Marshal(body)
}

// EmergencyRedeemMsg returns the execute body for pools whose standard
// redemption is administratively disabled. The contract returns the full
// balance itself, so no amount is carried.
func EmergencyRedeemMsg() ([]byte, error) {
	return json.Marshal(map[string]struct{}{"emergency_redeem": {}})
}

// WithdrawLiquidityMsg returns the execute body sent to the LP token
// contract: it transfers the full LP balance to the pair contract with a
// base64 callback instructing it to burn the tokens and return proportional
// underlying assets.
func WithdrawLiquidityMsg(pairAddress, amount string) ([]byte, error) {
	callback, err := json.Marshal(map[string]struct{}{"withdraw_liquidity": {}})
	if err != nil {
		return nil, fmt.Errorf("marshal callback: %w", err)
	}
	body := struct {
		Send struct {
			Recipient string `json:"recipient"`
			Amount    string `json:"amount"`
			Msg       string `json:"msg"`
		} `json:"send"`
	}{}
	body.Send.Recipient = pairAddress
	body.Send.Amount = amount
	body.Send.Msg = base64.StdEncoding.EncodeToString(callback)
	return json.Marshal(body)
}
