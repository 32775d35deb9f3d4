package codec

import (
	"encoding/base64"
	"testing"
)

func TestBalanceQueryShape(t *testing.T) {
	raw, err := BalanceQuery("secret1wallet", "api_key_xyz")
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	want := `{"balance":{"address":"secret1wallet","key":"api_key_xyz"}}`
	if string(raw) != want {
		t.Fatalf("query mismatch:\n got %s\nwant %s", raw, want)
	}
}

func TestPoolQueryShape(t *testing.T) {
	raw, err := PoolQuery()
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	if string(raw) != `{"pool":{}}` {
		t.Fatalf("query mismatch: %s", raw)
	}
}

func TestWithdrawLiquidityCallback(t *testing.T) {
	raw, err := WithdrawLiquidityMsg("secret1pair", "5000")
	if err != nil {
		t.Fatalf("build msg: %v", err)
	}

	var parsed struct {
		Send struct {
			Recipient string `json:"recipient"`
			Amount    string `json:"amount"`
			Msg       string `json:"msg"`
		} `json:"send"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("parse msg: %v", err)
	}
	if parsed.Send.Recipient != "secret1pair" || parsed.Send.Amount != "5000" {
		t.Fatalf("send fields mismatch: %+v", parsed.Send)
	}

	callback, err := base64.StdEncoding.DecodeString(parsed.Send.Msg)
	if err != nil {
		t.Fatalf("decode callback: %v", err)
	}
	if string(callback) != `{"withdraw_liquidity":{}}` {
		t.Fatalf("callback mismatch: %s", callback)
	}
}
