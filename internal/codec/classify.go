package codec

import (
	"bytes"

	"secretmigrate/internal/model"
)

// Kind tags a classified query response.
type Kind int

const (
	// KindUnrecognized is any response matching no known shape. It is a
	// protocol error, not a zero balance.
	KindUnrecognized Kind = iota
	// KindBalance is a successful balance response.
	KindBalance
	// KindReserves is a successful pair reserves response.
	KindReserves
	// KindCredentialError is the distinguished invalid-credential response.
	KindCredentialError
)

// Response is the tagged result of classifying a raw query response. Exactly
// one of the payload fields is meaningful, selected by Kind; callers never
// inspect raw JSON themselves.
type Response struct {
	Kind     Kind
	Amount   string
	Reserves model.ReservesSnapshot
	// CredentialMsg carries the contract's explanation for a rejected
	// credential.
	CredentialMsg string
}

type balanceShape struct {
	Balance *struct {
		Amount string `json:"amount"`
	} `json:"balance"`
	// Bridge staking pools report deposits under a different key.
	Deposit *struct {
		Deposit string `json:"deposit"`
	} `json:"deposit"`
	ViewingKeyError *struct {
		Msg string `json:"msg"`
	} `json:"viewing_key_error"`
}

type reservesShape struct {
	Assets []struct {
		Amount string `json:"amount"`
	} `json:"assets"`
	TotalShare string `json:"total_share"`
}

// Classify parses a raw query response into exactly one recognized variant.
// Plain-string responses and unknown shapes come back as KindUnrecognized
// with model.ErrUnrecognizedResponse.
func Classify(raw []byte) (Response, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Response{Kind: KindUnrecognized}, model.ErrUnrecognizedResponse
	}

	var bal balanceShape
	if err := json.Unmarshal(trimmed, &bal); err == nil {
		switch {
		// Only viewing_key_error signals an invalid credential. A generic
		// query_error is a plain query failure: it matches no shape here and
		// the result stays unknown, never credential-invalid.
		case bal.ViewingKeyError != nil:
			return Response{Kind: KindCredentialError, CredentialMsg: bal.ViewingKeyError.Msg}, nil
		case bal.Balance != nil && bal.Balance.Amount != "":
			return Response{Kind: KindBalance, Amount: bal.Balance.Amount}, nil
		case bal.Deposit != nil && bal.Deposit.Deposit != "":
			return Response{Kind: KindBalance, Amount: bal.Deposit.Deposit}, nil
		}
	}

	var res reservesShape
	if err := json.Unmarshal(trimmed, &res); err == nil {
		if len(res.Assets) == 2 && res.TotalShare != "" {
			return Response{
				Kind: KindReserves,
				Reserves: model.ReservesSnapshot{
					Reserve0:   res.Assets[0].Amount,
					Reserve1:   res.Assets[1].Amount,
					TotalShare: res.TotalShare,
				},
			}, nil
		}
	}

	return Response{Kind: KindUnrecognized}, model.ErrUnrecognizedResponse
}
