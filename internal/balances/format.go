package balances

import (
	"math/big"
	"strings"
)

// FormatAmount renders a raw integer amount as a decimal string in display
// units, trimming trailing zeros. Invalid input renders as "0".
func FormatAmount(raw string, decimals uint8) string {
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}

	digits := amount.String()
	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}

	if len(digits) <= int(decimals) {
		digits = strings.Repeat("0", int(decimals)-len(digits)+1) + digits
	}
	split := len(digits) - int(decimals)
	whole, frac := digits[:split], digits[split:]

	frac = strings.TrimRight(frac, "0")
	out := whole
	if frac != "" {
		out = whole + "." + frac
	}
	if negative && out != "0" {
		out = "-" + out
	}
	return out
}

// IsPositive reports whether a raw amount string parses and is greater than
// zero.
func IsPositive(raw string) bool {
	amount, ok := new(big.Int).SetString(raw, 10)
	return ok && amount.Sign() > 0
}
