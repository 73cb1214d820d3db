package contract

import (
	"fmt"
	"math/big"
	"strings"
)

const etherDecimals = 18

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(etherDecimals), nil)

// ParseEther converts a decimal ether amount such as "0.05" to wei.
func ParseEther(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty ether amount", ErrInvalidArgument)
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > etherDecimals {
		return nil, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidArgument, s, etherDecimals)
	}
	if whole == "" {
		whole = "0"
	}
	digits := whole + frac + strings.Repeat("0", etherDecimals-len(frac))
	wei, ok := new(big.Int).SetString(digits, 10)
	if !ok || wei.Sign() < 0 || strings.ContainsAny(digits, "+-") {
		return nil, fmt.Errorf("%w: bad ether amount %q", ErrInvalidArgument, s)
	}
	return wei, nil
}

// FormatEther renders wei as a decimal ether amount without trailing zeros.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	neg := wei.Sign() < 0
	abs := new(big.Int).Abs(wei)
	q, r := new(big.Int).QuoRem(abs, weiPerEther, new(big.Int))

	out := q.String()
	if r.Sign() != 0 {
		rs := r.String()
		frac := strings.Repeat("0", etherDecimals-len(rs)) + rs
		out += "." + strings.TrimRight(frac, "0")
	}
	if neg {
		out = "-" + out
	}
	return out
}
