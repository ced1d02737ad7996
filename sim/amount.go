package sim

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/requestlabs/conversion-proxy/types"
)

// ParseNative converts a decimal native-asset amount such as "0.005"
// into base units. Digits beyond the native precision are truncated.
func ParseNative(amount string) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse native amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("native amount %q is negative", amount)
	}
	return d.Shift(types.NativeDecimals).BigInt(), nil
}

// MustParseNative is ParseNative for trusted literals.
func MustParseNative(amount string) *big.Int {
	v, err := ParseNative(amount)
	if err != nil {
		panic(err)
	}
	return v
}
