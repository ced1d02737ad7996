// Package rate converts fiat amounts into native-asset amounts using an
// oracle price quote.
package rate

import (
	"fmt"
	"math/big"

	"github.com/requestlabs/conversion-proxy/types"
)

var ten = big.NewInt(10)

// Convert turns a fiat amount, given in the currency's smallest unit at
// fiatDecimals precision, into native base units. price is the fiat
// value of one native unit, expressed at priceDecimals precision.
//
// All arithmetic is exact wide-integer math with the remainder
// truncated, so the converter never yields more native asset than the
// quote covers. A zero fiat amount converts to zero unconditionally.
func Convert(fiatAmount *big.Int, fiatDecimals uint32, price *big.Int, priceDecimals uint16) (*big.Int, error) {
	if fiatAmount == nil || fiatAmount.Sign() < 0 {
		return nil, fmt.Errorf("invalid fiat amount")
	}
	if fiatAmount.Sign() == 0 {
		return new(big.Int), nil
	}
	if price == nil || price.Sign() <= 0 {
		return nil, fmt.Errorf("invalid oracle price")
	}

	exp := int64(types.NativeDecimals) + int64(priceDecimals) - int64(fiatDecimals)
	if exp < 0 {
		return nil, fmt.Errorf("currency precision %d exceeds available scale", fiatDecimals)
	}
	scale := new(big.Int).Exp(ten, big.NewInt(exp), nil)
	out := new(big.Int).Mul(fiatAmount, scale)
	return out.Quo(out, price), nil
}

// ConvertRequest converts the main and fee amounts of a payment request
// with the same quote.
func ConvertRequest(req *types.PaymentRequest, fiatDecimals uint32, entry *types.PriceEntry) (*types.ConversionResult, error) {
	main, err := Convert(req.MainAmount, fiatDecimals, entry.Price, entry.Decimals)
	if err != nil {
		return nil, fmt.Errorf("main amount: %w", err)
	}
	fee, err := Convert(req.FeeAmount, fiatDecimals, entry.Price, entry.Decimals)
	if err != nil {
		return nil, fmt.Errorf("fee amount: %w", err)
	}
	return &types.ConversionResult{NativeMain: main, NativeFee: fee}, nil
}
