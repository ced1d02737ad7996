// Package types defines the data model shared by the conversion proxy,
// the price oracle boundary and the chain simulator.
package types

import "math/big"

// AccountID identifies an account on the native chain.
type AccountID string

func (a AccountID) String() string {
	return string(a)
}

// NativeDecimals is the number of fractional digits of the native
// settlement asset. All native amounts are expressed in base units.
const NativeDecimals = 24

// PaymentReferenceLength is the exact decoded length, in bytes, a
// payment reference must have.
const PaymentReferenceLength = 8

// OneNative returns one whole native token in base units (10^24).
func OneNative() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(NativeDecimals), nil)
}

// PaymentRequest is a caller-supplied fiat-denominated payment order.
// It is immutable once accepted and lives only for the duration of one
// contract call plus its asynchronous continuation.
type PaymentRequest struct {
	// PaymentReference correlates the payment to an off-chain invoice.
	// Hex encoded with a 0x prefix; must decode to exactly 8 bytes.
	PaymentReference string `json:"payment_reference" validate:"required"`

	// PayeeAddress receives the converted main amount.
	PayeeAddress AccountID `json:"payee_address" validate:"required"`

	// MainAmount is denominated in the fiat currency's smallest unit
	// (e.g. cents for USD).
	MainAmount *big.Int `json:"main_amount" validate:"required"`

	// CurrencySymbol names the fiat currency, e.g. "USD".
	CurrencySymbol string `json:"currency_symbol" validate:"required"`

	// FeeRecipientAddress receives the converted fee amount.
	FeeRecipientAddress AccountID `json:"fee_recipient_address" validate:"required"`

	// FeeAmount is denominated like MainAmount.
	FeeAmount *big.Int `json:"fee_amount" validate:"required"`

	// MaxRateAge bounds how old the oracle quote may be, in chain time
	// units. 0 means "use the contract's default maximum age".
	MaxRateAge uint64 `json:"max_rate_age"`
}

// TradingPair resolves the request's currency to the oracle pair
// identifier, e.g. "USD/NATIVE".
func (r *PaymentRequest) TradingPair() string {
	return r.CurrencySymbol + "/NATIVE"
}

// PriceEntry is a single oracle-reported price observation. It is never
// mutated after receipt.
type PriceEntry struct {
	// Price at Decimals precision. The quote is the fiat value of one
	// native unit.
	Price *big.Int `json:"price"`

	// Decimals is the number of fractional digits Price is expressed in.
	Decimals uint16 `json:"decimals"`

	// LastUpdate is the chain timestamp of the observation.
	LastUpdate uint64 `json:"last_update"`
}

// Age returns how old the entry is relative to now.
func (e *PriceEntry) Age(now uint64) uint64 {
	if e.LastUpdate > now {
		return 0
	}
	return now - e.LastUpdate
}

// ConversionResult holds the converted amounts in native base units.
type ConversionResult struct {
	NativeMain *big.Int `json:"native_main_amount"`
	NativeFee  *big.Int `json:"native_fee_amount"`
}

// Total returns the sum of the main and fee amounts.
func (c *ConversionResult) Total() *big.Int {
	return new(big.Int).Add(c.NativeMain, c.NativeFee)
}
