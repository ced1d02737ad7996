package conversionproxy

import (
	"math/big"

	"github.com/requestlabs/conversion-proxy/types"
)

// PaymentState tracks a request through its asynchronous lifecycle.
type PaymentState int

const (
	StateInitiated PaymentState = iota
	StateAwaitingQuote
	StateSettling
	StateCompleted
	StateRejected
)

func (s PaymentState) String() string {
	switch s {
	case StateInitiated:
		return "initiated"
	case StateAwaitingQuote:
		return "awaiting_quote"
	case StateSettling:
		return "settling"
	case StateCompleted:
		return "completed"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// PaymentContext is the continuation state carried across the oracle
// suspension. It is the only record of the in-flight payment; nothing
// survives the call.
type PaymentContext struct {
	State   PaymentState
	Payer   types.AccountID
	Request types.PaymentRequest
	Deposit *big.Int
}

// OracleQuery describes the asynchronous price lookup the runtime must
// perform before resuming the payment via OnRateResult.
type OracleQuery struct {
	Oracle   types.AccountID
	Pair     string
	Provider types.AccountID
	Payment  *PaymentContext
}

// Transfer is a native-asset transfer the runtime must issue on the
// contract's behalf.
type Transfer struct {
	To     types.AccountID
	Amount *big.Int
}

// Settlement is the outcome of a completed payment: the transfers to
// issue plus the unused deposit to return to the payer.
type Settlement struct {
	Result    types.ConversionResult
	Transfers []Transfer
	Refund    *big.Int
}
