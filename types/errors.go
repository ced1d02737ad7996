package types

// Rejection codes surfaced by the conversion proxy.
const (
	ErrInvalidReferenceLength = "INVALID_REFERENCE_LENGTH"
	ErrUnsupportedCurrency    = "UNSUPPORTED_CURRENCY"
	ErrStaleRate              = "STALE_RATE"
	ErrInsufficientDeposit    = "INSUFFICIENT_DEPOSIT"
	ErrTransferFailure        = "TRANSFER_FAILURE"
	ErrInvalidRequest         = "INVALID_REQUEST"
)

// Externally observed error texts. Callers match on these substrings,
// so they must not change.
const (
	MsgInvalidReferenceLength = "Incorrect payment reference length"
	MsgInvalidOracleResponse  = "ERR_INVALID_ORACLE_RESPONSE"
	MsgRateTooOld             = "Conversion rate too old"
	MsgDepositTooSmall        = "Deposit too small for payment and fee"
	MsgTransferFailed         = "Transfer failed"
)

// ProxyError is a rejection with a stable code and a human-readable
// message containing the code's identifying substring.
type ProxyError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ProxyError) Error() string {
	return e.Message
}
