package conversionproxy

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"

	"github.com/requestlabs/conversion-proxy/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// validateRequest runs the synchronous pre-flight checks. It performs
// no cross-contract work; currency support and rate freshness are only
// checkable after the oracle round-trip.
func validateRequest(req *types.PaymentRequest) error {
	reference, err := hexutil.Decode(req.PaymentReference)
	if err != nil || len(reference) != types.PaymentReferenceLength {
		return &types.ProxyError{
			Code:    types.ErrInvalidReferenceLength,
			Message: types.MsgInvalidReferenceLength,
		}
	}

	if err := validate.Struct(req); err != nil {
		return &types.ProxyError{
			Code:    types.ErrInvalidRequest,
			Message: fmt.Sprintf("validation failed: %v", err),
		}
	}

	if req.MainAmount.Sign() < 0 || req.FeeAmount.Sign() < 0 {
		return &types.ProxyError{
			Code:    types.ErrInvalidRequest,
			Message: "amounts must not be negative",
		}
	}

	return nil
}
