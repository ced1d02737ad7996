package sim

import (
	"context"
	"math/big"

	"github.com/requestlabs/conversion-proxy/types"
)

// UserAccount is a handle for issuing calls as a specific account.
type UserAccount struct {
	sim *Simulator
	id  types.AccountID
}

func (u *UserAccount) AccountID() types.AccountID {
	return u.id
}

// Balance returns a copy of the account's current balance.
func (u *UserAccount) Balance() *big.Int {
	return u.sim.Balance(u.id)
}

// TransferWithReference submits a payment request to the proxy deployed
// at proxyID with the given attached deposit and runs it to its
// terminal state.
func (u *UserAccount) TransferWithReference(ctx context.Context, proxyID types.AccountID, req types.PaymentRequest, deposit *big.Int) *ExecutionResult {
	return u.sim.transferWithReference(ctx, u.id, proxyID, req, deposit)
}
