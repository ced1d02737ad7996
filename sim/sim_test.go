package sim_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conversionproxy "github.com/requestlabs/conversion-proxy"
	"github.com/requestlabs/conversion-proxy/oracle"
	"github.com/requestlabs/conversion-proxy/sim"
	"github.com/requestlabs/conversion-proxy/types"
)

const (
	proxyID  = types.AccountID("request-proxy")
	oracleID = types.AccountID("mockedfpo")
)

// initChain deploys the mock oracle and the proxy and creates three
// users: alice (funded), bob and builder (near-empty payee accounts).
func initChain(t *testing.T) (*sim.Simulator, *oracle.FPOContract, *sim.UserAccount, *sim.UserAccount, *sim.UserAccount) {
	t.Helper()

	chain := sim.Init(nil)
	fpo := oracle.NewFPOContract(chain.BlockTimestamp, nil)
	chain.DeployOracle(oracleID, fpo)

	proxy := conversionproxy.New(oracleID, "any")
	chain.DeployProxy(proxyID, proxy)
	require.Equal(t, oracleID, proxy.OracleAccount())

	alice := chain.CreateUser("alice", sim.MustParseNative("1000"))
	bob := chain.CreateUser("bob", sim.MustParseNative("0.00182"))
	builder := chain.CreateUser("builder", sim.MustParseNative("0.00182"))

	return chain, fpo, alice, bob, builder
}

func paymentRequest(payee, feeRecipient types.AccountID) types.PaymentRequest {
	return types.PaymentRequest{
		PaymentReference:    "0x1122334455667788",
		PayeeAddress:        payee,
		MainAmount:          big.NewInt(1200), // 12.00 USD
		CurrencySymbol:      "USD",
		FeeRecipientAddress: feeRecipient,
		FeeAmount:           big.NewInt(100), // 1.00 USD
		MaxRateAge:          0,
	}
}

func nativeFraction(units, divisor int64) *big.Int {
	n := new(big.Int).Mul(big.NewInt(units), types.OneNative())
	return n.Div(n, big.NewInt(divisor))
}

func requireOnePromiseError(t *testing.T, res *sim.ExecutionResult, substr string) {
	t.Helper()
	require.False(t, res.IsOk())
	require.Len(t, res.PromiseErrors(), 1)
	assert.Contains(t, res.PromiseErrors()[0].Error(), substr)
}

func TestTransferUSDNative(t *testing.T) {
	_, _, alice, bob, builder := initChain(t)
	initialAlice := alice.Balance()
	initialBob := bob.Balance()
	initialBuilder := builder.Balance()

	res := alice.TransferWithReference(context.Background(), proxyID,
		paymentRequest(bob.AccountID(), builder.AccountID()), sim.MustParseNative("100"))
	require.True(t, res.IsOk(), "payment should settle: %v", res.PromiseErrors())

	// 12 USD and 1 USD at the mocked 123 USD per native unit, exact.
	wantMain := nativeFraction(12, 123)
	wantFee := nativeFraction(1, 123)

	assert.Equal(t, wantMain, new(big.Int).Sub(bob.Balance(), initialBob),
		"bob should receive exactly 12 USD worth of native asset")
	assert.Equal(t, wantFee, new(big.Int).Sub(builder.Balance(), initialBuilder),
		"builder should receive exactly 1 USD worth of native asset")

	// Alice pays the converted total plus gas; the rest of the deposit
	// came back.
	spent := new(big.Int).Sub(initialAlice, alice.Balance())
	wantSpent := new(big.Int).Add(wantMain, wantFee)
	wantSpent.Add(wantSpent, res.GasBurnt())
	assert.Equal(t, wantSpent, spent)
}

func TestTransferWithInvalidReferenceLength(t *testing.T) {
	_, _, alice, bob, builder := initChain(t)
	initialAlice := alice.Balance()
	initialBob := bob.Balance()

	req := paymentRequest(bob.AccountID(), builder.AccountID())
	req.PaymentReference = "0x11223344556677"

	res := alice.TransferWithReference(context.Background(), proxyID, req, sim.MustParseNative("500"))
	requireOnePromiseError(t, res, "Incorrect payment reference length")

	// Only gas is lost; the deposit never left alice for good.
	spent := new(big.Int).Sub(initialAlice, alice.Balance())
	assert.Equal(t, res.GasBurnt(), spent)
	assert.Equal(t, initialBob, bob.Balance())
}

func TestTransferWithWrongCurrency(t *testing.T) {
	_, _, alice, bob, builder := initChain(t)
	initialAlice := alice.Balance()

	req := paymentRequest(bob.AccountID(), builder.AccountID())
	req.CurrencySymbol = "WRONG"

	res := alice.TransferWithReference(context.Background(), proxyID, req, sim.MustParseNative("100"))
	requireOnePromiseError(t, res, "ERR_INVALID_ORACLE_RESPONSE")

	spent := new(big.Int).Sub(initialAlice, alice.Balance())
	assert.Equal(t, res.GasBurnt(), spent, "full deposit should be refunded")
}

func TestTransferZeroUSDNative(t *testing.T) {
	_, _, alice, bob, builder := initChain(t)
	initialAlice := alice.Balance()
	initialBob := bob.Balance()
	initialBuilder := builder.Balance()

	req := paymentRequest(bob.AccountID(), builder.AccountID())
	req.MainAmount = new(big.Int)
	req.FeeAmount = new(big.Int)

	res := alice.TransferWithReference(context.Background(), proxyID, req, sim.MustParseNative("100"))
	require.True(t, res.IsOk())

	spent := new(big.Int).Sub(initialAlice, alice.Balance())
	assert.Equal(t, res.GasBurnt(), spent, "alice should not spend anything on a 0 USD payment")
	assert.Equal(t, initialBob, bob.Balance(), "bob's balance should be unchanged")
	assert.Equal(t, initialBuilder, builder.Balance(), "builder's balance should be unchanged")

	// No transfer receipts, only the refund.
	for _, line := range res.Logs() {
		assert.NotContains(t, line, "transfer")
	}
}

func TestOutdatedRate(t *testing.T) {
	_, _, alice, bob, builder := initChain(t)
	initialAlice := alice.Balance()

	req := paymentRequest(bob.AccountID(), builder.AccountID())
	// The mocked rate is 10 time units old.
	req.MaxRateAge = 1

	res := alice.TransferWithReference(context.Background(), proxyID, req, sim.MustParseNative("100"))
	requireOnePromiseError(t, res, "Conversion rate too old")

	spent := new(big.Int).Sub(initialAlice, alice.Balance())
	assert.Equal(t, res.GasBurnt(), spent)
}

func TestInsufficientDeposit(t *testing.T) {
	_, _, alice, bob, builder := initChain(t)
	initialAlice := alice.Balance()
	initialBob := bob.Balance()

	// 13 USD needs about 0.105 native units.
	res := alice.TransferWithReference(context.Background(), proxyID,
		paymentRequest(bob.AccountID(), builder.AccountID()), sim.MustParseNative("0.05"))
	requireOnePromiseError(t, res, "Deposit too small")

	spent := new(big.Int).Sub(initialAlice, alice.Balance())
	assert.Equal(t, res.GasBurnt(), spent, "no partial transfer may happen")
	assert.Equal(t, initialBob, bob.Balance())
}

func TestPayeeTransferFailure(t *testing.T) {
	_, _, alice, _, builder := initChain(t)
	initialAlice := alice.Balance()
	initialBuilder := builder.Balance()

	// The payee account was never created.
	res := alice.TransferWithReference(context.Background(), proxyID,
		paymentRequest("ghost", builder.AccountID()), sim.MustParseNative("100"))
	requireOnePromiseError(t, res, "Transfer failed")

	// The fee transfer is independent and still goes through; the
	// failed portion returns to alice with the refund.
	wantFee := nativeFraction(1, 123)
	assert.Equal(t, wantFee, new(big.Int).Sub(builder.Balance(), initialBuilder))

	spent := new(big.Int).Sub(initialAlice, alice.Balance())
	wantSpent := new(big.Int).Add(wantFee, res.GasBurnt())
	assert.Equal(t, wantSpent, spent)
}

func TestRateAgeBoundary(t *testing.T) {
	_, fpo, alice, bob, builder := initChain(t)

	req := paymentRequest(bob.AccountID(), builder.AccountID())
	req.MaxRateAge = 60

	res := alice.TransferWithReference(context.Background(), proxyID, req, sim.MustParseNative("100"))
	require.True(t, res.IsOk(), "a 10 unit old quote is within 60")

	fpo.SetEntry("USD/NATIVE", big.NewInt(123_000_000), 6, 100)

	res = alice.TransferWithReference(context.Background(), proxyID, req, sim.MustParseNative("100"))
	requireOnePromiseError(t, res, "Conversion rate too old")
}

func TestCallerCannotCoverDeposit(t *testing.T) {
	_, _, alice, bob, builder := initChain(t)

	res := bob.TransferWithReference(context.Background(), proxyID,
		paymentRequest(alice.AccountID(), builder.AccountID()), sim.MustParseNative("100"))
	require.False(t, res.IsOk())
}

func TestDepositOwnedPerCall(t *testing.T) {
	chain, _, alice, bob, builder := initChain(t)
	initialProxy := chain.Balance(proxyID)

	res := alice.TransferWithReference(context.Background(), proxyID,
		paymentRequest(bob.AccountID(), builder.AccountID()), sim.MustParseNative("100"))
	require.True(t, res.IsOk())

	// Nothing of the deposit sticks to the contract after settlement.
	assert.Equal(t, initialProxy, chain.Balance(proxyID))
}
