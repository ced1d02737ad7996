// Package conversionproxy implements a payment proxy contract that
// accepts fiat-denominated payment requests, converts them to the
// chain's native asset at an oracle-reported rate and settles the
// resulting transfers.
//
// The chain execution model makes the flow asynchronous: the proxy
// validates the request, suspends on a cross-contract price query and
// finishes the payment in a callback. TransferWithReference is the
// pre-suspension phase, OnRateResult the post-suspension one; the
// runtime driving the contract (see the sim package) carries the
// returned PaymentContext between the two.
package conversionproxy

import (
	"context"
	"fmt"
	"math/big"

	"github.com/requestlabs/conversion-proxy/logger"
	"github.com/requestlabs/conversion-proxy/metrics"
	"github.com/requestlabs/conversion-proxy/rate"
	"github.com/requestlabs/conversion-proxy/types"
)

// DefaultMaxRateAge applies when a request passes max_rate_age == 0.
// Chain timestamps are in nanoseconds, so this is ten minutes.
const DefaultMaxRateAge uint64 = 10 * 60 * 1_000_000_000

// defaultCurrencyDecimals covers every fiat currency without an
// explicit override (smallest unit = cents).
const defaultCurrencyDecimals uint32 = 2

// CallContext is the slice of the chain environment a contract call
// can read.
type CallContext interface {
	BlockTimestamp() uint64
	AttachedDeposit() *big.Int
	PredecessorAccountID() types.AccountID
}

// ConversionProxy is the contract. The oracle and provider accounts are
// fixed at construction and immutable thereafter.
type ConversionProxy struct {
	oracleAccount   types.AccountID
	providerAccount types.AccountID
	defaultRateAge  uint64
	currencies      map[string]uint32
	log             logger.Logger
	metrics         metrics.Recorder
}

// New creates a conversion proxy bound to the given oracle contract and
// price provider accounts.
func New(oracleAccount, providerAccount types.AccountID, opts ...Option) *ConversionProxy {
	p := &ConversionProxy{
		oracleAccount:   oracleAccount,
		providerAccount: providerAccount,
		defaultRateAge:  DefaultMaxRateAge,
		currencies:      make(map[string]uint32),
		log:             logger.NoopLogger{},
		metrics:         metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OracleAccount returns the oracle contract configured at
// initialization.
func (p *ConversionProxy) OracleAccount() types.AccountID {
	return p.oracleAccount
}

// ProviderAccount returns the price provider passed on oracle queries.
func (p *ConversionProxy) ProviderAccount() types.AccountID {
	return p.providerAccount
}

// TransferWithReference starts a payment. It validates the request
// synchronously, takes ownership of the attached deposit and returns
// the oracle query the runtime must resolve before calling
// OnRateResult. A non-nil error rejects the payment before any
// cross-contract work; the runtime returns the deposit to the caller.
func (p *ConversionProxy) TransferWithReference(ctx context.Context, call CallContext, req types.PaymentRequest) (*OracleQuery, error) {
	if err := validateRequest(&req); err != nil {
		p.metrics.IncCounter("payment_rejected", map[string]string{"currency": req.CurrencySymbol})
		p.log.Warnw("payment rejected pre-flight",
			"reference", req.PaymentReference,
			"error", err.Error(),
		)
		return nil, err
	}

	pc := &PaymentContext{
		State:   StateInitiated,
		Payer:   call.PredecessorAccountID(),
		Request: req,
		Deposit: new(big.Int).Set(call.AttachedDeposit()),
	}

	pair := req.TradingPair()
	pc.State = StateAwaitingQuote
	p.log.Infow("payment initiated",
		"reference", req.PaymentReference,
		"payer", pc.Payer,
		"pair", pair,
		"deposit", pc.Deposit.String(),
	)

	return &OracleQuery{
		Oracle:   p.oracleAccount,
		Pair:     pair,
		Provider: p.providerAccount,
		Payment:  pc,
	}, nil
}

// OnRateResult resumes a suspended payment once the oracle query
// resolved. entry == nil means the oracle had no quote for the pair.
// On success the returned settlement carries the transfers to issue and
// the deposit remainder to refund; on error the runtime must refund the
// whole deposit.
func (p *ConversionProxy) OnRateResult(ctx context.Context, call CallContext, pc *PaymentContext, entry *types.PriceEntry) (*Settlement, error) {
	if pc.State != StateAwaitingQuote {
		return nil, fmt.Errorf("payment in state %s cannot settle", pc.State)
	}
	req := &pc.Request

	if entry == nil || entry.Price == nil {
		return nil, p.reject(pc, types.ErrUnsupportedCurrency, types.MsgInvalidOracleResponse)
	}

	maxAge := req.MaxRateAge
	if maxAge == 0 {
		maxAge = p.defaultRateAge
	}
	if age := entry.Age(call.BlockTimestamp()); age > maxAge {
		return nil, p.reject(pc, types.ErrStaleRate, types.MsgRateTooOld)
	}

	pc.State = StateSettling
	result, err := rate.ConvertRequest(req, p.currencyDecimals(req.CurrencySymbol), entry)
	if err != nil {
		return nil, p.reject(pc, types.ErrUnsupportedCurrency, fmt.Sprintf("%s: %v", types.MsgInvalidOracleResponse, err))
	}

	total := result.Total()
	if total.Cmp(pc.Deposit) > 0 {
		return nil, p.reject(pc, types.ErrInsufficientDeposit, types.MsgDepositTooSmall)
	}

	settlement := &Settlement{
		Result: *result,
		Refund: new(big.Int).Sub(pc.Deposit, total),
	}
	if result.NativeMain.Sign() > 0 {
		settlement.Transfers = append(settlement.Transfers, Transfer{
			To:     req.PayeeAddress,
			Amount: result.NativeMain,
		})
	}
	if result.NativeFee.Sign() > 0 {
		settlement.Transfers = append(settlement.Transfers, Transfer{
			To:     req.FeeRecipientAddress,
			Amount: result.NativeFee,
		})
	}

	pc.State = StateCompleted
	p.log.Infow("payment settled",
		"reference", req.PaymentReference,
		"payee", req.PayeeAddress,
		"native_main", result.NativeMain.String(),
		"native_fee", result.NativeFee.String(),
		"refund", settlement.Refund.String(),
	)
	p.metrics.IncCounter("payment_completed", map[string]string{"currency": req.CurrencySymbol})

	return settlement, nil
}

func (p *ConversionProxy) reject(pc *PaymentContext, code, msg string) error {
	pc.State = StateRejected
	p.log.Warnw("payment rejected",
		"reference", pc.Request.PaymentReference,
		"code", code,
	)
	p.metrics.IncCounter("payment_rejected", map[string]string{"currency": pc.Request.CurrencySymbol})
	return &types.ProxyError{Code: code, Message: msg}
}

func (p *ConversionProxy) currencyDecimals(symbol string) uint32 {
	if d, ok := p.currencies[symbol]; ok {
		return d
	}
	return defaultCurrencyDecimals
}
