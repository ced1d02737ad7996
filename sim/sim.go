// Package sim is a deterministic in-process chain simulator used to
// drive end-to-end payment scenarios against the conversion proxy.
//
// The simulator owns the account/balance model, block time and the
// receipt sequence of a proxy call: deposit hand-over, the oracle
// query, the settlement callback, transfers and refunds. Execution is
// single-threaded and fully deterministic; the only suspension point of
// a payment is the oracle query, and its callback runs before the call
// result is produced, matching the chain's ordering guarantee.
package sim

import (
	"context"
	"fmt"
	"math/big"
	"time"

	conversionproxy "github.com/requestlabs/conversion-proxy"
	"github.com/requestlabs/conversion-proxy/logger"
	"github.com/requestlabs/conversion-proxy/metrics"
	"github.com/requestlabs/conversion-proxy/oracle"
	"github.com/requestlabs/conversion-proxy/types"
)

// GenesisConfig seeds the simulated chain.
type GenesisConfig struct {
	// InitialTimestamp is the starting block time, in nanoseconds.
	InitialTimestamp uint64

	// GasCost is burnt from the caller on every top-level call.
	GasCost *big.Int

	// ContractBalance is the endowment given to deployed contracts.
	ContractBalance *big.Int
}

// DefaultGenesis mirrors a small test chain: calls burn 0.001 native,
// contracts start with 5 native.
func DefaultGenesis() *GenesisConfig {
	return &GenesisConfig{
		InitialTimestamp: 1_600_000_000_000_000_000,
		GasCost:          MustParseNative("0.001"),
		ContractBalance:  MustParseNative("5"),
	}
}

type Simulator struct {
	accounts        map[types.AccountID]*big.Int
	oracles         map[types.AccountID]oracle.Source
	proxies         map[types.AccountID]*conversionproxy.ConversionProxy
	timestamp       uint64
	gasCost         *big.Int
	contractBalance *big.Int
	log             logger.Logger
	metrics         metrics.Recorder
}

type Option func(*Simulator)

func WithLogger(l logger.Logger) Option {
	return func(s *Simulator) {
		s.log = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(s *Simulator) {
		s.metrics = r
	}
}

// Init boots a simulator from the genesis config. A nil genesis uses
// DefaultGenesis.
func Init(genesis *GenesisConfig, opts ...Option) *Simulator {
	if genesis == nil {
		genesis = DefaultGenesis()
	}
	s := &Simulator{
		accounts:        make(map[types.AccountID]*big.Int),
		oracles:         make(map[types.AccountID]oracle.Source),
		proxies:         make(map[types.AccountID]*conversionproxy.ConversionProxy),
		timestamp:       genesis.InitialTimestamp,
		gasCost:         new(big.Int).Set(genesis.GasCost),
		contractBalance: new(big.Int).Set(genesis.ContractBalance),
		log:             logger.NoopLogger{},
		metrics:         metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BlockTimestamp returns the current chain time in nanoseconds.
func (s *Simulator) BlockTimestamp() uint64 {
	return s.timestamp
}

// SetBlockTimestamp moves the chain clock.
func (s *Simulator) SetBlockTimestamp(ts uint64) {
	s.timestamp = ts
}

// AdvanceTime moves the chain clock forward by d nanoseconds.
func (s *Simulator) AdvanceTime(d uint64) {
	s.timestamp += d
}

// CreateUser creates an account with the given starting balance.
func (s *Simulator) CreateUser(id types.AccountID, balance *big.Int) *UserAccount {
	s.accounts[id] = new(big.Int).Set(balance)
	return &UserAccount{sim: s, id: id}
}

// DeployOracle registers an oracle contract at the given account.
func (s *Simulator) DeployOracle(id types.AccountID, src oracle.Source) {
	s.accounts[id] = new(big.Int).Set(s.contractBalance)
	s.oracles[id] = src
}

// DeployProxy registers a conversion proxy contract at the given
// account.
func (s *Simulator) DeployProxy(id types.AccountID, p *conversionproxy.ConversionProxy) {
	s.accounts[id] = new(big.Int).Set(s.contractBalance)
	s.proxies[id] = p
}

// Balance returns a copy of an account's balance, nil if the account
// does not exist.
func (s *Simulator) Balance(id types.AccountID) *big.Int {
	b, ok := s.accounts[id]
	if !ok {
		return nil
	}
	return new(big.Int).Set(b)
}

// transfer moves value to an account that must already exist.
func (s *Simulator) transfer(from, to types.AccountID, amount *big.Int) error {
	if _, ok := s.accounts[to]; !ok {
		return fmt.Errorf("account %q does not exist", to)
	}
	s.move(from, to, amount)
	return nil
}

// move transfers between accounts the simulator already vetted.
func (s *Simulator) move(from, to types.AccountID, amount *big.Int) {
	s.accounts[from].Sub(s.accounts[from], amount)
	s.accounts[to].Add(s.accounts[to], amount)
}

// burn charges gas from an account.
func (s *Simulator) burn(from types.AccountID, amount *big.Int) {
	s.accounts[from].Sub(s.accounts[from], amount)
}

// callEnv is the chain environment handed to contract calls.
type callEnv struct {
	sim     *Simulator
	payer   types.AccountID
	deposit *big.Int
}

func (e *callEnv) BlockTimestamp() uint64 {
	return e.sim.timestamp
}

func (e *callEnv) AttachedDeposit() *big.Int {
	return new(big.Int).Set(e.deposit)
}

func (e *callEnv) PredecessorAccountID() types.AccountID {
	return e.payer
}

// transferWithReference runs the full receipt sequence of one payment
// call.
func (s *Simulator) transferWithReference(ctx context.Context, caller, proxyID types.AccountID, req types.PaymentRequest, deposit *big.Int) *ExecutionResult {
	start := time.Now()
	defer func() {
		s.metrics.ObserveLatency("transfer_with_reference", time.Since(start), nil)
	}()

	res := newExecutionResult()

	proxy, ok := s.proxies[proxyID]
	if !ok {
		res.fail(fmt.Errorf("no contract deployed at %q", proxyID))
		return res
	}
	if s.accounts[caller].Cmp(new(big.Int).Add(deposit, s.gasCost)) < 0 {
		res.fail(fmt.Errorf("account %q cannot cover deposit and gas", caller))
		return res
	}

	s.burn(caller, s.gasCost)
	res.gasBurnt.Set(s.gasCost)

	// The deposit is owned by the proxy for the duration of the call.
	s.move(caller, proxyID, deposit)
	env := &callEnv{sim: s, payer: caller, deposit: deposit}

	query, err := proxy.TransferWithReference(ctx, env, req)
	if err != nil {
		s.move(proxyID, caller, deposit)
		res.fail(err)
		return res
	}
	res.appendLog(fmt.Sprintf("receipt: oracle query %s to %s", query.Pair, query.Oracle))

	src, ok := s.oracles[query.Oracle]
	if !ok {
		s.move(proxyID, caller, deposit)
		res.fail(fmt.Errorf("no oracle deployed at %q", query.Oracle))
		return res
	}

	// Suspension point: the callback below only runs once the oracle
	// call has fully executed.
	entry, found := src.GetEntry(query.Pair, query.Provider)
	if !found {
		entry = nil
	}

	settlement, err := proxy.OnRateResult(ctx, env, query.Payment, entry)
	if err != nil {
		s.move(proxyID, caller, deposit)
		res.fail(err)
		return res
	}

	refund := new(big.Int).Set(settlement.Refund)
	for _, t := range settlement.Transfers {
		if terr := s.transfer(proxyID, t.To, t.Amount); terr != nil {
			// Not retried and not rolled back; the unmoved portion
			// goes back to the caller with the refund.
			res.fail(&types.ProxyError{
				Code:    types.ErrTransferFailure,
				Message: fmt.Sprintf("%s: %v", types.MsgTransferFailed, terr),
			})
			refund.Add(refund, t.Amount)
			continue
		}
		res.appendLog(fmt.Sprintf("receipt: transfer %s to %s", t.Amount, t.To))
	}
	if refund.Sign() > 0 {
		s.move(proxyID, caller, refund)
		res.appendLog(fmt.Sprintf("receipt: refund %s to %s", refund, caller))
	}

	s.log.Debugw("call finished",
		"caller", caller,
		"proxy", proxyID,
		"ok", res.IsOk(),
	)
	return res
}
