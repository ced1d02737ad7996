package oracle

import (
	"math/big"

	"github.com/requestlabs/conversion-proxy/logger"
	"github.com/requestlabs/conversion-proxy/types"
)

type mockEntry struct {
	price    *big.Int
	decimals uint16
	age      uint64
}

// FPOContract mocks a first-party price oracle contract. Quotes are
// registered per pair with an age relative to the chain clock, so every
// query reports a timestamp that far behind the current block time.
//
// A fresh contract already knows "USD/NATIVE": one native unit is worth
// 123 USD (price 123000000 at 6 decimals), reported 10 time units ago.
type FPOContract struct {
	now     func() uint64
	entries map[string]mockEntry
	log     logger.Logger
}

// NewFPOContract builds the mock bound to the given chain clock. A nil
// logger disables logging.
func NewFPOContract(now func() uint64, log logger.Logger) *FPOContract {
	if log == nil {
		log = logger.NoopLogger{}
	}
	c := &FPOContract{
		now:     now,
		entries: make(map[string]mockEntry),
		log:     log,
	}
	c.SetEntry("USD/NATIVE", big.NewInt(123_000_000), 6, 10)
	return c
}

// SetEntry registers or replaces the quote for a pair. age is how old
// the quote reports itself relative to the chain clock at query time.
func (c *FPOContract) SetEntry(pair string, price *big.Int, decimals uint16, age uint64) {
	c.entries[pair] = mockEntry{
		price:    new(big.Int).Set(price),
		decimals: decimals,
		age:      age,
	}
}

// RemoveEntry makes a pair unknown again.
func (c *FPOContract) RemoveEntry(pair string) {
	delete(c.entries, pair)
}

// GetEntry implements Source.
func (c *FPOContract) GetEntry(pair string, provider types.AccountID) (*types.PriceEntry, bool) {
	c.log.Debugw("get_entry OK", "pair", pair, "provider", provider)

	e, ok := c.entries[pair]
	if !ok {
		return nil, false
	}

	now := c.now()
	var lastUpdate uint64
	if now > e.age {
		lastUpdate = now - e.age
	}
	return &types.PriceEntry{
		Price:      new(big.Int).Set(e.price),
		Decimals:   e.decimals,
		LastUpdate: lastUpdate,
	}, true
}
