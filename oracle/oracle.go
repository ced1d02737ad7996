// Package oracle defines the price oracle boundary consumed by the
// conversion proxy, plus a mock oracle contract for tests.
package oracle

import "github.com/requestlabs/conversion-proxy/types"

// Source answers point price queries for trading pairs. ok == false
// signals an unsupported or unknown pair. The proxy treats every answer
// as untrusted and re-validates freshness on each call.
type Source interface {
	GetEntry(pair string, provider types.AccountID) (entry *types.PriceEntry, ok bool)
}
