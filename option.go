package conversionproxy

import (
	"github.com/requestlabs/conversion-proxy/logger"
	"github.com/requestlabs/conversion-proxy/metrics"
)

type Option func(*ConversionProxy)

func WithLogger(l logger.Logger) Option {
	return func(p *ConversionProxy) {
		p.log = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(p *ConversionProxy) {
		p.metrics = r
	}
}

// WithDefaultRateAge overrides the maximum quote age, in chain time
// units, applied when a request leaves max_rate_age at 0.
func WithDefaultRateAge(age uint64) Option {
	return func(p *ConversionProxy) {
		if age > 0 {
			p.defaultRateAge = age
		}
	}
}

// WithCurrencyDecimals registers the smallest-unit precision of a fiat
// currency. Unregistered currencies default to 2 (cents).
func WithCurrencyDecimals(symbol string, decimals uint32) Option {
	return func(p *ConversionProxy) {
		p.currencies[symbol] = decimals
	}
}
