package oracle

import (
	"fmt"
	"strings"
	"time"

	"StockSentry/internal/model"
)

// Oracle supplies the current price, currency and display name for a symbol.
// Any error means "no observation this pass"; callers never treat it as fatal.
type Oracle interface {
	Quote(symbol string) (*model.PriceQuote, error)
	Name() string
}

// HTTPOracle routes symbols to live data sources: BTC* goes to CoinGecko,
// everything else to Yahoo Finance.
type HTTPOracle struct {
	yahoo *YahooOracle
	gecko *CoinGeckoOracle
}

// NewHTTPOracle builds the live oracle with optional proxy support.
func NewHTTPOracle(proxyURL string) *HTTPOracle {
	return &HTTPOracle{
		yahoo: NewYahooOracle(proxyURL),
		gecko: NewCoinGeckoOracle(proxyURL),
	}
}

func (o *HTTPOracle) Name() string { return "live" }

func (o *HTTPOracle) Quote(symbol string) (*model.PriceQuote, error) {
	if o.routesToCoinGecko(symbol) {
		return o.gecko.Quote(symbol)
	}
	return o.yahoo.Quote(symbol)
}

func (o *HTTPOracle) routesToCoinGecko(symbol string) bool {
	return strings.HasPrefix(strings.ToUpper(symbol), "BTC")
}

// Fixed returns preset quotes, for tests and offline runs. Symbols listed in
// Errors fail; symbols listed in Prices succeed; anything else is unknown.
type Fixed struct {
	Prices     map[string]float64
	Currencies map[string]string
	Errors     map[string]error
	Demo       bool
}

func (f *Fixed) Name() string { return "fixed" }

func (f *Fixed) Quote(symbol string) (*model.PriceQuote, error) {
	if err, ok := f.Errors[symbol]; ok {
		return nil, err
	}
	price, ok := f.Prices[symbol]
	if !ok {
		return nil, fmt.Errorf("fixed oracle: unknown symbol %q", symbol)
	}
	currency := "USD"
	if c, ok := f.Currencies[symbol]; ok {
		currency = c
	}
	return &model.PriceQuote{
		Symbol:    symbol,
		Price:     price,
		Currency:  currency,
		Name:      symbol,
		Timestamp: time.Now(),
		Demo:      f.Demo,
	}, nil
}
