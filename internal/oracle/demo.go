package oracle

import (
	"log"
	"strings"
	"time"

	"StockSentry/internal/model"
)

// Fixed reference prices used when a live fetch is unavailable.
var demoPrices = map[string]struct {
	price    float64
	currency string
	name     string
}{
	"AAPL":    {175.84, "USD", "Apple Inc."},
	"MSFT":    {428.39, "USD", "Microsoft Corp"},
	"GOOGL":   {164.72, "USD", "Alphabet Inc"},
	"TSLA":    {248.50, "USD", "Tesla Inc"},
	"0700.HK": {320.50, "HKD", "Tencent Holdings"},
	"0941.HK": {45.20, "HKD", "China Mobile"},
	"2318.HK": {52.80, "HKD", "Ping An Insurance"},
	"BTC":     {64250.0, "USD", "Bitcoin"},
	"BTC-USD": {64250.0, "USD", "Bitcoin"},
}

// demoQuote returns a fallback quote for the symbol, always marked Demo.
// Unknown symbols get a class default so a strategy can still be exercised
// offline: 100.00 HKD for .HK listings, 150.00 USD otherwise.
func demoQuote(symbol string) *model.PriceQuote {
	q := &model.PriceQuote{
		Symbol:    symbol,
		Timestamp: time.Now(),
		Demo:      true,
	}
	if d, ok := demoPrices[strings.ToUpper(symbol)]; ok {
		q.Price = d.price
		q.Currency = d.currency
		q.Name = d.name
		return q
	}
	if strings.HasSuffix(strings.ToUpper(symbol), ".HK") {
		q.Price = 100.0
		q.Currency = "HKD"
	} else {
		q.Price = 150.0
		q.Currency = "USD"
	}
	q.Name = symbol
	return q
}

// DemoFallback wraps a live oracle and substitutes a fixed demo quote when the
// live fetch fails. Substituted quotes carry Demo=true so triggers fired from
// fabricated prices are distinguishable downstream.
type DemoFallback struct {
	Live Oracle
}

// NewDemoFallback wraps the given live oracle.
func NewDemoFallback(live Oracle) *DemoFallback {
	return &DemoFallback{Live: live}
}

func (d *DemoFallback) Name() string { return d.Live.Name() + "+demo" }

func (d *DemoFallback) Quote(symbol string) (*model.PriceQuote, error) {
	q, err := d.Live.Quote(symbol)
	if err == nil {
		return q, nil
	}
	log.Printf("[WARN] live quote for %s failed, using demo data: %v", symbol, err)
	return demoQuote(symbol), nil
}
