package oracle

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"StockSentry/internal/model"
)

// CoinGeckoOracle fetches the Bitcoin spot price from the CoinGecko free API.
type CoinGeckoOracle struct {
	Client  *http.Client
	baseURL string
}

// NewCoinGeckoOracle creates a CoinGecko oracle with optional proxy support.
func NewCoinGeckoOracle(proxyURL string) *CoinGeckoOracle {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &CoinGeckoOracle{
		Client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
		baseURL: "https://api.coingecko.com",
	}
}

func (o *CoinGeckoOracle) Name() string { return "coingecko" }

func (o *CoinGeckoOracle) Quote(symbol string) (*model.PriceQuote, error) {
	u := o.baseURL + "/api/v3/simple/price?ids=bitcoin&vs_currencies=usd"

	resp, err := o.Client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("coingecko fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko: status %d", resp.StatusCode)
	}

	var result struct {
		Bitcoin struct {
			USD float64 `json:"usd"`
		} `json:"bitcoin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("coingecko decode: %w", err)
	}
	if result.Bitcoin.USD == 0 {
		return nil, fmt.Errorf("coingecko: no price returned")
	}

	return &model.PriceQuote{
		Symbol:    symbol,
		Price:     result.Bitcoin.USD,
		Currency:  "USD",
		Name:      "Bitcoin",
		Timestamp: time.Now(),
	}, nil
}
