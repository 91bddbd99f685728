package oracle

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StockSentry/internal/model"
)

// YahooOracle fetches equity quotes from the Yahoo Finance public chart API.
// Covers US tickers (AAPL) and HK-listed stocks (0700.HK).
type YahooOracle struct {
	Client  *http.Client
	baseURL string
}

// NewYahooOracle creates a Yahoo Finance oracle with optional proxy support.
func NewYahooOracle(proxyURL string) *YahooOracle {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooOracle{
		Client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
		baseURL: "https://query1.finance.yahoo.com",
	}
}

func (o *YahooOracle) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ShortName          string  `json:"shortName"`
				LongName           string  `json:"longName"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (o *YahooOracle) Quote(symbol string) (*model.PriceQuote, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d",
		o.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}

	meta := chart.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 {
		return nil, fmt.Errorf("yahoo: no price for %s", symbol)
	}

	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}
	if name == "" {
		name = symbol
	}
	currency := meta.Currency
	if currency == "" {
		if strings.HasSuffix(strings.ToUpper(symbol), ".HK") {
			currency = "HKD"
		} else {
			currency = "USD"
		}
	}

	return &model.PriceQuote{
		Symbol:    symbol,
		Price:     meta.RegularMarketPrice,
		Currency:  currency,
		Name:      name,
		Timestamp: time.Now(),
	}, nil
}
