package oracle

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func yahooServer(t *testing.T, body string, status int) *YahooOracle {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	or := NewYahooOracle("")
	or.baseURL = srv.URL
	return or
}

func TestYahoo_ParsesChartMeta(t *testing.T) {
	or := yahooServer(t, `{"chart":{"result":[{"meta":{
		"symbol":"AAPL","currency":"USD","regularMarketPrice":175.84,
		"shortName":"Apple Inc.","longName":"Apple Inc."
	}}],"error":null}}`, http.StatusOK)

	q, err := or.Quote("AAPL")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Price != 175.84 || q.Currency != "USD" || q.Name != "Apple Inc." {
		t.Errorf("parsed quote: %+v", q)
	}
	if q.Demo {
		t.Error("live quote must not be marked Demo")
	}
}

func TestYahoo_MissingCurrencyFallsBackByListing(t *testing.T) {
	or := yahooServer(t, `{"chart":{"result":[{"meta":{
		"symbol":"0700.HK","regularMarketPrice":320.5,"shortName":"TENCENT"
	}}],"error":null}}`, http.StatusOK)

	q, err := or.Quote("0700.HK")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Currency != "HKD" {
		t.Errorf("currency: got %q, want HKD", q.Currency)
	}
}

func TestYahoo_APIErrorPropagates(t *testing.T) {
	or := yahooServer(t, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, http.StatusOK)
	if _, err := or.Quote("BOGUS"); err == nil {
		t.Fatal("expected error for api-level failure")
	}
}

func TestYahoo_ZeroPriceRejected(t *testing.T) {
	or := yahooServer(t, `{"chart":{"result":[{"meta":{"symbol":"HALT","currency":"USD"}}],"error":null}}`, http.StatusOK)
	if _, err := or.Quote("HALT"); err == nil {
		t.Fatal("expected error when no market price is present")
	}
}

func TestCoinGecko_ParsesPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bitcoin":{"usd":64250.0}}`))
	}))
	t.Cleanup(srv.Close)
	or := NewCoinGeckoOracle("")
	or.baseURL = srv.URL

	q, err := or.Quote("BTC")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Price != 64250.0 || q.Currency != "USD" || q.Name != "Bitcoin" {
		t.Errorf("parsed quote: %+v", q)
	}
}

func TestCoinGecko_EmptyBodyRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	or := NewCoinGeckoOracle("")
	or.baseURL = srv.URL

	if _, err := or.Quote("BTC"); err == nil {
		t.Fatal("expected error when no price is returned")
	}
}
