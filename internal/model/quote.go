package model

import "time"

// PriceQuote is one price reading for a symbol. Demo marks quotes that were
// substituted from the fixed demo table after a live fetch failed, so
// downstream consumers can tell fabricated prices from real ones.
type PriceQuote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	Name      string    `json:"name,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Demo      bool      `json:"demo,omitempty"`
}

// TriggerEvent records one strategy firing against a freshly fetched price.
type TriggerEvent struct {
	Strategy    Strategy  `json:"strategy"`
	Price       float64   `json:"current_price"`
	Currency    string    `json:"currency"`
	QuoteName   string    `json:"quote_name"`
	TriggeredAt time.Time `json:"triggered_at"`
	Demo        bool      `json:"demo,omitempty"`
}

// Notification is a stored record of a trigger that was reported. StrategyName
// is resolved by a left join and may be empty if the strategy was removed.
type Notification struct {
	Message      string    `json:"message"`
	SentAt       time.Time `json:"sent_at"`
	StrategyName string    `json:"strategy_name,omitempty"`
}

// Summary holds strategy counts across all lifecycle states.
type Summary struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Triggered int `json:"triggered"`
}

// Status combines the summary with active strategies grouped by symbol.
type Status struct {
	Summary  Summary               `json:"summary"`
	BySymbol map[string][]Strategy `json:"by_symbol"`
}

// StrategyQuote pairs an active strategy with its best-effort current quote.
// Quote is nil when the oracle fetch failed.
type StrategyQuote struct {
	Strategy
	Quote *PriceQuote `json:"quote"`
}
