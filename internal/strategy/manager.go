package strategy

import (
	"errors"
	"fmt"
	"log"

	"StockSentry/internal/model"
	"StockSentry/internal/oracle"
	"StockSentry/internal/store"
)

// ErrValidation marks strategy parameters rejected before persistence.
var ErrValidation = errors.New("invalid strategy parameters")

// Manager orchestrates strategy creation and the trigger evaluation pass.
// It holds no state beyond the store handle and the oracle client.
type Manager struct {
	store  store.Store
	oracle oracle.Oracle
}

// NewManager creates a Manager over the given store and oracle.
func NewManager(st store.Store, or oracle.Oracle) *Manager {
	return &Manager{store: st, oracle: or}
}

// CreateStrategy validates the parameters and persists a new active strategy.
// Validation happens here, before the store call; the store trusts its caller.
func (m *Manager) CreateStrategy(name, symbol string, cond model.ConditionType, target float64, action model.ActionType) (int64, error) {
	if !cond.Valid() {
		return 0, fmt.Errorf("%w: condition_type must be %q or %q, got %q",
			ErrValidation, model.ConditionBelow, model.ConditionAbove, cond)
	}
	if !action.Valid() {
		return 0, fmt.Errorf("%w: action must be %q, %q or %q, got %q",
			ErrValidation, model.ActionNotify, model.ActionBuy, model.ActionSell, action)
	}
	if target <= 0 {
		return 0, fmt.Errorf("%w: target_price must be positive, got %g", ErrValidation, target)
	}
	if name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if symbol == "" {
		return 0, fmt.Errorf("%w: symbol is required", ErrValidation)
	}
	return m.store.AddStrategy(name, symbol, cond, target, action)
}

// EvaluateTriggers runs one evaluation pass over all active strategies.
// Each strategy independently fetches its current price; an oracle failure
// skips that strategy for this pass and never aborts the rest. Observations
// are persisted unconditionally, best-effort. Returns trigger events in the
// order strategies were evaluated (store's newest-first order).
func (m *Manager) EvaluateTriggers() ([]model.TriggerEvent, error) {
	actives, err := m.store.ActiveStrategies()
	if err != nil {
		return nil, fmt.Errorf("load active strategies: %w", err)
	}

	var events []model.TriggerEvent
	for _, st := range actives {
		q, err := m.oracle.Quote(st.Symbol)
		if err != nil {
			log.Printf("[WARN] quote %s failed, skipping %q this pass: %v", st.Symbol, st.Name, err)
			continue
		}

		if err := m.store.RecordPrice(*q); err != nil {
			log.Printf("[ERROR] record price %s: %v", q.Symbol, err)
		}

		if !st.Matches(q.Price) {
			continue
		}

		// Mark before emitting: if the store refuses, the strategy stays
		// active and will fire again next pass instead of double-reporting.
		if err := m.store.MarkTriggered(st.ID); err != nil {
			log.Printf("[ERROR] mark strategy %d triggered: %v", st.ID, err)
			continue
		}

		ev := model.TriggerEvent{
			Strategy:    st,
			Price:       q.Price,
			Currency:    q.Currency,
			QuoteName:   q.Name,
			TriggeredAt: q.Timestamp,
			Demo:        q.Demo,
		}
		events = append(events, ev)
		log.Printf("[INFO] strategy triggered: %q (%s %s %.2f, target %s %.2f)",
			st.Name, st.Symbol, q.Currency, q.Price, string(st.Condition), st.TargetPrice)
	}
	return events, nil
}

// StrategiesWithCurrentPrices augments each active strategy with a best-effort
// current quote for display. Pure read: nothing is persisted or mutated, and a
// failed fetch simply leaves the quote nil.
func (m *Manager) StrategiesWithCurrentPrices() ([]model.StrategyQuote, error) {
	actives, err := m.store.ActiveStrategies()
	if err != nil {
		return nil, fmt.Errorf("load active strategies: %w", err)
	}

	out := make([]model.StrategyQuote, 0, len(actives))
	for _, st := range actives {
		sq := model.StrategyQuote{Strategy: st}
		if q, err := m.oracle.Quote(st.Symbol); err == nil {
			sq.Quote = q
		} else {
			log.Printf("[WARN] display quote %s: %v", st.Symbol, err)
		}
		out = append(out, sq)
	}
	return out, nil
}

// StatusSummary returns strategy counts plus active strategies grouped by symbol.
func (m *Manager) StatusSummary() (model.Status, error) {
	summary, err := m.store.Summary()
	if err != nil {
		return model.Status{}, err
	}
	actives, err := m.store.ActiveStrategies()
	if err != nil {
		return model.Status{}, err
	}

	bySymbol := make(map[string][]model.Strategy)
	for _, st := range actives {
		bySymbol[st.Symbol] = append(bySymbol[st.Symbol], st)
	}
	return model.Status{Summary: summary, BySymbol: bySymbol}, nil
}
