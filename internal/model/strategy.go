package model

import "time"

// ConditionType is the comparison direction of a watch rule.
type ConditionType string

const (
	ConditionBelow ConditionType = "below"
	ConditionAbove ConditionType = "above"
)

// Valid reports whether c is one of the known condition types.
func (c ConditionType) Valid() bool {
	return c == ConditionBelow || c == ConditionAbove
}

// ActionType is the recommended action when a strategy fires.
type ActionType string

const (
	ActionNotify ActionType = "notify"
	ActionBuy    ActionType = "buy"
	ActionSell   ActionType = "sell"
)

// Valid reports whether a is one of the known action types.
func (a ActionType) Valid() bool {
	return a == ActionNotify || a == ActionBuy || a == ActionSell
}

// StrategyStatus is the lifecycle state of a strategy. Triggered is terminal.
type StrategyStatus string

const (
	StatusActive    StrategyStatus = "active"
	StatusTriggered StrategyStatus = "triggered"
)

// Strategy is a user-defined watch rule pairing an instrument symbol with a
// price threshold and a comparison direction.
type Strategy struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Symbol      string         `json:"symbol"`
	Condition   ConditionType  `json:"condition_type"`
	TargetPrice float64        `json:"target_price"`
	Action      ActionType     `json:"action"`
	Status      StrategyStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	TriggeredAt *time.Time     `json:"triggered_at,omitempty"`
}

// Matches reports whether price satisfies the strategy condition.
// Boundaries are inclusive: a price exactly equal to the target triggers.
func (s Strategy) Matches(price float64) bool {
	switch s.Condition {
	case ConditionBelow:
		return price <= s.TargetPrice
	case ConditionAbove:
		return price >= s.TargetPrice
	default:
		return false
	}
}
