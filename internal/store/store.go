package store

import (
	"errors"
	"fmt"

	"StockSentry/internal/config"
	"StockSentry/internal/model"
)

// DefaultNotificationLimit is used when RecentNotifications gets a limit < 1.
const DefaultNotificationLimit = 20

var (
	// ErrSchema marks a failure to initialize the backing schema. Fatal at startup.
	ErrSchema = errors.New("schema initialization failed")
	// ErrTransport marks a network or auth failure reaching a remote backend.
	ErrTransport = errors.New("store transport failure")
)

// Store persists strategies, price observations and notification records.
// Both backends expose identical semantics; the store trusts its callers to
// validate strategy parameters.
type Store interface {
	// Init idempotently ensures the three tables exist.
	Init() error
	// AddStrategy inserts a new active strategy and returns its id.
	AddStrategy(name, symbol string, cond model.ConditionType, target float64, action model.ActionType) (int64, error)
	// ActiveStrategies returns non-triggered strategies, newest first.
	ActiveStrategies() ([]model.Strategy, error)
	// MarkTriggered flips a strategy to triggered and stamps the time.
	// Idempotent: a second call never moves the timestamp or un-triggers.
	MarkTriggered(id int64) error
	// RecordPrice appends one price observation.
	RecordPrice(q model.PriceQuote) error
	// AddNotification appends one notification record for a strategy.
	AddNotification(strategyID int64, message string) error
	// RecentNotifications returns up to limit records, newest first,
	// joined with the owning strategy name for display.
	RecentNotifications(limit int) ([]model.Notification, error)
	// Summary counts strategies across all states.
	Summary() (model.Summary, error)
	Close() error
}

// New selects a backend from the configuration.
func New(cfg *config.Config) (Store, error) {
	switch cfg.Database.Type {
	case config.DatabaseSQLite:
		return NewSQLiteStore(cfg.Database.SQLitePath)
	case config.DatabaseD1:
		d1 := cfg.Database.D1
		return NewD1Store(d1.AccountID, d1.DatabaseID, d1.APIToken), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Database.Type)
	}
}
