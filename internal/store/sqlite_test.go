package store

import (
	"path/filepath"
	"testing"
	"time"

	"StockSentry/internal/model"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	return st
}

func TestSQLite_InitIdempotent(t *testing.T) {
	st := newSQLite(t)
	if err := st.Init(); err != nil {
		t.Fatalf("second init must be a no-op: %v", err)
	}
}

func TestSQLite_ActiveStrategiesExcludesTriggered(t *testing.T) {
	st := newSQLite(t)

	id1, err := st.AddStrategy("one", "AAPL", model.ConditionBelow, 170.0, model.ActionBuy)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := st.AddStrategy("two", "MSFT", model.ConditionAbove, 450.0, model.ActionSell); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := st.MarkTriggered(id1); err != nil {
		t.Fatalf("mark: %v", err)
	}

	actives, err := st.ActiveStrategies()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(actives) != 1 || actives[0].Name != "two" {
		t.Fatalf("expected only strategy %q active, got %+v", "two", actives)
	}
}

func TestSQLite_ActiveStrategiesNewestFirst(t *testing.T) {
	st := newSQLite(t)

	// Same created_at second is the common case; id breaks the tie.
	for _, name := range []string{"first", "second", "third"} {
		if _, err := st.AddStrategy(name, "AAPL", model.ConditionBelow, 100.0, model.ActionNotify); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	actives, err := st.ActiveStrategies()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"third", "second", "first"}
	if len(actives) != len(want) {
		t.Fatalf("expected %d strategies, got %d", len(want), len(actives))
	}
	for i, name := range want {
		if actives[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, actives[i].Name, name)
		}
	}
}

func TestSQLite_MarkTriggeredIdempotent(t *testing.T) {
	st := newSQLite(t)

	id, err := st.AddStrategy("one-shot", "AAPL", model.ConditionBelow, 170.0, model.ActionBuy)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := st.MarkTriggered(id); err != nil {
		t.Fatalf("first mark: %v", err)
	}

	// Overwrite the trigger timestamp with a sentinel, then mark again.
	// The status guard must leave the row untouched.
	sentinel := int64(1000)
	if _, err := st.db.Exec(`UPDATE strategies SET triggered_at = ? WHERE id = ?`, sentinel, id); err != nil {
		t.Fatalf("set sentinel: %v", err)
	}
	if err := st.MarkTriggered(id); err != nil {
		t.Fatalf("second mark: %v", err)
	}

	var got int64
	if err := st.db.QueryRow(`SELECT triggered_at FROM strategies WHERE id = ?`, id).Scan(&got); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got != sentinel {
		t.Errorf("second mark overwrote triggered_at: got %d, want %d", got, sentinel)
	}
}

func TestSQLite_MarkTriggeredUnknownID(t *testing.T) {
	st := newSQLite(t)
	if err := st.MarkTriggered(9999); err != nil {
		t.Fatalf("marking a missing id must not error: %v", err)
	}
}

func TestSQLite_RecordPrice(t *testing.T) {
	st := newSQLite(t)

	q := model.PriceQuote{Symbol: "AAPL", Price: 175.84, Currency: "USD", Timestamp: time.Unix(1700000000, 0)}
	if err := st.RecordPrice(q); err != nil {
		t.Fatalf("record: %v", err)
	}

	var (
		count int
		price float64
		ts    int64
	)
	err := st.db.QueryRow(`SELECT COUNT(*), price, timestamp FROM price_observations WHERE symbol = 'AAPL'`).
		Scan(&count, &price, &ts)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if count != 1 || price != 175.84 || ts != 1700000000 {
		t.Errorf("observation row: count=%d price=%.2f ts=%d", count, price, ts)
	}
}

func TestSQLite_RecentNotifications(t *testing.T) {
	st := newSQLite(t)

	id, err := st.AddStrategy("apple dip", "AAPL", model.ConditionBelow, 170.0, model.ActionBuy)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	for _, msg := range []string{"first", "second", "third"} {
		if err := st.AddNotification(id, msg); err != nil {
			t.Fatalf("add notification: %v", err)
		}
	}

	got, err := st.RecentNotifications(2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0].Message != "third" || got[1].Message != "second" {
		t.Errorf("wrong order: %q, %q", got[0].Message, got[1].Message)
	}
	if got[0].StrategyName != "apple dip" {
		t.Errorf("joined strategy name: got %q", got[0].StrategyName)
	}
}

func TestSQLite_RecentNotificationsDefaultLimit(t *testing.T) {
	st := newSQLite(t)

	for i := 0; i < DefaultNotificationLimit+5; i++ {
		if err := st.AddNotification(0, "msg"); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	got, err := st.RecentNotifications(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != DefaultNotificationLimit {
		t.Errorf("expected default limit %d, got %d", DefaultNotificationLimit, len(got))
	}
	// Orphaned strategy_id joins to the empty string, not an error.
	if got[0].StrategyName != "" {
		t.Errorf("orphan notification name: got %q, want empty", got[0].StrategyName)
	}
}

func TestSQLite_Summary(t *testing.T) {
	st := newSQLite(t)

	sum, err := st.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Total != 0 || sum.Active != 0 || sum.Triggered != 0 {
		t.Fatalf("empty store summary: %+v", sum)
	}

	id, _ := st.AddStrategy("a", "AAPL", model.ConditionBelow, 100.0, model.ActionNotify)
	st.AddStrategy("b", "MSFT", model.ConditionAbove, 450.0, model.ActionSell)
	if err := st.MarkTriggered(id); err != nil {
		t.Fatalf("mark: %v", err)
	}

	sum, err = st.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Total != 2 || sum.Active != 1 || sum.Triggered != 1 {
		t.Errorf("summary after trigger: %+v", sum)
	}
}
