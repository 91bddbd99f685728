package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockSentry/internal/model"
)

// SQLiteStore persists monitor state to an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database file.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the dashboard can read while the engine writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS strategies (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			name           TEXT NOT NULL,
			symbol         TEXT NOT NULL,
			condition_type TEXT NOT NULL,
			target_price   REAL NOT NULL,
			action         TEXT NOT NULL,
			status         TEXT NOT NULL DEFAULT 'active',
			created_at     INTEGER NOT NULL,
			triggered_at   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_strategies_status ON strategies(status)`,

		`CREATE TABLE IF NOT EXISTS price_observations (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol    TEXT NOT NULL,
			price     REAL NOT NULL,
			currency  TEXT NOT NULL DEFAULT 'USD',
			timestamp INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_observations_symbol ON price_observations(symbol)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			strategy_id INTEGER,
			message     TEXT NOT NULL,
			sent_at     INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_sent ON notifications(sent_at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("%w: exec %q: %v", ErrSchema, stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) AddStrategy(name, symbol string, cond model.ConditionType, target float64, action model.ActionType) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`INSERT INTO strategies
		(name, symbol, condition_type, target_price, action, status, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		name, symbol, string(cond), target, string(action), string(model.StatusActive), time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert strategy: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) ActiveStrategies() ([]model.Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, name, symbol, condition_type, target_price, action, status, created_at, triggered_at
		FROM strategies
		WHERE status = ?
		ORDER BY created_at DESC, id DESC`, string(model.StatusActive))
	if err != nil {
		return nil, fmt.Errorf("query active strategies: %w", err)
	}
	defer rows.Close()

	var out []model.Strategy
	for rows.Next() {
		var (
			st          model.Strategy
			createdAt   int64
			triggeredAt sql.NullInt64
		)
		if err := rows.Scan(&st.ID, &st.Name, &st.Symbol, &st.Condition, &st.TargetPrice,
			&st.Action, &st.Status, &createdAt, &triggeredAt); err != nil {
			return nil, fmt.Errorf("scan strategy: %w", err)
		}
		st.CreatedAt = time.Unix(createdAt, 0)
		if triggeredAt.Valid {
			t := time.Unix(triggeredAt.Int64, 0)
			st.TriggeredAt = &t
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) MarkTriggered(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Status guard keeps the operation one-way and idempotent: a second call
	// matches zero rows and leaves the original trigger timestamp alone.
	_, err := s.db.Exec(`UPDATE strategies
		SET status = ?, triggered_at = ?
		WHERE id = ? AND status = ?`,
		string(model.StatusTriggered), time.Now().Unix(), id, string(model.StatusActive))
	if err != nil {
		return fmt.Errorf("mark triggered: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecordPrice(q model.PriceQuote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := q.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO price_observations (symbol, price, currency, timestamp)
		VALUES (?,?,?,?)`,
		q.Symbol, q.Price, q.Currency, ts.Unix())
	if err != nil {
		return fmt.Errorf("insert price observation: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AddNotification(strategyID int64, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO notifications (strategy_id, message, sent_at)
		VALUES (?,?,?)`,
		strategyID, message, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecentNotifications(limit int) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit < 1 {
		limit = DefaultNotificationLimit
	}
	rows, err := s.db.Query(`SELECT n.message, n.sent_at, COALESCE(s.name, '')
		FROM notifications n
		LEFT JOIN strategies s ON n.strategy_id = s.id
		ORDER BY n.sent_at DESC, n.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var (
			n      model.Notification
			sentAt int64
		)
		if err := rows.Scan(&n.Message, &sentAt, &n.StrategyName); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.SentAt = time.Unix(sentAt, 0)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Summary() (model.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum model.Summary
	err := s.db.QueryRow(`SELECT
			COUNT(*),
			COUNT(CASE WHEN status = 'active' THEN 1 END),
			COUNT(CASE WHEN status = 'triggered' THEN 1 END)
		FROM strategies`).Scan(&sum.Total, &sum.Active, &sum.Triggered)
	if err != nil {
		return model.Summary{}, fmt.Errorf("query summary: %w", err)
	}
	return sum, nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
