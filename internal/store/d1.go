package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"StockSentry/internal/model"
)

// D1Store talks to a Cloudflare D1 database over its REST query API. It backs
// the serverless deployment path where no local file is available. Semantics
// mirror SQLiteStore exactly; only the transport differs.
type D1Store struct {
	baseURL  string
	apiToken string
	client   *http.Client
}

// NewD1Store builds a store for the given Cloudflare account and database.
func NewD1Store(accountID, databaseID, apiToken string) *D1Store {
	return &D1Store{
		baseURL:  fmt.Sprintf("https://api.cloudflare.com/client/v4/accounts/%s/d1/database/%s", accountID, databaseID),
		apiToken: apiToken,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// d1Result is one statement result inside a D1 query response.
type d1Result struct {
	Success bool `json:"success"`
	Meta    struct {
		LastRowID    int64 `json:"last_row_id"`
		RowsWritten  int64 `json:"rows_written"`
		ChangedCount int64 `json:"changes"`
	} `json:"meta"`
	Results []map[string]any `json:"results"`
}

type d1Response struct {
	Success bool `json:"success"`
	Errors  []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	Result []d1Result `json:"result"`
}

// exec runs one parameterized SQL statement against the D1 query endpoint.
func (d *D1Store) exec(query string, params ...any) (*d1Result, error) {
	if params == nil {
		params = []any{}
	}
	payload, err := json.Marshal(map[string]any{"sql": query, "params": params})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, d.baseURL+"/query", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+d.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: auth rejected (status %d)", ErrTransport, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrTransport, resp.StatusCode, string(body))
	}

	var parsed d1Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode d1 response: %w", err)
	}
	if !parsed.Success {
		msg := "unknown error"
		if len(parsed.Errors) > 0 {
			msg = parsed.Errors[0].Message
		}
		return nil, fmt.Errorf("d1 query rejected: %s", msg)
	}
	if len(parsed.Result) == 0 {
		return nil, fmt.Errorf("d1 response carried no result")
	}
	return &parsed.Result[0], nil
}

func (d *D1Store) Init() error {
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
		`CREATE TABLE IF NOT EXISTS price_observations (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol    TEXT NOT NULL,
			price     REAL NOT NULL,
			currency  TEXT NOT NULL DEFAULT 'USD',
			timestamp INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			strategy_id INTEGER,
			message     TEXT NOT NULL,
			sent_at     INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := d.exec(stmt); err != nil {
			return fmt.Errorf("%w: %v", ErrSchema, err)
		}
	}
	return nil
}

func (d *D1Store) AddStrategy(name, symbol string, cond model.ConditionType, target float64, action model.ActionType) (int64, error) {
	res, err := d.exec(`INSERT INTO strategies
		(name, symbol, condition_type, target_price, action, status, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		name, symbol, string(cond), target, string(action), string(model.StatusActive), time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("insert strategy: %w", err)
	}
	return res.Meta.LastRowID, nil
}

func (d *D1Store) ActiveStrategies() ([]model.Strategy, error) {
	res, err := d.exec(`SELECT id, name, symbol, condition_type, target_price, action, status, created_at, triggered_at
		FROM strategies
		WHERE status = ?
		ORDER BY created_at DESC, id DESC`, string(model.StatusActive))
	if err != nil {
		return nil, fmt.Errorf("query active strategies: %w", err)
	}

	out := make([]model.Strategy, 0, len(res.Results))
	for _, row := range res.Results {
		st := model.Strategy{
			ID:          rowInt(row, "id"),
			Name:        rowString(row, "name"),
			Symbol:      rowString(row, "symbol"),
			Condition:   model.ConditionType(rowString(row, "condition_type")),
			TargetPrice: rowFloat(row, "target_price"),
			Action:      model.ActionType(rowString(row, "action")),
			Status:      model.StrategyStatus(rowString(row, "status")),
			CreatedAt:   time.Unix(rowInt(row, "created_at"), 0),
		}
		if v, ok := row["triggered_at"]; ok && v != nil {
			t := time.Unix(rowInt(row, "triggered_at"), 0)
			st.TriggeredAt = &t
		}
		out = append(out, st)
	}
	return out, nil
}

func (d *D1Store) MarkTriggered(id int64) error {
	_, err := d.exec(`UPDATE strategies
		SET status = ?, triggered_at = ?
		WHERE id = ? AND status = ?`,
		string(model.StatusTriggered), time.Now().Unix(), id, string(model.StatusActive))
	if err != nil {
		return fmt.Errorf("mark triggered: %w", err)
	}
	return nil
}

func (d *D1Store) RecordPrice(q model.PriceQuote) error {
	ts := q.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := d.exec(`INSERT INTO price_observations (symbol, price, currency, timestamp)
		VALUES (?,?,?,?)`,
		q.Symbol, q.Price, q.Currency, ts.Unix())
	if err != nil {
		return fmt.Errorf("insert price observation: %w", err)
	}
	return nil
}

func (d *D1Store) AddNotification(strategyID int64, message string) error {
	_, err := d.exec(`INSERT INTO notifications (strategy_id, message, sent_at)
		VALUES (?,?,?)`,
		strategyID, message, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (d *D1Store) RecentNotifications(limit int) ([]model.Notification, error) {
	if limit < 1 {
		limit = DefaultNotificationLimit
	}
	res, err := d.exec(`SELECT n.message, n.sent_at, s.name AS strategy_name
		FROM notifications n
		LEFT JOIN strategies s ON n.strategy_id = s.id
		ORDER BY n.sent_at DESC, n.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}

	out := make([]model.Notification, 0, len(res.Results))
	for _, row := range res.Results {
		out = append(out, model.Notification{
			Message:      rowString(row, "message"),
			SentAt:       time.Unix(rowInt(row, "sent_at"), 0),
			StrategyName: rowString(row, "strategy_name"),
		})
	}
	return out, nil
}

func (d *D1Store) Summary() (model.Summary, error) {
	res, err := d.exec(`SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN status = 'active' THEN 1 END) AS active,
			COUNT(CASE WHEN status = 'triggered' THEN 1 END) AS triggered
		FROM strategies`)
	if err != nil {
		return model.Summary{}, fmt.Errorf("query summary: %w", err)
	}
	if len(res.Results) == 0 {
		return model.Summary{}, fmt.Errorf("summary query returned no rows")
	}
	row := res.Results[0]
	return model.Summary{
		Total:     int(rowInt(row, "total")),
		Active:    int(rowInt(row, "active")),
		Triggered: int(rowInt(row, "triggered")),
	}, nil
}

// Close is a no-op; D1 is a stateless HTTP API.
func (d *D1Store) Close() error { return nil }

// JSON decodes numbers as float64; these helpers normalize D1 row values.

func rowString(row map[string]any, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}

func rowFloat(row map[string]any, key string) float64 {
	if v, ok := row[key].(float64); ok {
		return v
	}
	return 0
}

func rowInt(row map[string]any, key string) int64 {
	return int64(rowFloat(row, key))
}
