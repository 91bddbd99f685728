package notifier

import (
	"strings"
	"testing"
	"time"

	"StockSentry/internal/model"
)

func testEvent() model.TriggerEvent {
	return model.TriggerEvent{
		Strategy: model.Strategy{
			Name:        "btc pullback",
			Symbol:      "BTC",
			Condition:   model.ConditionBelow,
			TargetPrice: 60000.0,
			Action:      model.ActionBuy,
		},
		Price:       59800.0,
		Currency:    "USD",
		QuoteName:   "Bitcoin",
		TriggeredAt: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestFormatSubject(t *testing.T) {
	got := FormatSubject(testEvent())
	want := "Price alert triggered - btc pullback"
	if got != want {
		t.Errorf("subject: got %q, want %q", got, want)
	}
}

func TestFormatBody(t *testing.T) {
	body := FormatBody(testEvent())
	for _, want := range []string{
		"Buy alert - btc pullback",
		"Instrument: Bitcoin (BTC)",
		"Current price: USD 59800.00",
		"Sent automatically by StockSentry",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}
