package strategy

import (
	"fmt"
	"strings"

	"StockSentry/internal/model"
)

// FormatTriggerMessage renders a trigger event into the human-readable message
// that gets emailed and stored as the notification record.
func FormatTriggerMessage(ev model.TriggerEvent) string {
	st := ev.Strategy

	header := "Price alert"
	switch st.Action {
	case model.ActionBuy:
		header = "Buy alert"
	case model.ActionSell:
		header = "Sell alert"
	}

	direction := "at or below"
	if st.Condition == model.ConditionAbove {
		direction = "at or above"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n\n", header, st.Name)
	fmt.Fprintf(&b, "Instrument: %s (%s)\n", ev.QuoteName, st.Symbol)
	fmt.Fprintf(&b, "Current price: %s %.2f\n", ev.Currency, ev.Price)
	fmt.Fprintf(&b, "Condition: price %s %s %.2f\n", direction, ev.Currency, st.TargetPrice)
	fmt.Fprintf(&b, "Triggered at: %s\n", ev.TriggeredAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Recommended action: %s\n", string(st.Action))
	if ev.Demo {
		b.WriteString("\nNote: price sourced from demo data, live fetch was unavailable.\n")
	}
	return b.String()
}
