package notifier

import (
	"fmt"
	"strings"
	"time"

	"StockSentry/internal/model"
	"StockSentry/internal/strategy"
)

// FormatSubject builds the email subject line for a trigger event.
func FormatSubject(ev model.TriggerEvent) string {
	return fmt.Sprintf("Price alert triggered - %s", ev.Strategy.Name)
}

// FormatBody wraps the trigger message with a delivery footer.
func FormatBody(ev model.TriggerEvent) string {
	var b strings.Builder
	b.WriteString(strategy.FormatTriggerMessage(ev))
	b.WriteString("\nPlease mind your risk controls.\n")
	b.WriteString("\n---\n")
	fmt.Fprintf(&b, "Sent automatically by StockSentry at %s\n", time.Now().Format("2006-01-02 15:04:05"))
	return b.String()
}
