package notifier

import (
	"fmt"
	"strings"
	"time"

	"stockwatch/internal/model"
)

// FormatTrendAlert formats the alert sent when the trend turns rising.
func FormatTrendAlert(symbol string, price float64, quotedAt time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>%s increasing trend</b>\n\n", symbol))
	b.WriteString("The last three recorded prices are strictly increasing.\n")
	b.WriteString(fmt.Sprintf("Latest price: %.2f\n", price))
	b.WriteString(fmt.Sprintf("Quoted at: %s\n", quotedAt.Format("2006-01-02 15:04")))
	return b.String()
}

// FormatStatus formats the current watcher state for /status replies.
func FormatStatus(symbol string, price float64, havePrice bool, updates int, trend model.TrendState) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s status</b>\n\n", symbol))
	if havePrice {
		b.WriteString(fmt.Sprintf("Latest price: %.2f\n", price))
	} else {
		b.WriteString("Latest price: n/a (no updates yet)\n")
	}
	b.WriteString(fmt.Sprintf("Recorded updates: %d\n", updates))
	b.WriteString(fmt.Sprintf("Trend: %s\n", trendLabel(trend)))
	return b.String()
}

// FormatDailySummary formats the end-of-day report.
func FormatDailySummary(symbol string, price float64, havePrice bool, updates int, trend model.TrendState) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>%s daily summary</b> | %s\n\n", symbol, time.Now().Format("2006-01-02")))
	if havePrice {
		b.WriteString(fmt.Sprintf("Closing price: %.2f\n", price))
	} else {
		b.WriteString("No prices recorded today.\n")
	}
	b.WriteString(fmt.Sprintf("Updates recorded: %d\n", updates))
	b.WriteString(fmt.Sprintf("Trend: %s\n", trendLabel(trend)))
	return b.String()
}

func trendLabel(trend model.TrendState) string {
	switch trend {
	case model.TrendRising:
		return "rising 📈"
	case model.TrendFlatOrMixed:
		return "flat or mixed ➖"
	default:
		return "insufficient data"
	}
}
