package screener

import (
	"fmt"
	"time"

	"pulse/internal/model"
)

// FormatMarketCap renders a market capitalization with a magnitude suffix:
// trillions, billions, or millions to 2 decimal places. Anything below a
// million (including absent) renders as the sentinel.
func FormatMarketCap(cap float64) string {
	switch {
	case cap >= 1e12:
		return fmt.Sprintf("$%.2fT", cap/1e12)
	case cap >= 1e9:
		return fmt.Sprintf("$%.2fB", cap/1e9)
	case cap >= 1e6:
		return fmt.Sprintf("$%.2fM", cap/1e6)
	default:
		return model.NoData
	}
}

// FormatEarningsDate renders the next earnings date relative to now:
// past dates get a "(Past)" suffix, today and tomorrow get labels, dates
// within a week get an "In N days" form, and anything further out is the
// literal date. A nil date renders empty.
func FormatEarningsDate(earnings *time.Time, now time.Time) string {
	if earnings == nil {
		return ""
	}

	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	ed, today := day(*earnings), day(now)

	switch {
	case ed.Before(today):
		return earnings.Format("Jan 02, 2006") + " (Past)"
	case ed.Equal(today):
		return "Today"
	}

	daysUntil := int(ed.Sub(today).Hours() / 24)
	switch {
	case daysUntil == 1:
		return "Tomorrow"
	case daysUntil <= 7:
		return fmt.Sprintf("In %d days (%s)", daysUntil, earnings.Format("Jan 02"))
	default:
		return earnings.Format("Jan 02, 2006")
	}
}

// Sentiment is "Bullish" when the price is above the 250-day moving
// average, otherwise "Bearish". An undefined moving average never reads
// bullish, so short histories stay Bearish regardless of price.
func Sentiment(price float64, ma250 model.Metric) string {
	if ma250.Valid && price > ma250.Value {
		return "Bullish"
	}
	return "Bearish"
}
