package screener

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pulse/internal/model"
)

func TestFormatMarketCap(t *testing.T) {
	tests := []struct {
		name string
		cap  float64
		want string
	}{
		{name: "trillions at threshold", cap: 1e12, want: "$1.00T"},
		{name: "just under a trillion stays billions", cap: 999_999_999_999, want: "$1000.00B"},
		{name: "billions", cap: 2.5e9, want: "$2.50B"},
		{name: "billions at threshold", cap: 1e9, want: "$1.00B"},
		{name: "millions", cap: 350e6, want: "$350.00M"},
		{name: "millions at threshold", cap: 1e6, want: "$1.00M"},
		{name: "below a million is no data", cap: 999_999, want: model.NoData},
		{name: "absent", cap: 0, want: model.NoData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMarketCap(tt.cap))
		})
	}
}

func TestFormatEarningsDate(t *testing.T) {
	now := time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)
	date := func(d int) *time.Time {
		t := now.AddDate(0, 0, d)
		return &t
	}

	tests := []struct {
		name     string
		earnings *time.Time
		want     string
	}{
		{name: "nil date", earnings: nil, want: ""},
		{name: "past date", earnings: date(-30), want: "Feb 08, 2025 (Past)"},
		{name: "yesterday", earnings: date(-1), want: "Mar 09, 2025 (Past)"},
		{name: "today", earnings: date(0), want: "Today"},
		{name: "tomorrow", earnings: date(1), want: "Tomorrow"},
		{name: "within a week", earnings: date(5), want: "In 5 days (Mar 15)"},
		{name: "exactly a week", earnings: date(7), want: "In 7 days (Mar 17)"},
		{name: "beyond a week", earnings: date(8), want: "Mar 18, 2025"},
		{name: "months out", earnings: date(60), want: "May 09, 2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatEarningsDate(tt.earnings, now))
		})
	}
}

func TestSentiment(t *testing.T) {
	assert.Equal(t, "Bullish", Sentiment(150, model.MetricOf(140)))
	assert.Equal(t, "Bearish", Sentiment(130, model.MetricOf(140)))
	assert.Equal(t, "Bearish", Sentiment(140, model.MetricOf(140)))
}

// A short history leaves the 250-day moving average undefined; an undefined
// average never reads Bullish, whatever the price.
func TestSentimentShortHistory(t *testing.T) {
	assert.Equal(t, "Bearish", Sentiment(150, model.NoMetric))
	assert.Equal(t, "Bearish", Sentiment(0, model.NoMetric))
}
