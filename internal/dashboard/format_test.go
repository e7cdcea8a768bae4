package dashboard

import (
	"testing"
	"time"
)

func TestFormatHours(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		want    string
	}{
		{"zero", 0, "0.0 hours"},
		{"half hour", 30, "0.5 hours"},
		{"exactly one hour singular", 60, "1.0 hour"},
		{"ninety minutes", 90, "1.5 hours"},
		{"cap at twelve hours", 900, "12.0 hours"},
		{"just over cap", 721, "12.0 hours"},
		{"full day capped", 1440, "12.0 hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatHours(tt.minutes); got != tt.want {
				t.Errorf("FormatHours(%d) = %q, want %q", tt.minutes, got, tt.want)
			}
		})
	}
}

func TestFormatISTTime(t *testing.T) {
	// 2026-03-14 10:00:00 UTC is 15:30:00 IST the same day.
	instant := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	if got, want := FormatISTTime(instant), "14/03/26, 3:30:00 PM"; got != want {
		t.Errorf("FormatISTTime = %q, want %q", got, want)
	}
	if got, want := FormatISTDate(instant), "14/03/26"; got != want {
		t.Errorf("FormatISTDate = %q, want %q", got, want)
	}
}

func TestSameISTDay_CrossesMidnight(t *testing.T) {
	// 18:40 UTC is 00:10 IST the following day, so two instants that
	// share a UTC date can land on different IST dates.
	evening := time.Date(2026, 3, 14, 18, 40, 0, 0, time.UTC)
	morning := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	if sameISTDay(evening, morning) {
		t.Error("expected 18:40 UTC and 10:00 UTC to fall on different IST days")
	}
	if !sameISTDay(evening, evening.Add(time.Hour)) {
		t.Error("expected instants within the same IST day to match")
	}
}

func TestChartHours(t *testing.T) {
	tests := []struct {
		minutes int64
		want    float64
	}{
		{0, 0},
		{30, 0.5},
		{50, 0.8},
		{60, 1.0},
		{100, 1.7},
		{900, 15.0}, // chart values are not display-capped
	}

	for _, tt := range tests {
		if got := chartHours(tt.minutes); got != tt.want {
			t.Errorf("chartHours(%d) = %v, want %v", tt.minutes, got, tt.want)
		}
	}
}

func TestCounter_InsertionOrder(t *testing.T) {
	c := newCounter()
	c.Add("Instagram", 30)
	c.Add("YouTube", 60)
	c.Add("Instagram", 15)
	c.Add("Slack", 10)

	wantKeys := []string{"Instagram", "YouTube", "Slack"}
	got := c.Keys()
	if len(got) != len(wantKeys) {
		t.Fatalf("Keys() = %v, want %v", got, wantKeys)
	}
	for i, k := range wantKeys {
		if got[i] != k {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], k)
		}
	}
	if c.Get("Instagram") != 45 {
		t.Errorf("Get(Instagram) = %d, want 45", c.Get("Instagram"))
	}
}

func TestCounter_MaxTieBreaksFirstSeen(t *testing.T) {
	c := newCounter()
	c.Add("✅ Productive", 2)
	c.Add("⏳ Wasted Time", 2)

	if got := c.Max(); got != "✅ Productive" {
		t.Errorf("Max() = %q, want first-encountered key on a tie", got)
	}

	empty := newCounter()
	if got := empty.Max(); got != "" {
		t.Errorf("Max() on empty counter = %q, want empty string", got)
	}
}
