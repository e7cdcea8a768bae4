package dashboard

import (
	"fmt"
	"math"
	"time"
)

// istOffset is the fixed UTC+5:30 offset used for all calendar-date and
// display-time decisions. This is a business rule, not a runtime
// timezone lookup.
const istOffset = 5*time.Hour + 30*time.Minute

// maxDisplayHours caps the displayed screen time. The stored value is
// untouched; only the rendering saturates.
const maxDisplayHours = 12.0

// ist is the fixed-offset location for display formatting.
var ist = time.FixedZone("IST", int(istOffset/time.Second))

// FormatHours renders minutes as hours with one decimal place, capped
// at 12.0 hours for display. Exactly one hour reads in the singular.
func FormatHours(minutes int) string {
	hours := float64(minutes) / 60.0
	if hours > maxDisplayHours {
		hours = maxDisplayHours
	}

	if hours == 1 {
		return "1.0 hour"
	}
	return fmt.Sprintf("%.1f hours", hours)
}

// FormatISTTime renders a timestamp as DD/MM/YY, H:MM:SS AM/PM in the
// fixed IST offset.
func FormatISTTime(t time.Time) string {
	return t.In(ist).Format("02/01/06, 3:04:05 PM")
}

// FormatISTDate renders a calendar date as DD/MM/YY in the fixed IST offset.
func FormatISTDate(t time.Time) string {
	return t.In(ist).Format("02/01/06")
}

// sameISTDay reports whether two instants fall on the same calendar day
// once both are shifted into the fixed IST offset.
func sameISTDay(a, b time.Time) bool {
	ay, am, ad := a.In(ist).Date()
	by, bm, bd := b.In(ist).Date()
	return ay == by && am == bm && ad == bd
}

// chartHours converts accumulated minutes to a one-decimal hour value
// for the per-app bar series. Chart values are not display-capped.
func chartHours(minutes int64) float64 {
	return math.Round(float64(minutes)/60.0*10) / 10
}
