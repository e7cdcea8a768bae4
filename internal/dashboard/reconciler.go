// Package dashboard derives the dashboard views from a raw entry list:
// today's entry, the reverse-chronological card list, three aggregate
// chart series, and the narrative insights block.
package dashboard

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mindtrace/mindtrace/internal/model"
	"github.com/mindtrace/mindtrace/internal/session"
)

// Closed tag vocabularies for the productivity classification.
var (
	// ProductiveTags mark an entry as productive or mindful.
	ProductiveTags = []string{"✅ Productive", "🧘 Mindful Use"}
	// DistractingTags drive the narrative only; they do not feed the
	// productivity ratio denominator.
	DistractingTags = []string{"😵 Overwhelmed", "⏳ Wasted Time", "🔥 Deep Dive"}
)

// Series is one chart-ready aggregate: parallel label/value slices in
// first-encountered order.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Card is one rendered entry in the reverse-chronological list.
type Card struct {
	ID         string   `json:"id"`
	Apps       []string `json:"apps"`
	ScreenTime string   `json:"screen_time"`
	Reflection string   `json:"reflection"`
	Tags       []string `json:"tags"`
	IsToday    bool     `json:"is_today"`
	Date       string   `json:"date"`
	Timestamp  string   `json:"timestamp"`
}

// Insights is the narrative block under the charts.
type Insights struct {
	TotalEntries        int    `json:"total_entries"`
	TotalScreenTime     string `json:"total_screen_time"`
	AverageScreenTime   string `json:"average_screen_time"`
	ProductivityPercent int    `json:"productivity_percent"`
	MostCommonTag       string `json:"most_common_tag,omitempty"`
	Message             string `json:"message"`
}

// Welcome is the deterministic zero-entry payload. Charts are never
// rendered empty; this replaces them.
type Welcome struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

// Report is the full reconciled dashboard.
type Report struct {
	UserName string `json:"user_name"`

	Today *Card  `json:"today,omitempty"`
	Cards []Card `json:"cards"`

	ScreenTimeByApp Series `json:"screen_time_by_app"` // bar: hours per app
	TagDistribution Series `json:"tag_distribution"`   // pie: tag counts
	AppFrequency    Series `json:"app_frequency"`      // doughnut: entry counts per app

	Insights *Insights `json:"insights,omitempty"`
	Welcome  *Welcome  `json:"welcome,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Build reconciles a raw entry list into a Report. When an identity is
// present the list is scoped to it by value equality; without one the
// full list is used (single-tenant degradation). Build is pure: it
// never mutates the input entries.
func Build(entries []*model.Entry, identity *model.Identity, now time.Time) *Report {
	report := &Report{
		UserName:    "User",
		GeneratedAt: now,
	}
	if identity != nil {
		report.UserName = identity.Name
	}

	scoped := scope(entries, identity)

	if len(scoped) == 0 {
		report.Cards = []Card{}
		report.Welcome = welcomeFor(report.UserName)
		return report
	}

	sorted := make([]*model.Entry, len(scoped))
	copy(sorted, scoped)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	report.Cards = make([]Card, 0, len(sorted))
	for _, e := range sorted {
		card := buildCard(e, now)
		if card.IsToday && report.Today == nil {
			today := card
			report.Today = &today
		}
		report.Cards = append(report.Cards, card)
	}

	appMinutes := newCounter()
	appEntries := newCounter()
	tagCounts := newCounter()

	for _, e := range sorted {
		for _, app := range e.Apps {
			appMinutes.Add(app, int64(e.ScreenTimeMinutes))
			appEntries.Add(app, 1)
		}
		for _, tag := range e.Tags {
			tagCounts.Add(tag, 1)
		}
	}

	report.ScreenTimeByApp = hoursSeries(appMinutes)
	report.TagDistribution = countSeries(tagCounts)
	report.AppFrequency = countSeries(appEntries)

	report.Insights = buildInsights(sorted, tagCounts, report.UserName)

	return report
}

// scope filters to the identity's entries using normalized id equality.
func scope(entries []*model.Entry, identity *model.Identity) []*model.Entry {
	if identity == nil {
		return entries
	}

	scoped := make([]*model.Entry, 0, len(entries))
	for _, e := range entries {
		if session.SameID(e.UserID, identity.UserID) {
			scoped = append(scoped, e)
		}
	}
	return scoped
}

func buildCard(e *model.Entry, now time.Time) Card {
	return Card{
		ID:         e.ID,
		Apps:       e.Apps,
		ScreenTime: FormatHours(e.ScreenTimeMinutes),
		Reflection: e.Reflection,
		Tags:       e.Tags,
		IsToday:    sameISTDay(e.CreatedAt, now),
		Date:       FormatISTDate(e.CreatedAt),
		Timestamp:  FormatISTTime(e.CreatedAt),
	}
}

func hoursSeries(c *counter) Series {
	s := Series{Labels: c.Keys(), Values: make([]float64, 0, c.Len())}
	for _, k := range c.Keys() {
		s.Values = append(s.Values, chartHours(c.Get(k)))
	}
	return s
}

func countSeries(c *counter) Series {
	s := Series{Labels: c.Keys(), Values: make([]float64, 0, c.Len())}
	for _, k := range c.Keys() {
		s.Values = append(s.Values, float64(c.Get(k)))
	}
	return s
}

func buildInsights(entries []*model.Entry, tagCounts *counter, userName string) *Insights {
	total := len(entries)

	var totalMinutes int
	for _, e := range entries {
		totalMinutes += e.ScreenTimeMinutes
	}
	avgMinutes := int(math.Round(float64(totalMinutes) / float64(total)))

	// Per-entry classification: an entry counts as productive when its
	// tag set intersects the productive vocabulary, regardless of how
	// many productive tags it carries.
	productive := 0
	for _, e := range entries {
		for _, tag := range ProductiveTags {
			if e.HasTag(tag) {
				productive++
				break
			}
		}
	}
	percent := int(math.Round(float64(productive) / float64(total) * 100))

	return &Insights{
		TotalEntries:        total,
		TotalScreenTime:     FormatHours(totalMinutes),
		AverageScreenTime:   FormatHours(avgMinutes),
		ProductivityPercent: percent,
		MostCommonTag:       tagCounts.Max(),
		Message:             motivationalMessage(percent),
	}
}

// motivationalMessage tiers the closing line by productivity percent.
func motivationalMessage(percent int) string {
	switch {
	case percent >= 70:
		return "Excellent! You're maintaining a healthy balance with technology."
	case percent >= 50:
		return "Good progress! You're becoming more mindful of your digital habits."
	case percent >= 30:
		return "Keep going! Every step towards mindful technology use counts."
	default:
		return "Focus on small changes. Try setting specific time limits for your most-used apps."
	}
}

func welcomeFor(userName string) *Welcome {
	return &Welcome{
		Title:   fmt.Sprintf("Welcome, %s!", userName),
		Message: "Start your digital wellness journey by making your first entry. Track your apps, screen time, and emotions to unlock personalized insights!",
		Action:  "Make Your First Entry",
	}
}
