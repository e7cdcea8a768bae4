// Package insight produces the AI analysis for a completed journal
// entry: suggestions, micro-habits, and a motivational tip. When the
// model is unavailable or misbehaves, a deterministic fallback payload
// is served instead; the analysis surface never fails.
package insight

import (
	"context"

	"github.com/mindtrace/mindtrace/internal/model"
)

// Analysis sources, as reported to callers and metrics.
const (
	SourceGemini   = "gemini"
	SourceFallback = "fallback"
)

// Analyzer generates an analysis for one entry.
type Analyzer interface {
	Analyze(ctx context.Context, entry *model.Entry) (*model.Analysis, error)
}

// Fallback returns the static analysis served when the model cannot.
// Callers get a fresh copy each time; slices are never shared.
func Fallback() *model.Analysis {
	return &model.Analysis{
		Analysis: "Unable to connect to AI service. Here are some general tips:",
		Suggestions: []string{
			"Set specific time limits for your most used apps",
			"Practice mindful scrolling by asking 'Why am I opening this app?'",
			"Create device-free zones in your home",
		},
		MicroHabits: []string{
			"Take a deep breath before unlocking your phone",
			"Set your phone to grayscale mode to reduce visual appeal",
		},
		MotivationalTip: "Every moment of awareness is progress. You're building healthier digital habits!",
	}
}
