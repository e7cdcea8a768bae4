package model

// Analysis is the structured response of the AI analysis collaborator.
// The same shape is used for the static fallback payload, so callers
// never branch on where the guidance came from.
type Analysis struct {
	Analysis        string   `json:"analysis"`
	Suggestions     []string `json:"suggestions"`
	MicroHabits     []string `json:"microHabits"`
	MotivationalTip string   `json:"motivationalTip"`
}
