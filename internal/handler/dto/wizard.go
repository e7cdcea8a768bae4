package dto

import (
	"github.com/mindtrace/mindtrace/internal/model"
	"github.com/mindtrace/mindtrace/internal/wizard"
)

// ToggleRequest represents a toggle of one selectable label.
type ToggleRequest struct {
	Label string `json:"label"`
}

// ScreenTimeRequest represents the bounded time control's value.
type ScreenTimeRequest struct {
	Minutes int `json:"minutes"`
}

// ReflectionRequest represents the reflection text.
type ReflectionRequest struct {
	Text string `json:"text"`
}

// FinishRequest selects the finish variant.
type FinishRequest struct {
	WithAnalysis bool `json:"with_analysis"`
}

// WizardResponse represents the draft state after an action.
type WizardResponse struct {
	ID         string          `json:"id"`
	State      string          `json:"state"`
	Apps       []string        `json:"apps"`
	ScreenTime int             `json:"screen_time"`
	Reflection string          `json:"reflection"`
	Tags       []string        `json:"tags"`
	Analysis   *model.Analysis `json:"analysis,omitempty"`
}

// WizardResultResponse represents a completed wizard: the persisted
// entry plus the analysis when the AI variant ran.
type WizardResultResponse struct {
	Entry    *EntryResponse  `json:"entry"`
	Analysis *model.Analysis `json:"analysis,omitempty"`
}

// ToWizardResponse converts a Draft to WizardResponse DTO.
func ToWizardResponse(d wizard.Draft) *WizardResponse {
	return &WizardResponse{
		ID:         d.ID,
		State:      string(d.State),
		Apps:       d.Apps,
		ScreenTime: d.ScreenTimeMinutes,
		Reflection: d.Reflection,
		Tags:       d.Tags,
		Analysis:   d.Analysis,
	}
}
