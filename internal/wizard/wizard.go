// Package wizard implements the multi-step entry capture flow as an
// explicit state machine. A draft accumulates the entry fields; no
// invariant is enforced until the terminal step, and no backward
// transitions exist.
package wizard

import (
	"errors"
	"strings"
	"time"

	"github.com/mindtrace/mindtrace/internal/model"
)

// State identifies the wizard step that currently owns the controls.
type State string

const (
	// StateAppSelection is the first step: pick at least one app.
	StateAppSelection State = "app_selection"
	// StateTimeSelection is the second step: the bounded time control.
	StateTimeSelection State = "time_selection"
	// StateReflectionAndTags is the terminal capture step.
	StateReflectionAndTags State = "reflection_and_tags"
	// StateAwaitingConfirm holds a validated draft while the AI
	// analysis overlay is shown; only Confirm or Cancel leave it.
	StateAwaitingConfirm State = "awaiting_confirm"
	// StateClosed means the draft has been handed off for persistence.
	StateClosed State = "closed"
)

// Validation errors. They block the offending transition and nothing
// else; the draft state is unchanged when one is returned.
var (
	ErrNoAppSelected   = errors.New("select at least one app")
	ErrNoTagSelected   = errors.New("select at least one tag")
	ErrBlankReflection = errors.New("write a reflection")
	ErrWrongStep       = errors.New("action not available in this step")
	ErrClosed          = errors.New("wizard is closed")
)

// Draft is the ephemeral accumulator for an entry being captured.
// It is destroyed on submit or cancel and never persisted as-is.
type Draft struct {
	ID                string
	State             State
	Apps              []string
	ScreenTimeMinutes int
	Reflection        string
	Tags              []string

	// Analysis is attached when the AI-assisted finish variant ran;
	// the overlay renders it while the draft awaits confirmation.
	Analysis *model.Analysis

	CreatedAt time.Time
}

// ToggleApp flips the selection state of one app label. Toggling is
// idempotent set-membership: toggling twice restores the prior state.
// First-selection order is preserved.
func (d *Draft) ToggleApp(label string) error {
	if d.State != StateAppSelection {
		return d.stepError()
	}
	d.Apps = toggleLabel(d.Apps, label)
	return nil
}

// SetScreenTime records the bounded control's value, clamped to the
// control's range.
func (d *Draft) SetScreenTime(minutes int) error {
	if d.State != StateTimeSelection {
		return d.stepError()
	}
	if minutes < 0 {
		minutes = 0
	}
	if minutes > model.MaxScreenTimeMinutes {
		minutes = model.MaxScreenTimeMinutes
	}
	d.ScreenTimeMinutes = minutes
	return nil
}

// SetReflection records the reflection text verbatim; trimming happens
// at validation so the user's formatting survives until finish.
func (d *Draft) SetReflection(text string) error {
	if d.State != StateReflectionAndTags {
		return d.stepError()
	}
	d.Reflection = text
	return nil
}

// ToggleTag flips the selection state of one tag label.
func (d *Draft) ToggleTag(label string) error {
	if d.State != StateReflectionAndTags {
		return d.stepError()
	}
	d.Tags = toggleLabel(d.Tags, label)
	return nil
}

// Next advances the wizard one step forward.
func (d *Draft) Next() error {
	switch d.State {
	case StateAppSelection:
		if len(d.Apps) == 0 {
			return ErrNoAppSelected
		}
		d.State = StateTimeSelection
		return nil
	case StateTimeSelection:
		// Unconditional: the bounded control always holds a valid value.
		d.State = StateReflectionAndTags
		return nil
	default:
		return d.stepError()
	}
}

// Finish validates the draft and closes the wizard for a plain save.
// The caller persists the validated fields.
func (d *Draft) Finish() error {
	if d.State != StateReflectionAndTags {
		return d.stepError()
	}
	if err := d.validate(); err != nil {
		return err
	}
	d.State = StateClosed
	return nil
}

// FinishForAnalysis validates the draft and parks it behind the AI
// overlay. Persistence waits for an explicit Confirm.
func (d *Draft) FinishForAnalysis(analysis *model.Analysis) error {
	if d.State != StateReflectionAndTags {
		return d.stepError()
	}
	if err := d.validate(); err != nil {
		return err
	}
	d.Analysis = analysis
	d.State = StateAwaitingConfirm
	return nil
}

// Confirm is the terminal action reachable only from the AI overlay.
func (d *Draft) Confirm() error {
	if d.State != StateAwaitingConfirm {
		return d.stepError()
	}
	d.State = StateClosed
	return nil
}

// validate enforces the entry invariants: at least one app, at least
// one tag, and a non-blank reflection.
func (d *Draft) validate() error {
	if len(d.Apps) == 0 {
		return ErrNoAppSelected
	}
	if strings.TrimSpace(d.Reflection) == "" {
		return ErrBlankReflection
	}
	if len(d.Tags) == 0 {
		return ErrNoTagSelected
	}
	return nil
}

func (d *Draft) stepError() error {
	if d.State == StateClosed {
		return ErrClosed
	}
	return ErrWrongStep
}

// toggleLabel adds the label if absent, removes it if present.
func toggleLabel(labels []string, label string) []string {
	for i, l := range labels {
		if l == label {
			return append(labels[:i:i], labels[i+1:]...)
		}
	}
	return append(labels, label)
}
