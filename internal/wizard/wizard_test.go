package wizard

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mindtrace/mindtrace/internal/model"
)

func openDraft() *Draft {
	return &Draft{
		State: StateAppSelection,
		Apps:  []string{},
		Tags:  []string{},
	}
}

// validDraft walks a draft to the terminal step with valid fields.
func validDraft(t *testing.T) *Draft {
	t.Helper()

	d := openDraft()
	if err := d.ToggleApp("Instagram"); err != nil {
		t.Fatalf("ToggleApp: %v", err)
	}
	if err := d.Next(); err != nil {
		t.Fatalf("Next from app selection: %v", err)
	}
	if err := d.SetScreenTime(90); err != nil {
		t.Fatalf("SetScreenTime: %v", err)
	}
	if err := d.Next(); err != nil {
		t.Fatalf("Next from time selection: %v", err)
	}
	if err := d.SetReflection("Scrolled too long before bed."); err != nil {
		t.Fatalf("SetReflection: %v", err)
	}
	if err := d.ToggleTag("⏳ Wasted Time"); err != nil {
		t.Fatalf("ToggleTag: %v", err)
	}
	return d
}

func TestDraft_NextRequiresApp(t *testing.T) {
	d := openDraft()

	if err := d.Next(); !errors.Is(err, ErrNoAppSelected) {
		t.Fatalf("expected ErrNoAppSelected, got %v", err)
	}

	// Validation failure must not change state.
	if d.State != StateAppSelection {
		t.Errorf("state changed on failed transition: %s", d.State)
	}

	if err := d.ToggleApp("YouTube"); err != nil {
		t.Fatalf("ToggleApp: %v", err)
	}
	if err := d.Next(); err != nil {
		t.Fatalf("Next with app selected: %v", err)
	}
	if d.State != StateTimeSelection {
		t.Errorf("expected time selection, got %s", d.State)
	}
}

func TestDraft_TimeSelectionAdvancesUnconditionally(t *testing.T) {
	d := openDraft()
	d.ToggleApp("YouTube")
	d.Next()

	if err := d.Next(); err != nil {
		t.Fatalf("time selection next should be unconditional: %v", err)
	}
	if d.State != StateReflectionAndTags {
		t.Errorf("expected reflection step, got %s", d.State)
	}
}

func TestDraft_ToggleIdempotence(t *testing.T) {
	d := openDraft()

	d.ToggleApp("Instagram")
	d.ToggleApp("YouTube")
	before := append([]string(nil), d.Apps...)

	d.ToggleApp("TikTok")
	d.ToggleApp("TikTok")

	if !reflect.DeepEqual(d.Apps, before) {
		t.Errorf("double toggle should restore prior selection: %v vs %v", d.Apps, before)
	}
}

func TestDraft_ToggleOrderPreserved(t *testing.T) {
	d := openDraft()

	d.ToggleApp("B")
	d.ToggleApp("A")
	d.ToggleApp("C")
	d.ToggleApp("A") // deselect
	d.ToggleApp("A") // reselect, now goes last

	want := []string{"B", "C", "A"}
	if !reflect.DeepEqual(d.Apps, want) {
		t.Errorf("apps = %v, want %v", d.Apps, want)
	}
}

func TestDraft_SetScreenTimeClamped(t *testing.T) {
	d := openDraft()
	d.ToggleApp("YouTube")
	d.Next()

	tests := []struct {
		in   int
		want int
	}{
		{-5, 0},
		{0, 0},
		{60, 60},
		{1440, 1440},
		{5000, 1440},
	}

	for _, tt := range tests {
		if err := d.SetScreenTime(tt.in); err != nil {
			t.Fatalf("SetScreenTime(%d): %v", tt.in, err)
		}
		if d.ScreenTimeMinutes != tt.want {
			t.Errorf("SetScreenTime(%d) = %d, want %d", tt.in, d.ScreenTimeMinutes, tt.want)
		}
	}
}

func TestDraft_FinishValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draft)
		wantErr error
	}{
		{
			name:    "valid draft finishes",
			mutate:  func(d *Draft) {},
			wantErr: nil,
		},
		{
			name: "blank reflection",
			mutate: func(d *Draft) {
				d.Reflection = "   \n\t "
			},
			wantErr: ErrBlankReflection,
		},
		{
			name: "no tags",
			mutate: func(d *Draft) {
				d.ToggleTag("⏳ Wasted Time") // deselect the only tag
			},
			wantErr: ErrNoTagSelected,
		},
		{
			name: "no apps",
			mutate: func(d *Draft) {
				d.Apps = nil
			},
			wantErr: ErrNoAppSelected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft(t)
			tt.mutate(d)

			err := d.Finish()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Finish() error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr == nil {
				if d.State != StateClosed {
					t.Errorf("successful finish should close, got %s", d.State)
				}
			} else if d.State != StateReflectionAndTags {
				t.Errorf("failed finish must not change state, got %s", d.State)
			}
		})
	}
}

func TestDraft_FinishForAnalysisThenConfirm(t *testing.T) {
	d := validDraft(t)

	analysis := &model.Analysis{Analysis: "You lean on short-form video late at night."}
	if err := d.FinishForAnalysis(analysis); err != nil {
		t.Fatalf("FinishForAnalysis: %v", err)
	}

	if d.State != StateAwaitingConfirm {
		t.Fatalf("expected awaiting confirm, got %s", d.State)
	}
	if d.Analysis != analysis {
		t.Error("analysis should be attached to the draft")
	}

	// Confirm is only reachable from the overlay state.
	if err := d.Confirm(); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if d.State != StateClosed {
		t.Errorf("expected closed, got %s", d.State)
	}
}

func TestDraft_ConfirmOnlyFromOverlay(t *testing.T) {
	d := validDraft(t)

	if err := d.Confirm(); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("Confirm outside overlay should fail, got %v", err)
	}
}

func TestDraft_NoBackwardTransitions(t *testing.T) {
	d := validDraft(t)

	// Controls of earlier steps are gone once the step is passed.
	if err := d.ToggleApp("Instagram"); !errors.Is(err, ErrWrongStep) {
		t.Errorf("ToggleApp after app selection should fail, got %v", err)
	}
	if err := d.SetScreenTime(30); !errors.Is(err, ErrWrongStep) {
		t.Errorf("SetScreenTime after time selection should fail, got %v", err)
	}
}

func TestDraft_ClosedRejectsEverything(t *testing.T) {
	d := validDraft(t)
	if err := d.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	if err := d.Next(); !errors.Is(err, ErrClosed) {
		t.Errorf("Next on closed draft: got %v", err)
	}
	if err := d.Finish(); !errors.Is(err, ErrClosed) {
		t.Errorf("Finish on closed draft: got %v", err)
	}
}
