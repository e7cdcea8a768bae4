// Package model defines domain entities for the application.
package model

import "time"

// MaxScreenTimeMinutes is the upper bound of the screen time control.
// A day has 1440 minutes; the capture UI slider cannot exceed it.
const MaxScreenTimeMinutes = 1440

// Entry represents one persisted journal entry: the apps a user spent
// time in, the total screen time, a free-form reflection, and mood tags.
// Entries are immutable once persisted.
type Entry struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Apps              []string  `json:"apps"`
	ScreenTimeMinutes int       `json:"screen_time"`
	Reflection        string    `json:"reflection"`
	Tags              []string  `json:"tags"`
	CreatedAt         time.Time `json:"created_at"`
}

// ScreenTime returns the entry's screen time as a duration.
func (e *Entry) ScreenTime() time.Duration {
	return time.Duration(e.ScreenTimeMinutes) * time.Minute
}

// HasTag reports whether the entry carries the given tag.
func (e *Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
