// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/mindtrace/mindtrace/internal/model"
)

// CreateEntryRequest represents the request body for creating an entry.
type CreateEntryRequest struct {
	Apps       []string `json:"apps"`
	ScreenTime int      `json:"screen_time"`
	Reflection string   `json:"reflection"`
	Tags       []string `json:"tags"`
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id,omitempty"`
	Apps       []string  `json:"apps"`
	ScreenTime int       `json:"screen_time"`
	Reflection string    `json:"reflection"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
}

// EntryListResponse represents a list of entries.
type EntryListResponse struct {
	Data []EntryResponse `json:"data"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToEntryResponse converts an Entry model to EntryResponse DTO.
func ToEntryResponse(entry *model.Entry) *EntryResponse {
	return &EntryResponse{
		ID:         entry.ID,
		UserID:     entry.UserID,
		Apps:       entry.Apps,
		ScreenTime: entry.ScreenTimeMinutes,
		Reflection: entry.Reflection,
		Tags:       entry.Tags,
		CreatedAt:  entry.CreatedAt,
	}
}

// ToEntryListResponse converts a slice of Entry models to EntryListResponse.
func ToEntryListResponse(entries []*model.Entry) *EntryListResponse {
	responses := make([]EntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = *ToEntryResponse(entry)
	}
	return &EntryListResponse{Data: responses}
}
