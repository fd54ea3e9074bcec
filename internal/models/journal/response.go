package models

import "io.winapps.dailyscore/internal/journal"

type JournalResponse struct {
	Today    string          `json:"today"`
	Selected *int            `json:"selected"`
	Average  string          `json:"average"`
	History  []journal.Entry `json:"history"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// NewJournalResponse converts a session view into its JSON shape
func NewJournalResponse(v journal.View) JournalResponse {
	history := v.History
	if history == nil {
		history = []journal.Entry{}
	}
	return JournalResponse{
		Today:    v.Today,
		Selected: v.Selected,
		Average:  v.Average,
		History:  history,
	}
}
