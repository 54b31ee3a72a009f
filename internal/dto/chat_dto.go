package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// --- Chat turn ---

type ChatTurnRequest struct {
	SessionId      string                 `json:"session_id" validate:"required"`
	Kind           string                 `json:"kind" validate:"omitempty,oneof=conversation journal"`
	Message        string                 `json:"message" validate:"required"`
	UserContext    string                 `json:"user_context,omitempty"`
	ContextPayload map[string]interface{} `json:"context_payload,omitempty"`
}

type StreamEventDTO struct {
	Type        string   `json:"type"`
	ActionType  string   `json:"action_type,omitempty"`
	Label       string   `json:"label,omitempty"`
	Text        string   `json:"text,omitempty"`
	EvidenceIds []string `json:"evidence_ids,omitempty"`
}

type ChatTurnResponse struct {
	SessionId           string           `json:"session_id"`
	Events              []StreamEventDTO `json:"events"`
	RawText             string           `json:"raw_text"`
	Dropped             int              `json:"dropped"`
	DropReasons         map[string]int   `json:"drop_reasons,omitempty"`
	AcceptedSuggestions int              `json:"accepted_suggestions"`
	UsedFallback        bool             `json:"used_fallback"`
}

// --- End session ---

type TranscriptMessage struct {
	Role            string          `json:"role" validate:"required"`
	Content         string          `json:"content"`
	Actions         json.RawMessage `json:"actions,omitempty"`
	ClientTimestamp string          `json:"client_timestamp,omitempty"`
}

type EndSessionRequest struct {
	SessionId string              `json:"session_id" validate:"required"`
	Kind      string              `json:"kind" validate:"omitempty,oneof=conversation journal"`
	StartedAt string              `json:"started_at,omitempty"`
	EndedAt   string              `json:"ended_at,omitempty"`
	Messages  []TranscriptMessage `json:"messages" validate:"required"`
}

type ConsolidationStats struct {
	NotesProcessed int `json:"notes_processed"`
	ItemsCreated   int `json:"items_created"`
	Duplicates     int `json:"duplicates"`
}

type EndSessionResponse struct {
	SavedTranscript       bool               `json:"saved_transcript"`
	Reason                string             `json:"reason,omitempty"`
	SessionSummaryCreated bool               `json:"session_summary_created"`
	Consolidated          ConsolidationStats `json:"consolidated"`
}

// --- Lifecycle bus ---

// SessionEndedMessage travels over the in-process bus after a session end
// completed its synchronous work.
type SessionEndedMessage struct {
	UserId       uuid.UUID `json:"user_id"`
	SessionId    string    `json:"session_id"`
	Kind         string    `json:"kind"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary,omitempty"`
	Email        string    `json:"email,omitempty"`
	MessageCount int       `json:"message_count"`
	ItemsCreated int       `json:"items_created"`
}

// --- Session history ---

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Kind      string     `json:"kind"`
	SessionId string     `json:"session_id"`
	Title     string     `json:"title"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	CreatedAt time.Time  `json:"created_at"`
}

type GetSessionMessagesResponse struct {
	Id              uuid.UUID       `json:"id"`
	Role            string          `json:"role"`
	Content         string          `json:"content"`
	Actions         json.RawMessage `json:"actions,omitempty"`
	ClientTimestamp string          `json:"client_timestamp,omitempty"`
	Position        int             `json:"position"`
}
