package stream

// EventType is the discriminator carried by every model-emitted line.
type EventType string

const (
	// EventTypeSuggestion proposes an in-app action grounded on evidence
	// that was part of the context (open a verse, start a prayer, ...).
	EventTypeSuggestion EventType = "suggestion"
	// EventTypeNote is a remember-worthy observation about the user,
	// persisted as an ephemeral session note until consolidation.
	EventTypeNote EventType = "note"
	// EventTypeDone is the terminal marker of a turn.
	EventTypeDone EventType = "done"
)

// DropReason tags why a streamed line was rejected. Drops are counted, never
// fatal.
type DropReason string

const (
	DropReasonMalformedJSON      DropReason = "malformed_json"
	DropReasonUnknownType        DropReason = "unknown_type"
	DropReasonInvalidShape       DropReason = "invalid_shape"
	DropReasonEvidenceNotAllowed DropReason = "evidence_not_allowed"
	DropReasonActionNotAllowed   DropReason = "action_not_allowed"
)

// Event is the closed tagged-variant decoded from one stream line. Exactly
// one variant pointer is set for the matching Type; Done carries no payload.
type Event struct {
	Type       EventType   `json:"type"`
	Suggestion *Suggestion `json:"suggestion,omitempty"`
	Note       *Note       `json:"note,omitempty"`
}

// Suggestion is an actionable recommendation tied to context evidence.
type Suggestion struct {
	ActionType  string   `json:"action_type,omitempty"`
	Label       string   `json:"label"`
	EvidenceIds []string `json:"evidence_ids,omitempty"`
}

// Note is a model observation worth carrying into durable memory.
type Note struct {
	Text        string   `json:"text"`
	EvidenceIds []string `json:"evidence_ids,omitempty"`
}
