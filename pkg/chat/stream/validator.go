package stream

import (
	"strings"

	"faith-companion-be/pkg/chat/contextpayload"
)

// Validate checks one decoded stream object against the allow-lists and
// re-types it into its Event variant. A non-empty DropReason means the object
// is rejected; rejections are the caller's to count, not to fail on.
func Validate(allow *contextpayload.AllowLists, raw map[string]interface{}) (*Event, DropReason) {
	eventType, ok := raw["type"].(string)
	if !ok || eventType == "" {
		return nil, DropReasonUnknownType
	}

	switch EventType(eventType) {
	case EventTypeSuggestion:
		return validateSuggestion(allow, raw)
	case EventTypeNote:
		return validateNote(allow, raw)
	case EventTypeDone:
		return &Event{Type: EventTypeDone}, ""
	default:
		return nil, DropReasonUnknownType
	}
}

func validateSuggestion(allow *contextpayload.AllowLists, raw map[string]interface{}) (*Event, DropReason) {
	label, ok := raw["label"].(string)
	if !ok || strings.TrimSpace(label) == "" {
		return nil, DropReasonInvalidShape
	}

	evidenceIds, ok := stringSlice(raw["evidence_ids"])
	if !ok {
		return nil, DropReasonInvalidShape
	}
	for _, id := range evidenceIds {
		if !allow.AllowsEvidence(id) {
			return nil, DropReasonEvidenceNotAllowed
		}
	}

	actionType := ""
	if v, present := raw["action_type"]; present {
		s, ok := v.(string)
		if !ok {
			return nil, DropReasonInvalidShape
		}
		actionType = s
	}
	if actionType != "" && !allow.AllowsAction(actionType) {
		return nil, DropReasonActionNotAllowed
	}

	return &Event{
		Type: EventTypeSuggestion,
		Suggestion: &Suggestion{
			ActionType:  actionType,
			Label:       label,
			EvidenceIds: evidenceIds,
		},
	}, ""
}

func validateNote(allow *contextpayload.AllowLists, raw map[string]interface{}) (*Event, DropReason) {
	text, ok := raw["text"].(string)
	if !ok || strings.TrimSpace(text) == "" {
		return nil, DropReasonInvalidShape
	}

	evidenceIds, ok := stringSlice(raw["evidence_ids"])
	if !ok {
		return nil, DropReasonInvalidShape
	}
	for _, id := range evidenceIds {
		if !allow.AllowsEvidence(id) {
			return nil, DropReasonEvidenceNotAllowed
		}
	}

	return &Event{
		Type: EventTypeNote,
		Note: &Note{
			Text:        text,
			EvidenceIds: evidenceIds,
		},
	}, ""
}

// stringSlice converts a decoded JSON array to []string. Absent values are
// fine; any non-string element is not.
func stringSlice(v interface{}) ([]string, bool) {
	if v == nil {
		return nil, true
	}
	arr, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		s, ok := el.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
