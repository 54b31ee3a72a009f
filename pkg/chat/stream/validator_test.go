package stream

import (
	"testing"

	"faith-companion-be/pkg/chat/contextpayload"
)

func allowFixture() *contextpayload.AllowLists {
	return contextpayload.Extract(map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{"id": "verse-1"},
			map[string]interface{}{"id": "verse-2"},
		},
		"actions": []interface{}{
			map[string]interface{}{"type": "open_verse"},
		},
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		raw        map[string]interface{}
		wantType   EventType
		wantReason DropReason
	}{
		{
			name: "valid suggestion",
			raw: map[string]interface{}{
				"type":         "suggestion",
				"action_type":  "open_verse",
				"label":        "Read Psalm 23",
				"evidence_ids": []interface{}{"verse-1"},
			},
			wantType: EventTypeSuggestion,
		},
		{
			name: "suggestion without action type",
			raw: map[string]interface{}{
				"type":         "suggestion",
				"label":        "Sit with this thought",
				"evidence_ids": []interface{}{},
			},
			wantType: EventTypeSuggestion,
		},
		{
			name: "valid note",
			raw: map[string]interface{}{
				"type": "note",
				"text": "Worried about their mother's health",
			},
			wantType: EventTypeNote,
		},
		{
			name:     "done",
			raw:      map[string]interface{}{"type": "done"},
			wantType: EventTypeDone,
		},
		{
			name:       "missing type",
			raw:        map[string]interface{}{"label": "x"},
			wantReason: DropReasonUnknownType,
		},
		{
			name:       "unknown type",
			raw:        map[string]interface{}{"type": "command"},
			wantReason: DropReasonUnknownType,
		},
		{
			name: "suggestion with empty label",
			raw: map[string]interface{}{
				"type":  "suggestion",
				"label": "   ",
			},
			wantReason: DropReasonInvalidShape,
		},
		{
			name: "suggestion referencing unknown evidence",
			raw: map[string]interface{}{
				"type":         "suggestion",
				"label":        "Read this",
				"evidence_ids": []interface{}{"verse-1", "forged-99"},
			},
			wantReason: DropReasonEvidenceNotAllowed,
		},
		{
			name: "suggestion with undeclared action type",
			raw: map[string]interface{}{
				"type":        "suggestion",
				"label":       "Do something else",
				"action_type": "delete_account",
			},
			wantReason: DropReasonActionNotAllowed,
		},
		{
			name: "suggestion with non-string evidence element",
			raw: map[string]interface{}{
				"type":         "suggestion",
				"label":        "Read this",
				"evidence_ids": []interface{}{"verse-1", 7.0},
			},
			wantReason: DropReasonInvalidShape,
		},
		{
			name: "note with empty text",
			raw: map[string]interface{}{
				"type": "note",
				"text": "",
			},
			wantReason: DropReasonInvalidShape,
		},
		{
			name: "note referencing unknown evidence",
			raw: map[string]interface{}{
				"type":         "note",
				"text":         "observation",
				"evidence_ids": []interface{}{"forged-1"},
			},
			wantReason: DropReasonEvidenceNotAllowed,
		},
	}

	allow := allowFixture()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, reason := Validate(allow, tt.raw)

			if reason != tt.wantReason {
				t.Fatalf("reason = %q, want %q", reason, tt.wantReason)
			}
			if tt.wantReason != "" {
				if event != nil {
					t.Errorf("rejected object returned event %v", event)
				}
				return
			}
			if event == nil || event.Type != tt.wantType {
				t.Fatalf("event = %v, want type %q", event, tt.wantType)
			}
			switch tt.wantType {
			case EventTypeSuggestion:
				if event.Suggestion == nil {
					t.Error("suggestion variant not populated")
				}
			case EventTypeNote:
				if event.Note == nil {
					t.Error("note variant not populated")
				}
			}
		})
	}
}

func TestValidateActionUnrestrictedWhenNoneDeclared(t *testing.T) {
	allow := contextpayload.Extract(map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{"id": "verse-1"},
		},
	})

	event, reason := Validate(allow, map[string]interface{}{
		"type":        "suggestion",
		"label":       "Try anything",
		"action_type": "novel_action",
	})
	if reason != "" {
		t.Fatalf("unexpected drop: %q", reason)
	}
	if event.Suggestion.ActionType != "novel_action" {
		t.Errorf("action type = %q", event.Suggestion.ActionType)
	}
}
