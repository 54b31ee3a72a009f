package transcript

import (
	"testing"
	"time"
)

func TestNormalizeMessages(t *testing.T) {
	messages := []Message{
		{Role: "User", Content: "  Hello  "},
		{Role: "assistant", Content: "   "},
		{Role: "assistant", Content: "Hi there"},
		{Role: "user", Content: ""},
	}

	normalized := normalizeMessages(messages)

	if len(normalized) != 2 {
		t.Fatalf("normalized count = %d, want 2", len(normalized))
	}
	if normalized[0].Role != "user" || normalized[0].Content != "Hello" {
		t.Errorf("first message = %+v", normalized[0])
	}
	if normalized[1].Role != "assistant" || normalized[1].Content != "Hi there" {
		t.Errorf("second message = %+v", normalized[1])
	}
}

func TestHasSubstance(t *testing.T) {
	tests := []struct {
		name     string
		messages []Message
		want     bool
	}{
		{
			name: "two messages with a user turn",
			messages: []Message{
				{Role: "user", Content: "Pray for my mom"},
				{Role: "assistant", Content: "I'm praying for her."},
			},
			want: true,
		},
		{
			name: "single message",
			messages: []Message{
				{Role: "user", Content: "Hello"},
			},
			want: false,
		},
		{
			name: "no user message",
			messages: []Message{
				{Role: "assistant", Content: "Welcome back"},
				{Role: "assistant", Content: "How are you today?"},
			},
			want: false,
		},
		{
			name: "whitespace user message dropped before the gate",
			messages: []Message{
				{Role: "user", Content: "   "},
				{Role: "assistant", Content: "Hello"},
				{Role: "assistant", Content: "Anyone there?"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hasSubstance(normalizeMessages(tt.messages))
			if got != tt.want {
				t.Errorf("hasSubstance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEarliestTimestamp(t *testing.T) {
	headerTime := "2026-08-01T10:00:00Z"
	early := "2026-08-01T09:00:00Z"
	later := "2026-08-01T11:00:00Z"

	t.Run("header wins when present", func(t *testing.T) {
		tr := &Transcript{StartedAt: headerTime}
		got := earliestTimestamp(tr, []Message{{ClientTimestamp: early}})
		want, _ := time.Parse(time.RFC3339, headerTime)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("earliest client timestamp when header absent", func(t *testing.T) {
		tr := &Transcript{}
		got := earliestTimestamp(tr, []Message{
			{ClientTimestamp: later},
			{ClientTimestamp: early},
			{ClientTimestamp: "garbage"},
		})
		want, _ := time.Parse(time.RFC3339, early)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("falls back to now with no parseable timestamps", func(t *testing.T) {
		tr := &Transcript{StartedAt: "not a timestamp"}
		before := time.Now()
		got := earliestTimestamp(tr, []Message{{ClientTimestamp: ""}})
		after := time.Now()
		if got.Before(before) || got.After(after) {
			t.Errorf("got %v outside [%v, %v]", got, before, after)
		}
	})
}
