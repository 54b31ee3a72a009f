package titler

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"faith-companion-be/internal/constant"
	"faith-companion-be/pkg/llm"
)

// MaxTitleChars bounds the title regardless of which path produced it.
const MaxTitleChars = 80

const titlePrompt = `You name conversations. Given the transcript below, respond with a short descriptive title (at most 8 words). Respond with the title only: no quotes, no markdown, no explanation.

TRANSCRIPT:
`

// Titler derives a short human-readable title for a saved conversation.
// The model-assisted path is best effort; a deterministic fallback from the
// first substantive user turn guarantees Title never fails.
type Titler struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewTitler(llmProvider llm.LLMProvider, logger *log.Logger) *Titler {
	return &Titler{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Title returns a non-empty title for the given ordered turns.
func (t *Titler) Title(ctx context.Context, kind string, turns []llm.Message) string {
	if title := t.modelTitle(ctx, turns); title != "" {
		return title
	}
	return t.fallbackTitle(kind, turns)
}

func (t *Titler) modelTitle(ctx context.Context, turns []llm.Message) string {
	if t.llmProvider == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titlePrompt)
	for _, m := range turns {
		if len(sb.String()) > 4000 {
			break
		}
		sb.WriteString(m.Role)
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}

	response, err := t.llmProvider.Generate(ctx, sb.String(), llm.WithTemperature(0.0))
	if err != nil {
		t.logger.Printf("[WARN] Title generation failed, using fallback: %v", err)
		return ""
	}

	title := cleanTitle(response)
	if title == "" {
		t.logger.Printf("[WARN] Title generation returned empty response, using fallback")
	}
	return title
}

// fallbackTitle derives a title from the first user turn that carries text.
func (t *Titler) fallbackTitle(kind string, turns []llm.Message) string {
	for _, m := range turns {
		if m.Role != constant.ChatMessageRoleUser {
			continue
		}
		if content := strings.TrimSpace(m.Content); content != "" {
			if line := firstLine(content); line != "" {
				return truncateTitle(line)
			}
		}
	}
	if kind != "" {
		return "Untitled " + kind
	}
	return "Untitled conversation"
}

// cleanTitle strips markdown fences, surrounding quotes, and whitespace from a
// model response, and rejects responses that are clearly not a title.
func cleanTitle(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if idx := strings.Index(s, "\n"); idx >= 0 && !strings.Contains(s[:idx], " ") {
			// Drop the language tag line of a fenced block
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	s = strings.Trim(s, "\"'")
	s = firstLine(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "."))

	if s == "" || strings.Contains(s, "{") || strings.Contains(s, "}") {
		return ""
	}

	return truncateTitle(s)
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return s
}

func truncateTitle(s string) string {
	if utf8.RuneCountInString(s) <= MaxTitleChars {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:MaxTitleChars-1])) + "…"
}
