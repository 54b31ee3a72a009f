package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"faith-companion-be/internal/constant"
	"faith-companion-be/internal/entity"
	"faith-companion-be/internal/repository/contract"
	"faith-companion-be/internal/repository/unitofwork"
	"faith-companion-be/pkg/llm"

	"github.com/google/uuid"
)

const summaryPrompt = `You summarize a spiritual companion conversation for the user's private session history. Respond with a single JSON object, no markdown:
{"summary": "<2-3 sentence recap>", "themes": ["<theme>", ...], "scripture_refs": ["<book chapter:verse>", ...]}
Leave arrays empty when nothing applies.

TRANSCRIPT:
`

// Result reports whether a new artifact row was created. Created=false with a
// nil error means another writer got there first.
type Result struct {
	Created  bool
	Artifact *entity.SessionArtifact
}

// Generator produces the session summary artifact for an ended conversation.
// Callers check for an existing active artifact before invoking it; the DB
// uniqueness constraint catches the remaining race.
type Generator struct {
	factory     unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewGenerator(factory unitofwork.RepositoryFactory, llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		factory:     factory,
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Generate builds the summary content and creates the artifact row.
func (g *Generator) Generate(ctx context.Context, userId uuid.UUID, sessionKey string, turns []llm.Message, metadata map[string]interface{}) (*Result, error) {
	content := g.buildContent(ctx, turns)
	for k, v := range metadata {
		content[k] = v
	}
	content["message_count"] = len(turns)

	artifact := &entity.SessionArtifact{
		Id:         uuid.New(),
		UserId:     userId,
		SessionKey: sessionKey,
		Type:       entity.ArtifactTypeSessionSummary,
		Status:     entity.ArtifactStatusActive,
		Content:    content,
	}

	uow := g.factory.NewUnitOfWork(ctx)
	if err := uow.SessionArtifactRepository().Create(ctx, artifact); err != nil {
		if errors.Is(err, contract.ErrArtifactExists) {
			g.logger.Printf("[SUMMARY] Artifact already exists for session %s, skipping", sessionKey)
			return &Result{Created: false}, nil
		}
		return nil, err
	}

	g.logger.Printf("[SUMMARY] Created artifact %s for session %s", artifact.Id, sessionKey)
	return &Result{Created: true, Artifact: artifact}, nil
}

// buildContent asks the model for a structured summary and falls back to a
// deterministic recap when the model is unavailable or returns junk.
func (g *Generator) buildContent(ctx context.Context, turns []llm.Message) map[string]interface{} {
	if g.llmProvider != nil {
		var sb strings.Builder
		sb.WriteString(summaryPrompt)
		for _, m := range turns {
			if sb.Len() > 8000 {
				break
			}
			sb.WriteString(m.Role)
			sb.WriteString(": ")
			sb.WriteString(m.Content)
			sb.WriteString("\n")
		}

		response, err := g.llmProvider.Generate(ctx, sb.String(), llm.WithTemperature(0.2))
		if err != nil {
			g.logger.Printf("[WARN] Summary generation failed, using fallback: %v", err)
		} else if content, ok := parseSummary(response); ok {
			return content
		} else {
			g.logger.Printf("[WARN] Summary response unparseable, using fallback")
		}
	}
	return fallbackContent(turns)
}

func parseSummary(raw string) (map[string]interface{}, bool) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if start := strings.Index(s, "{"); start >= 0 {
			if end := strings.LastIndex(s, "}"); end > start {
				s = s[start : end+1]
			}
		}
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return nil, false
	}
	summaryText, _ := parsed["summary"].(string)
	if strings.TrimSpace(summaryText) == "" {
		return nil, false
	}
	return parsed, true
}

func fallbackContent(turns []llm.Message) map[string]interface{} {
	var firstUser string
	for _, m := range turns {
		if m.Role == constant.ChatMessageRoleUser && strings.TrimSpace(m.Content) != "" {
			firstUser = strings.TrimSpace(m.Content)
			break
		}
	}
	if len(firstUser) > 200 {
		firstUser = firstUser[:200]
	}
	return map[string]interface{}{
		"summary":        fmt.Sprintf("Conversation of %d messages, starting with: %s", len(turns), firstUser),
		"themes":         []string{},
		"scripture_refs": []string{},
	}
}
