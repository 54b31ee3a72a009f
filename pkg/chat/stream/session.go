package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"faith-companion-be/internal/constant"
	"faith-companion-be/pkg/chat/contextpayload"
	"faith-companion-be/pkg/llm"
)

// Config carries the per-call model configuration. Components receive it
// explicitly instead of reading the environment so tests can inject fakes.
type Config struct {
	SystemPrompt  string
	UserContext   string // the user's turn text, framed ahead of the payload
	Model         string
	FallbackModel string // retried once on transport failure when set
	Temperature   float64
	MaxTokens     int
}

// Summary aggregates what happened to the stream's lines.
type Summary struct {
	Dropped             int
	DropReasons         map[DropReason]int
	AcceptedSuggestions int
	UsedFallback        bool
}

// Result is the outcome of one completed stream call.
type Result struct {
	RawText string
	Events  []*Event
	Summary Summary
}

// Callback receives each accepted event in the exact order its source line
// completed.
type Callback func(*Event)

// Session drives one streaming model call, assembling newline-delimited JSON
// objects across read boundaries and validating each against the allow-lists.
type Session struct {
	provider llm.StreamProvider
	logger   *log.Logger
}

func NewSession(provider llm.StreamProvider, logger *log.Logger) *Session {
	return &Session{provider: provider, logger: logger}
}

// Run opens the stream and consumes it to connection close. Per-line decode
// and validation failures are counted and tagged, never fatal. A transport
// failure aborts the whole call with an error; when a fallback model is
// configured the call is retried once on it first.
func (s *Session) Run(
	ctx context.Context,
	cfg Config,
	payload map[string]interface{},
	allow *contextpayload.AllowLists,
	onEvent Callback,
) (*Result, error) {

	history, err := buildHistory(cfg.SystemPrompt, cfg.UserContext, payload)
	if err != nil {
		return nil, err
	}

	opts := []llm.Option{llm.WithModel(cfg.Model)}
	if cfg.Temperature > 0 {
		opts = append(opts, llm.WithTemperature(cfg.Temperature))
	}
	if cfg.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(cfg.MaxTokens))
	}

	usedFallback := false
	body, err := s.provider.OpenStream(ctx, history, opts...)
	if err != nil {
		if cfg.FallbackModel == "" || ctx.Err() != nil {
			return nil, err
		}
		s.logger.Printf("[STREAM] Primary model %q failed (%v), retrying on fallback %q", cfg.Model, err, cfg.FallbackModel)
		fallbackOpts := append([]llm.Option{}, opts...)
		fallbackOpts[0] = llm.WithModel(cfg.FallbackModel)
		body, err = s.provider.OpenStream(ctx, history, fallbackOpts...)
		if err != nil {
			return nil, err
		}
		usedFallback = true
	}
	defer body.Close()

	result := &Result{
		Summary: Summary{
			DropReasons:  make(map[DropReason]int),
			UsedFallback: usedFallback,
		},
	}

	var raw strings.Builder
	reader := bufio.NewReader(body)

	for {
		// bufio completes partial lines across read boundaries; ReadString
		// only returns on the delimiter or at end of stream.
		line, readErr := reader.ReadString('\n')

		if readErr == io.EOF {
			// End-of-stream is signaled by connection close, so a trailing
			// unterminated line is still a complete object. A cancelled
			// context means the remainder is a truncated buffer: discard it
			// unparsed.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if strings.TrimSpace(line) != "" {
				raw.WriteString(line)
				s.consumeLine(line, allow, result, onEvent)
			}
			break
		}
		if readErr != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("stream read failed: %w", readErr)
		}

		raw.WriteString(line)
		s.consumeLine(line, allow, result, onEvent)
	}

	result.RawText = raw.String()
	return result, nil
}

func (s *Session) consumeLine(line string, allow *contextpayload.AllowLists, result *Result, onEvent Callback) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		s.drop(result, DropReasonMalformedJSON)
		return
	}

	event, reason := Validate(allow, decoded)
	if reason != "" {
		s.drop(result, reason)
		return
	}

	result.Events = append(result.Events, event)
	if event.Type == EventTypeSuggestion {
		result.Summary.AcceptedSuggestions++
	}
	if onEvent != nil {
		onEvent(event)
	}
}

func (s *Session) drop(result *Result, reason DropReason) {
	result.Summary.Dropped++
	result.Summary.DropReasons[reason]++
}

// buildHistory frames the system prompt, the user's turn and the compacted
// context payload as the model conversation.
func buildHistory(systemPrompt, userContext string, payload map[string]interface{}) ([]llm.Message, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal context payload: %w", err)
	}

	content := string(payloadJSON)
	if userContext != "" {
		content = userContext + "\n\nCONTEXT:\n" + content
	}

	return []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: constant.ChatMessageRoleUser, Content: content},
	}, nil
}
