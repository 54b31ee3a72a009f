package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"faith-companion-be/internal/constant"
	"faith-companion-be/internal/dto"
	"faith-companion-be/internal/entity"
	"faith-companion-be/internal/pkg/logger"
	"faith-companion-be/internal/repository/memory"
	"faith-companion-be/internal/repository/specification"
	"faith-companion-be/internal/repository/unitofwork"
	"faith-companion-be/pkg/chat/contextpayload"
	"faith-companion-be/pkg/chat/limit"
	"faith-companion-be/pkg/chat/memorycons"
	"faith-companion-be/pkg/chat/stream"
	"faith-companion-be/pkg/chat/summary"
	"faith-companion-be/pkg/chat/transcript"
	"faith-companion-be/pkg/llm"
	"faith-companion-be/pkg/store"

	"github.com/google/uuid"
)

type IChatService interface {
	SendTurn(ctx context.Context, userId uuid.UUID, req *dto.ChatTurnRequest) (*dto.ChatTurnResponse, error)
	EndSession(ctx context.Context, userId uuid.UUID, email string, req *dto.EndSessionRequest) (*dto.EndSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetSessionMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetSessionMessagesResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

type ChatModelConfig struct {
	Model         string
	FallbackModel string
	Temperature   float64
	MaxTokens     int
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	streamSession    *stream.Session
	transcriptStore  *transcript.Store
	summaryGenerator *summary.Generator
	consolidator     *memorycons.Consolidator
	limiter          *limit.Limiter
	pointers         *memory.PointerRepository
	publisherService IPublisherService
	modelCfg         ChatModelConfig
	log              logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	streamSession *stream.Session,
	transcriptStore *transcript.Store,
	summaryGenerator *summary.Generator,
	consolidator *memorycons.Consolidator,
	limiter *limit.Limiter,
	pointers *memory.PointerRepository,
	publisherService IPublisherService,
	modelCfg ChatModelConfig,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		streamSession:    streamSession,
		transcriptStore:  transcriptStore,
		summaryGenerator: summaryGenerator,
		consolidator:     consolidator,
		limiter:          limiter,
		pointers:         pointers,
		publisherService: publisherService,
		modelCfg:         modelCfg,
		log:              log,
	}
}

func normalizeKind(kind string) string {
	if kind == "" {
		return store.KindConversation
	}
	return kind
}

func systemPromptFor(kind string) string {
	if kind == store.KindJournal {
		return constant.JournalSystemPromptV1
	}
	return constant.CompanionSystemPromptV1
}

func (c *chatService) SendTurn(ctx context.Context, userId uuid.UUID, req *dto.ChatTurnRequest) (*dto.ChatTurnResponse, error) {
	if err := c.limiter.Consume(ctx, userId.String()); err != nil {
		return nil, err
	}

	kind := normalizeKind(req.Kind)

	compacted := contextpayload.Compact(req.ContextPayload)
	allow := contextpayload.Extract(compacted)

	userTurn := req.Message
	if req.UserContext != "" {
		userTurn = "ABOUT THE PERSON:\n" + req.UserContext + "\n\n" + req.Message
	}

	cfg := stream.Config{
		SystemPrompt:  systemPromptFor(kind),
		UserContext:   userTurn,
		Model:         c.modelCfg.Model,
		FallbackModel: c.modelCfg.FallbackModel,
		Temperature:   c.modelCfg.Temperature,
		MaxTokens:     c.modelCfg.MaxTokens,
	}

	result, err := c.streamSession.Run(ctx, cfg, compacted, allow, nil)
	if err != nil {
		c.log.Error("chat", "Model stream failed", map[string]interface{}{
			"error":      err.Error(),
			"session_id": req.SessionId,
		})
		return nil, err
	}

	if err := c.persistNotes(ctx, userId, req.SessionId, result.Events); err != nil {
		// Notes are auxiliary observations; losing them must not fail the turn
		c.log.Warn("chat", "Failed to persist session notes", map[string]interface{}{
			"error":      err.Error(),
			"session_id": req.SessionId,
		})
	}

	c.touchPointer(userId, kind, req.SessionId)

	return c.buildTurnResponse(req.SessionId, result), nil
}

func (c *chatService) persistNotes(ctx context.Context, userId uuid.UUID, sessionId string, events []*stream.Event) error {
	notes := make([]*entity.SessionNote, 0)
	for _, ev := range events {
		if ev.Type != stream.EventTypeNote || ev.Note == nil {
			continue
		}
		notes = append(notes, &entity.SessionNote{
			Id:             uuid.New(),
			UserId:         userId,
			ConversationId: sessionId,
			Content:        ev.Note.Text,
		})
	}
	if len(notes) == 0 {
		return nil
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	return uow.SessionNoteRepository().CreateBulk(ctx, notes)
}

func (c *chatService) touchPointer(userId uuid.UUID, kind, sessionId string) {
	pointer, found := c.pointers.Get(userId.String(), kind)
	if found && pointer.ConversationID == sessionId {
		c.pointers.Touch(userId.String(), kind)
		return
	}
	c.pointers.Save(&store.ConversationPointer{
		UserID:         userId.String(),
		Kind:           kind,
		ConversationID: sessionId,
		TurnCount:      1,
		LastTurnAt:     time.Now(),
	})
}

func (c *chatService) buildTurnResponse(sessionId string, result *stream.Result) *dto.ChatTurnResponse {
	events := make([]dto.StreamEventDTO, 0, len(result.Events))
	for _, ev := range result.Events {
		d := dto.StreamEventDTO{Type: string(ev.Type)}
		switch {
		case ev.Suggestion != nil:
			d.ActionType = ev.Suggestion.ActionType
			d.Label = ev.Suggestion.Label
			d.EvidenceIds = ev.Suggestion.EvidenceIds
		case ev.Note != nil:
			d.Text = ev.Note.Text
			d.EvidenceIds = ev.Note.EvidenceIds
		}
		events = append(events, d)
	}

	dropReasons := make(map[string]int, len(result.Summary.DropReasons))
	for reason, n := range result.Summary.DropReasons {
		dropReasons[string(reason)] = n
	}

	return &dto.ChatTurnResponse{
		SessionId:           sessionId,
		Events:              events,
		RawText:             result.RawText,
		Dropped:             result.Summary.Dropped,
		DropReasons:         dropReasons,
		AcceptedSuggestions: result.Summary.AcceptedSuggestions,
		UsedFallback:        result.Summary.UsedFallback,
	}
}

func (c *chatService) EndSession(ctx context.Context, userId uuid.UUID, email string, req *dto.EndSessionRequest) (*dto.EndSessionResponse, error) {
	kind := normalizeKind(req.Kind)

	tr := &transcript.Transcript{
		SessionKey: req.SessionId,
		StartedAt:  req.StartedAt,
		EndedAt:    req.EndedAt,
		Messages:   toTranscriptMessages(req.Messages),
	}

	saveRes, err := c.transcriptStore.Save(ctx, userId, kind, tr)
	if err != nil {
		return nil, err
	}

	response := &dto.EndSessionResponse{
		SavedTranscript: saveRes.Saved,
		Reason:          saveRes.Reason,
	}

	summaryText := ""
	if saveRes.Saved {
		created, text, err := c.ensureSummary(ctx, userId, req.SessionId, tr, saveRes.Session.Title)
		if err != nil {
			return nil, err
		}
		response.SessionSummaryCreated = created
		summaryText = text
	}

	stats, err := c.consolidator.Consolidate(ctx, userId, req.SessionId)
	if err != nil {
		return nil, err
	}
	response.Consolidated = dto.ConsolidationStats{
		NotesProcessed: stats.NotesProcessed,
		ItemsCreated:   stats.ItemsCreated,
		Duplicates:     stats.Duplicates,
	}

	// Pointer cleanup is advisory bookkeeping; never fails the request
	c.pointers.Delete(userId.String(), kind)

	if saveRes.Saved {
		c.publishSessionEnded(ctx, userId, email, kind, saveRes, summaryText, stats.ItemsCreated)
	}

	return response, nil
}

func (c *chatService) ensureSummary(ctx context.Context, userId uuid.UUID, sessionId string, tr *transcript.Transcript, title string) (bool, string, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	exists, err := uow.SessionArtifactRepository().ExistsActive(ctx, userId, sessionId, entity.ArtifactTypeSessionSummary)
	if err != nil {
		return false, "", err
	}
	if exists {
		return false, "", nil
	}

	turns := transcriptTurns(tr)
	res, err := c.summaryGenerator.Generate(ctx, userId, sessionId, turns, map[string]interface{}{
		"title": title,
	})
	if err != nil {
		return false, "", err
	}
	if !res.Created {
		return false, "", nil
	}

	summaryText, _ := res.Artifact.Content["summary"].(string)
	return true, summaryText, nil
}

func (c *chatService) publishSessionEnded(ctx context.Context, userId uuid.UUID, email, kind string, saveRes *transcript.SaveResult, summaryText string, itemsCreated int) {
	msg := dto.SessionEndedMessage{
		UserId:       userId,
		SessionId:    saveRes.Session.SessionKey,
		Kind:         kind,
		Title:        saveRes.Session.Title,
		Summary:      summaryText,
		Email:        email,
		MessageCount: saveRes.MessageCount,
		ItemsCreated: itemsCreated,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := c.publisherService.Publish(ctx, payload); err != nil {
		c.log.Warn("chat", "Failed to publish session ended message", map[string]interface{}{
			"error":      err.Error(),
			"session_id": msg.SessionId,
		})
	}
}

func toTranscriptMessages(messages []dto.TranscriptMessage) []transcript.Message {
	out := make([]transcript.Message, len(messages))
	for i, m := range messages {
		out[i] = transcript.Message{
			Role:            m.Role,
			Content:         m.Content,
			Actions:         m.Actions,
			ClientTimestamp: m.ClientTimestamp,
		}
	}
	return out
}

func transcriptTurns(tr *transcript.Transcript) []llm.Message {
	turns := make([]llm.Message, 0, len(tr.Messages))
	for _, m := range tr.Messages {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		turns = append(turns, llm.Message{Role: m.Role, Content: content})
	}
	return turns
}

func (c *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "started_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetAllSessionsResponse, len(sessions))
	for i, s := range sessions {
		result[i] = &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Kind:      s.Kind,
			SessionId: s.SessionKey,
			Title:     s.Title,
			StartedAt: s.StartedAt,
			EndedAt:   s.EndedAt,
			CreatedAt: s.CreatedAt,
		}
	}
	return result, nil
}

func (c *chatService) GetSessionMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetSessionMessagesResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return []*dto.GetSessionMessagesResponse{}, nil
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "position", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetSessionMessagesResponse, len(messages))
	for i, m := range messages {
		result[i] = &dto.GetSessionMessagesResponse{
			Id:              m.Id,
			Role:            m.Role,
			Content:         m.Content,
			Actions:         m.Actions,
			ClientTimestamp: m.ClientTimestamp,
			Position:        m.Position,
		}
	}
	return result, nil
}

func (c *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, session.Id); err != nil {
		return err
	}
	return uow.ChatSessionRepository().Delete(ctx, session.Id)
}
