package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-notechat-be/internal/config"
	"ai-notechat-be/internal/constant"
	"ai-notechat-be/internal/dto"
	"ai-notechat-be/internal/entity"
	"ai-notechat-be/internal/pkg/logger"
	"ai-notechat-be/internal/repository/specification"
	"ai-notechat-be/internal/repository/unitofwork"
	"ai-notechat-be/pkg/embedding"
	"ai-notechat-be/pkg/intent"
	"ai-notechat-be/pkg/llm"
	"ai-notechat-be/pkg/resolver"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	historyCacheKeyPrefix = "conversation:history:"
	historyCacheTTL       = 10 * time.Minute
)

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	ShowConversation(ctx context.Context, id uuid.UUID) (*dto.ShowConversationResponse, error)
}

type chatService struct {
	uowFactory        unitofwork.RepositoryFactory
	sessionService    ISessionService
	llmProvider       llm.Provider
	embeddingProvider embedding.Provider
	noteResolver      *resolver.Resolver
	redisClient       *redis.Client
	chatConfig        config.ChatConfig
	log               logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	sessionService ISessionService,
	llmProvider llm.Provider,
	embeddingProvider embedding.Provider,
	noteResolver *resolver.Resolver,
	redisClient *redis.Client,
	chatConfig config.ChatConfig,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:        uowFactory,
		sessionService:    sessionService,
		llmProvider:       llmProvider,
		embeddingProvider: embeddingProvider,
		noteResolver:      noteResolver,
		redisClient:       redisClient,
		chatConfig:        chatConfig,
		log:               log,
	}
}

func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := s.ensureConversation(ctx, uow, req)
	if err != nil {
		return nil, err
	}

	// History is read before the inbound message is persisted so the model
	// never sees the question twice.
	history, err := s.loadHistory(ctx, uow, conversation.Id)
	if err != nil {
		s.log.Warn("ChatService", "failed to load history, continuing without", map[string]interface{}{
			"conversation_id": conversation.Id.String(),
			"error":           err.Error(),
		})
		history = nil
	}

	if err := s.appendMessage(ctx, uow, conversation.Id, constant.ChatMessageRoleUser, req.Message); err != nil {
		return nil, err
	}

	classification := intent.Classify(req.Message)

	var (
		answer    string
		sources   []dto.SourceNote
		sessionId *uuid.UUID
		preview   *dto.DraftPreview
		handled   bool
	)
	if classification.Kind == intent.KindEdit {
		answer, sessionId, preview, handled, err = s.handleEdit(ctx, uow, conversation.Id, classification.Description, req.Message)
		if err != nil {
			return nil, err
		}
	}
	if !handled {
		// Unresolved edit intent degrades to a plain query.
		answer, sources, err = s.handleQuery(ctx, req.Message, history, req.Mode)
		if err != nil {
			return nil, err
		}
	}

	if err := s.appendMessage(ctx, uow, conversation.Id, constant.ChatMessageRoleAssistant, answer); err != nil {
		return nil, err
	}
	s.invalidateHistory(ctx, conversation.Id)

	if req.IncludeSources != nil && !*req.IncludeSources {
		sources = nil
	}
	if sources == nil {
		sources = []dto.SourceNote{}
	}
	return &dto.ChatResponse{
		Response:       answer,
		ConversationId: conversation.Id,
		Sources:        sources,
		SessionId:      sessionId,
		Preview:        preview,
		Timestamp:      time.Now(),
	}, nil
}

func (s *chatService) ShowConversation(ctx context.Context, id uuid.UUID) (*dto.ShowConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	messages, err := uow.MessageRepository().FindByConversation(ctx, id)
	if err != nil {
		return nil, err
	}

	res := dto.ShowConversationResponse{
		Id:        conversation.Id,
		Messages:  make([]dto.ConversationMessage, len(messages)),
		CreatedAt: conversation.CreatedAt,
	}
	for i, m := range messages {
		res.Messages[i] = dto.ConversationMessage{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
	}
	return &res, nil
}

// handleQuery answers from note content. Retrieval failures degrade to a
// plain chat answer; only the model being unreachable produces the fallback.
func (s *chatService) handleQuery(ctx context.Context, message string, history []llm.Message, mode string) (string, []dto.SourceNote, error) {
	sources, noteContext := s.retrieveSources(ctx, message)

	prompt := message
	if noteContext != "" {
		prompt = fmt.Sprintf(constant.QueryContextPrompt, noteContext, message)
	}

	var opts []llm.Option
	if mode != "" {
		opts = append(opts, llm.WithMode(mode))
	}
	answer, err := s.llmProvider.Chat(ctx, prompt, history, opts...)
	if err != nil {
		s.log.Error("ChatService", "llm chat failed, returning fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return constant.ChatFallbackResponse, []dto.SourceNote{}, nil
	}
	return answer, sources, nil
}

// retrieveSources embeds the question and pulls the closest synced notes.
func (s *chatService) retrieveSources(ctx context.Context, message string) ([]dto.SourceNote, string) {
	vector, err := s.embeddingProvider.Embed(ctx, message)
	if err != nil {
		s.log.Warn("ChatService", "embedding failed, answering without sources", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, ""
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.NoteEmbeddingRepository().SearchSimilarWithScore(ctx, vector, s.chatConfig.SourcesLimit, s.chatConfig.SimilarityThreshold)
	if err != nil {
		s.log.Warn("ChatService", "similarity search failed, answering without sources", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, ""
	}
	if len(scored) == 0 {
		return nil, ""
	}

	noteIds := make([]uuid.UUID, len(scored))
	for i, sc := range scored {
		noteIds[i] = sc.Embedding.NoteId
	}
	notes, err := uow.NoteRepository().FindAll(ctx, specification.ByIDs{IDs: noteIds})
	if err != nil {
		return nil, ""
	}
	byId := make(map[uuid.UUID]*entity.Note, len(notes))
	for _, n := range notes {
		byId[n.Id] = n
	}

	var (
		sources []dto.SourceNote
		b       strings.Builder
	)
	for i, sc := range scored {
		note, ok := byId[sc.Embedding.NoteId]
		if !ok {
			continue
		}
		sources = append(sources, dto.SourceNote{
			NoteId:     note.Id,
			Title:      note.Title,
			Similarity: sc.Similarity,
		})
		fmt.Fprintf(&b, "--- NOTE %d: %s ---\n%s\n\n", i+1, note.Title, note.Content)
	}
	return sources, strings.TrimSpace(b.String())
}

// handleEdit resolves the described note and opens a full edit workflow
// session with a draft ready for review. When no note matches, it reports
// handled=false and the caller answers the message as a plain query.
func (s *chatService) handleEdit(ctx context.Context, uow unitofwork.UnitOfWork, conversationId uuid.UUID, description, message string) (string, *uuid.UUID, *dto.DraftPreview, bool, error) {
	notes, err := uow.NoteRepository().FindAll(ctx)
	if err != nil {
		return "", nil, nil, false, err
	}

	match, found := s.noteResolver.ResolveBest(description, notes)
	if !found {
		s.log.Info("ChatService", "edit intent did not resolve to a note", map[string]interface{}{
			"description": description,
		})
		return "", nil, nil, false, nil
	}

	created, err := s.sessionService.Create(ctx, &dto.CreateSessionRequest{
		SessionType:    "edit_note",
		ConversationId: &conversationId,
	})
	if err != nil {
		return "", nil, nil, false, err
	}

	if _, err := s.sessionService.StartEdit(ctx, &dto.StartEditRequest{
		Id:     created.Id,
		NoteId: match.Note.Id,
	}); err != nil {
		return "", nil, nil, false, err
	}

	processed, err := s.sessionService.ProcessEdit(ctx, &dto.ProcessEditRequest{
		Id:           created.Id,
		Instructions: message,
	})
	if err != nil {
		s.log.Error("ChatService", "edit draft generation failed", map[string]interface{}{
			"session_id": created.Id.String(),
			"error":      err.Error(),
		})
		return constant.ChatFallbackResponse, &created.Id, nil, true, nil
	}

	answer := fmt.Sprintf(constant.EditPreviewTemplate, match.Note.Title) +
		"\n\n" + processed.Preview.DraftContent
	return answer, &created.Id, &processed.Preview, true, nil
}

func (s *chatService) ensureConversation(ctx context.Context, uow unitofwork.UnitOfWork, req *dto.ChatRequest) (*entity.Conversation, error) {
	if req.ConversationId != nil {
		conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: *req.ConversationId})
		if err != nil {
			return nil, err
		}
		if conversation == nil {
			return nil, ErrConversationNotFound
		}
		return conversation, nil
	}

	conversation := entity.Conversation{
		Id:        uuid.New(),
		Title:     conversationTitle(req.Message),
		CreatedAt: time.Now(),
	}
	if err := uow.ConversationRepository().Create(ctx, &conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (s *chatService) appendMessage(ctx context.Context, uow unitofwork.UnitOfWork, conversationId uuid.UUID, role, content string) error {
	message := entity.Message{
		Id:             uuid.New(),
		ConversationId: conversationId,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	return uow.MessageRepository().Create(ctx, &message)
}

// loadHistory serves the recent window from redis when warm, falling back
// to the database and priming the cache on a miss.
func (s *chatService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, conversationId uuid.UUID) ([]llm.Message, error) {
	key := historyCacheKeyPrefix + conversationId.String()

	if s.redisClient != nil {
		if raw, err := s.redisClient.Get(ctx, key).Result(); err == nil {
			var cached []llm.Message
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	messages, err := uow.MessageRepository().FindRecent(ctx, conversationId, s.chatConfig.HistoryLimit)
	if err != nil {
		return nil, err
	}
	history := make([]llm.Message, len(messages))
	for i, m := range messages {
		history[i] = llm.Message{Role: m.Role, Content: m.Content}
	}

	if s.redisClient != nil && len(history) > 0 {
		if raw, err := json.Marshal(history); err == nil {
			s.redisClient.Set(ctx, key, raw, historyCacheTTL)
		}
	}
	return history, nil
}

func (s *chatService) invalidateHistory(ctx context.Context, conversationId uuid.UUID) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Del(ctx, historyCacheKeyPrefix+conversationId.String())
}

// conversationTitle derives a short title from the opening message.
func conversationTitle(message string) string {
	title := strings.TrimSpace(message)
	const maxLen = 80
	if runes := []rune(title); len(runes) > maxLen {
		title = string(runes[:maxLen])
	}
	if title == "" {
		title = "New conversation"
	}
	return title
}
