package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-notechat-be/internal/constant"
	"ai-notechat-be/internal/dto"
	"ai-notechat-be/internal/entity"
	"ai-notechat-be/internal/pkg/logger"
	"ai-notechat-be/internal/repository/memory"
	"ai-notechat-be/internal/repository/specification"
	"ai-notechat-be/internal/repository/unitofwork"
	"ai-notechat-be/pkg/events"
	"ai-notechat-be/pkg/llm"
	pkgNats "ai-notechat-be/pkg/nats"
	"ai-notechat-be/pkg/workflow"

	"github.com/google/uuid"
)

type ISessionService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowSessionResponse, error)
	StartEdit(ctx context.Context, req *dto.StartEditRequest) (*dto.StartEditResponse, error)
	ProcessEdit(ctx context.Context, req *dto.ProcessEditRequest) (*dto.ProcessEditResponse, error)
	ApplyChanges(ctx context.Context, id uuid.UUID) (*dto.ApplyChangesResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*dto.ShowSessionResponse, error)
}

type sessionService struct {
	uowFactory       unitofwork.RepositoryFactory
	locks            *memory.SessionLockRegistry
	llmProvider      llm.Provider
	publisherService IPublisherService
	eventPublisher   *pkgNats.Publisher
	log              logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	locks *memory.SessionLockRegistry,
	llmProvider llm.Provider,
	publisherService IPublisherService,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:       uowFactory,
		locks:            locks,
		llmProvider:      llmProvider,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
	}
}

func (s *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	sessionType := workflow.SessionType(req.SessionType)
	if req.SessionType == "" {
		sessionType = workflow.TypeQuery
	}
	if !workflow.ValidSessionType(sessionType) {
		return nil, fmt.Errorf("invalid session type: %q", req.SessionType)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if req.ConversationId != nil {
		conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: *req.ConversationId})
		if err != nil {
			return nil, err
		}
		if conversation == nil {
			return nil, ErrConversationNotFound
		}
	}

	session := entity.ChatSession{
		Id:             uuid.New(),
		SessionType:    sessionType,
		Status:         workflow.StatusActive,
		ConversationId: req.ConversationId,
		StartedAt:      time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{
		Id:     session.Id,
		Status: string(session.Status),
	}, nil
}

func (s *sessionService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	res := toShowSessionResponse(session)
	return &res, nil
}

// StartEdit binds the session to its target note and snapshots the content
// the draft will be diffed against. The snapshot is taken exactly once.
func (s *sessionService) StartEdit(ctx context.Context, req *dto.StartEditRequest) (*dto.StartEditResponse, error) {
	lock := s.locks.Acquire(req.Id)
	lock.Lock()
	defer lock.Unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if err := workflow.ValidateTransition(session.Status, workflow.StatusEditing); err != nil {
		return nil, err
	}

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: req.NoteId})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	session.Status = workflow.StatusEditing
	session.TargetNoteId = &note.Id
	if session.OriginalContent == nil {
		snapshot := note.Content
		session.OriginalContent = &snapshot
	}
	session.EditInstructions = appendInstructions(session.EditInstructions, req.Instructions)
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	return &dto.StartEditResponse{
		Session:    toShowSessionResponse(session),
		TargetNote: toShowNoteResponse(note),
	}, nil
}

// ProcessEdit parks a proposed change as the session draft. Explicit
// proposals are stored as-is; with only instructions the model rewrites the
// note. The note itself is untouched until ApplyChanges.
func (s *sessionService) ProcessEdit(ctx context.Context, req *dto.ProcessEditRequest) (*dto.ProcessEditResponse, error) {
	if req.Instructions == "" && req.ProposedTitle == "" && req.ProposedContent == "" {
		return nil, ErrEmptyEdit
	}

	lock := s.locks.Acquire(req.Id)
	lock.Lock()
	defer lock.Unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if err := workflow.ValidateTransition(session.Status, workflow.StatusPendingApproval); err != nil {
		return nil, err
	}
	if session.TargetNoteId == nil {
		return nil, fmt.Errorf("session %s has no target note", session.Id)
	}

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: *session.TargetNoteId})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	instructions := appendInstructions(session.EditInstructions, req.Instructions)

	draftTitle := session.DraftTitle
	if req.ProposedTitle != "" {
		proposed := req.ProposedTitle
		draftTitle = &proposed
	}

	var draftContent *string
	switch {
	case req.ProposedContent != "":
		proposed := req.ProposedContent
		draftContent = &proposed
	case req.Instructions != "":
		prompt := fmt.Sprintf(constant.EditRewritePrompt, note.Title, note.Content, instructions)
		generated, err := s.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.2))
		if err != nil {
			// Generation failed, the session stays in editing for a retry.
			return nil, err
		}
		draftContent = &generated
	default:
		// Title-only proposal keeps any prior content draft.
		draftContent = session.DraftContent
	}

	session.Status = workflow.StatusPendingApproval
	session.DraftTitle = draftTitle
	session.DraftContent = draftContent
	session.EditInstructions = instructions
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	original := ""
	if session.OriginalContent != nil {
		original = *session.OriginalContent
	}
	proposedContent := original
	if draftContent != nil {
		proposedContent = *draftContent
	}
	return &dto.ProcessEditResponse{
		Id:     session.Id,
		Status: string(session.Status),
		Preview: dto.DraftPreview{
			NoteId:          note.Id,
			Title:           note.Title,
			DraftTitle:      draftTitle,
			OriginalContent: original,
			DraftContent:    proposedContent,
		},
	}, nil
}

// ApplyChanges commits the draft to the note and closes the session. The
// note write and the session close happen in one transaction.
func (s *sessionService) ApplyChanges(ctx context.Context, id uuid.UUID) (*dto.ApplyChangesResponse, error) {
	lock := s.locks.Acquire(id)
	lock.Lock()
	defer lock.Unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if err := workflow.ValidateTransition(session.Status, workflow.StatusCompleted); err != nil {
		return nil, err
	}
	if !session.HasDraftChanges() {
		return nil, ErrNoDraft
	}
	if session.TargetNoteId == nil {
		return nil, fmt.Errorf("session %s has no target note", session.Id)
	}

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: *session.TargetNoteId})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	if session.DraftTitle != nil && *session.DraftTitle != "" {
		note.Title = *session.DraftTitle
	}
	if session.DraftContent != nil && *session.DraftContent != "" {
		note.Content = *session.DraftContent
	}

	now := time.Now()
	session.Status = workflow.StatusCompleted
	session.CompletedAt = &now

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.locks.Release(id)

	if err := s.enqueueSync(ctx, note.Id); err != nil {
		s.log.Warn("SessionService", "failed to enqueue sync after apply", map[string]interface{}{
			"note_id": note.Id.String(),
			"error":   err.Error(),
		})
	}
	if s.eventPublisher != nil {
		evt := events.NewNoteEvent(events.NoteUpdated, note.Id, note.Title)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("SessionService", "failed to publish note event", map[string]interface{}{
				"note_id": note.Id.String(),
				"error":   err.Error(),
			})
		}
	}

	return &dto.ApplyChangesResponse{
		Session:     toShowSessionResponse(session),
		UpdatedNote: toShowNoteResponse(note),
	}, nil
}

// Cancel aborts the workflow from any non-terminal state. The draft is
// discarded and the note is left exactly as it was.
func (s *sessionService) Cancel(ctx context.Context, id uuid.UUID) (*dto.ShowSessionResponse, error) {
	lock := s.locks.Acquire(id)
	lock.Lock()
	defer lock.Unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if err := workflow.ValidateTransition(session.Status, workflow.StatusCancelled); err != nil {
		return nil, err
	}

	now := time.Now()
	session.Status = workflow.StatusCancelled
	session.CompletedAt = &now
	session.DraftTitle = nil
	session.DraftContent = nil
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	s.locks.Release(id)

	res := toShowSessionResponse(session)
	return &res, nil
}

// appendInstructions accumulates instruction text across calls, separated
// by a blank line.
func appendInstructions(existing, incoming string) string {
	if incoming == "" {
		return existing
	}
	if existing == "" {
		return incoming
	}
	return existing + "\n\n" + incoming
}

func (s *sessionService) enqueueSync(ctx context.Context, noteId uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishSyncNoteMessage{NoteId: noteId})
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payload)
}

func toShowSessionResponse(session *entity.ChatSession) dto.ShowSessionResponse {
	return dto.ShowSessionResponse{
		Id:             session.Id,
		SessionType:    string(session.SessionType),
		Status:         string(session.Status),
		ConversationId: session.ConversationId,
		TargetNoteId:   session.TargetNoteId,
		DraftTitle:     session.DraftTitle,
		DraftContent:   session.DraftContent,
		StartedAt:      session.StartedAt,
		CompletedAt:    session.CompletedAt,
	}
}
