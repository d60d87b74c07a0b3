package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-notechat-be/internal/dto"
	"ai-notechat-be/internal/entity"
	"ai-notechat-be/internal/pkg/logger"
	"ai-notechat-be/internal/repository/specification"
	"ai-notechat-be/internal/repository/unitofwork"
	"ai-notechat-be/pkg/events"
	pkgNats "ai-notechat-be/pkg/nats"
	"ai-notechat-be/pkg/workflow"

	"github.com/google/uuid"
)

type INoteService interface {
	Create(ctx context.Context, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowNoteResponse, error)
	List(ctx context.Context, req *dto.ListNotesRequest) (*dto.ListNotesResponse, error)
	Update(ctx context.Context, req *dto.UpdateNoteRequest) (*dto.UpdateNoteResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pkgNats.Publisher
	log              logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
	}
}

func (s *noteService) Create(ctx context.Context, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note := entity.Note{
		Id:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	if err := s.enqueueSync(ctx, note.Id, nil); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.NoteCreated, note.Id, note.Title)

	return &dto.CreateNoteResponse{Id: note.Id}, nil
}

func (s *noteService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	res := toShowNoteResponse(note)
	return &res, nil
}

func (s *noteService) List(ctx context.Context, req *dto.ListNotesRequest) (*dto.ListNotesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var specs []specification.Specification
	if req.Search != "" {
		specs = append(specs, specification.SearchQuery{Query: req.Search})
	}

	total, err := uow.NoteRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	specs = append(specs, specification.OrderBy{Field: "created_at", Desc: true})
	if req.Limit > 0 {
		offset := 0
		if req.Page > 1 {
			offset = (req.Page - 1) * req.Limit
		}
		specs = append(specs, specification.Pagination{Limit: req.Limit, Offset: offset})
	}

	notes, err := uow.NoteRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := dto.ListNotesResponse{
		Notes: make([]dto.ShowNoteResponse, len(notes)),
		Total: total,
	}
	for i, note := range notes {
		res.Notes[i] = toShowNoteResponse(note)
	}
	return &res, nil
}

func (s *noteService) Update(ctx context.Context, req *dto.UpdateNoteRequest) (*dto.UpdateNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	note.Title = req.Title
	note.Content = req.Content
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	if err := s.enqueueSync(ctx, note.Id, nil); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.NoteUpdated, note.Id, note.Title)

	return &dto.UpdateNoteResponse{Id: note.Id}, nil
}

// Delete removes the note and everything hanging off it: non-terminal edit
// sessions targeting it are cancelled and its sync record is dropped. Index
// removal happens asynchronously off the NOTE_DELETED event.
func (s *noteService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if note == nil {
		return ErrNoteNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.ByTargetNoteID{NoteID: id},
		specification.NonTerminal{},
	)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, session := range sessions {
		session.Status = workflow.StatusCancelled
		session.CompletedAt = &now
		if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
			return err
		}
	}

	if err := uow.NoteEmbeddingRepository().DeleteByNoteId(ctx, id); err != nil {
		return err
	}
	if err := uow.NoteRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.publishEvent(ctx, events.NoteDeleted, id, note.Title)
	return nil
}

func (s *noteService) enqueueSync(ctx context.Context, noteId uuid.UUID, jobId *uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishSyncNoteMessage{NoteId: noteId, JobId: jobId})
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payload)
}

// publishEvent emits a lifecycle event. Event delivery is auxiliary, a bus
// failure never fails the request.
func (s *noteService) publishEvent(ctx context.Context, eventType string, noteId uuid.UUID, title string) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewNoteEvent(eventType, noteId, title)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("NoteService", "failed to publish note event", map[string]interface{}{
			"event_type": eventType,
			"note_id":    noteId.String(),
			"error":      err.Error(),
		})
	}
}

func toShowNoteResponse(note *entity.Note) dto.ShowNoteResponse {
	return dto.ShowNoteResponse{
		Id:        note.Id,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
