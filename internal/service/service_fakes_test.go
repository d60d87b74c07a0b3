package service

import (
	"context"
	"errors"
	"sync"

	"ai-notechat-be/internal/entity"
	"ai-notechat-be/internal/repository/contract"
	"ai-notechat-be/internal/repository/specification"
	"ai-notechat-be/internal/repository/unitofwork"
	"ai-notechat-be/pkg/embedding"
	"ai-notechat-be/pkg/llm"

	"github.com/google/uuid"
)

func byIDSpec(id uuid.UUID) specification.Specification {
	return specification.ByID{ID: id}
}

func noteIdFilter(noteId uuid.UUID) specification.Specification {
	return specification.FilterBy{Field: "note_id", Value: noteId}
}

// In-memory repository fakes. They interpret the handful of specifications
// the services actually use instead of building SQL.

type fakeNoteRepo struct {
	mu    sync.Mutex
	notes map[uuid.UUID]*entity.Note
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: make(map[uuid.UUID]*entity.Note)}
}

func (r *fakeNoteRepo) Create(ctx context.Context, note *entity.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *note
	r.notes[note.Id] = &copied
	return nil
}

func (r *fakeNoteRepo) Update(ctx context.Context, note *entity.Note) error {
	return r.Create(ctx, note)
}

func (r *fakeNoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.notes, id)
	return nil
}

func (r *fakeNoteRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			if note, found := r.notes[byId.ID]; found {
				copied := *note
				return &copied, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeNoteRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var wanted map[uuid.UUID]struct{}
	for _, spec := range specs {
		if byIds, ok := spec.(specification.ByIDs); ok {
			wanted = make(map[uuid.UUID]struct{}, len(byIds.IDs))
			for _, id := range byIds.IDs {
				wanted[id] = struct{}{}
			}
		}
	}
	var out []*entity.Note
	for _, note := range r.notes {
		if wanted != nil {
			if _, ok := wanted[note.Id]; !ok {
				continue
			}
		}
		copied := *note
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeNoteRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.notes)), nil
}

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]*entity.Conversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[uuid.UUID]*entity.Conversation)}
}

func (r *fakeConversationRepo) Create(ctx context.Context, c *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *c
	r.conversations[c.Id] = &copied
	return nil
}

func (r *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			if c, found := r.conversations[byId.ID]; found {
				copied := *c
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Conversation
	for _, c := range r.conversations {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*entity.Message
}

func (r *fakeMessageRepo) Create(ctx context.Context, m *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *m
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *fakeMessageRepo) FindByConversation(ctx context.Context, conversationId uuid.UUID) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Message
	for _, m := range r.messages {
		if m.ConversationId == conversationId {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) FindRecent(ctx context.Context, conversationId uuid.UUID, limit int) ([]*entity.Message, error) {
	all, _ := r.FindByConversation(ctx, conversationId)
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (r *fakeMessageRepo) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*entity.Message
	for _, m := range r.messages {
		if m.ConversationId != conversationId {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

type fakeChatSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.ChatSession
}

func newFakeChatSessionRepo() *fakeChatSessionRepo {
	return &fakeChatSessionRepo{sessions: make(map[uuid.UUID]*entity.ChatSession)}
}

func (r *fakeChatSessionRepo) Create(ctx context.Context, s *entity.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	r.sessions[s.Id] = &copied
	return nil
}

func (r *fakeChatSessionRepo) Update(ctx context.Context, s *entity.ChatSession) error {
	return r.Create(ctx, s)
}

func (r *fakeChatSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *fakeChatSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			if s, found := r.sessions[byId.ID]; found {
				copied := *s
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeChatSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var targetNote *uuid.UUID
	nonTerminal := false
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByTargetNoteID:
			id := s.NoteID
			targetNote = &id
		case specification.NonTerminal:
			nonTerminal = true
		}
	}
	var out []*entity.ChatSession
	for _, s := range r.sessions {
		if targetNote != nil && (s.TargetNoteId == nil || *s.TargetNoteId != *targetNote) {
			continue
		}
		if nonTerminal && (s.Status == "completed" || s.Status == "cancelled") {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

type fakeEmbeddingRepo struct {
	mu         sync.Mutex
	records    map[uuid.UUID]*entity.NoteEmbedding
	scored     []*contract.ScoredNote
	staleCalls []specification.Specification
}

func newFakeEmbeddingRepo() *fakeEmbeddingRepo {
	return &fakeEmbeddingRepo{records: make(map[uuid.UUID]*entity.NoteEmbedding)}
}

func (r *fakeEmbeddingRepo) Upsert(ctx context.Context, e *entity.NoteEmbedding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *e
	r.records[e.NoteId] = &copied
	return nil
}

func (r *fakeEmbeddingRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeEmbeddingRepo) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, noteId)
	return nil
}

func (r *fakeEmbeddingRepo) DeleteStale(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.staleCalls = append(r.staleCalls, specs...)
	return 0, nil
}

func (r *fakeEmbeddingRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteEmbedding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		if filter, ok := spec.(specification.FilterBy); ok && filter.Field == "note_id" {
			if noteId, ok := filter.Value.(uuid.UUID); ok {
				if e, found := r.records[noteId]; found {
					copied := *e
					return &copied, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *fakeEmbeddingRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteEmbedding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.NoteEmbedding
	for _, e := range r.records {
		copied := *e
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeEmbeddingRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.records)), nil
}

func (r *fakeEmbeddingRepo) SearchSimilarWithScore(ctx context.Context, vec []float32, limit int, threshold float64) ([]*contract.ScoredNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scored, nil
}

type fakeSyncJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*entity.SyncJob
}

func newFakeSyncJobRepo() *fakeSyncJobRepo {
	return &fakeSyncJobRepo{jobs: make(map[uuid.UUID]*entity.SyncJob)}
}

func (r *fakeSyncJobRepo) Create(ctx context.Context, job *entity.SyncJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *job
	r.jobs[job.Id] = &copied
	return nil
}

func (r *fakeSyncJobRepo) Update(ctx context.Context, job *entity.SyncJob) error {
	return r.Create(ctx, job)
}

func (r *fakeSyncJobRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SyncJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			if job, found := r.jobs[byId.ID]; found {
				copied := *job
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeSyncJobRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SyncJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.SyncJob
	for _, job := range r.jobs {
		copied := *job
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeSyncJobRepo) IncrementProcessed(ctx context.Context, job *entity.SyncJob) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, found := r.jobs[job.Id]
	if !found {
		return 0, errors.New("job not found")
	}
	stored.ProcessedNotes++
	job.ProcessedNotes = stored.ProcessedNotes
	return stored.ProcessedNotes, nil
}

// fakeUnitOfWork glues the fakes into the unitofwork contract.

type fakeUnitOfWork struct {
	notes         *fakeNoteRepo
	conversations *fakeConversationRepo
	messages      *fakeMessageRepo
	sessions      *fakeChatSessionRepo
	embeddings    *fakeEmbeddingRepo
	syncJobs      *fakeSyncJobRepo
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		notes:         newFakeNoteRepo(),
		conversations: newFakeConversationRepo(),
		messages:      &fakeMessageRepo{},
		sessions:      newFakeChatSessionRepo(),
		embeddings:    newFakeEmbeddingRepo(),
		syncJobs:      newFakeSyncJobRepo(),
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) NoteRepository() contract.NoteRepository { return u.notes }
func (u *fakeUnitOfWork) NoteEmbeddingRepository() contract.NoteEmbeddingRepository {
	return u.embeddings
}
func (u *fakeUnitOfWork) ConversationRepository() contract.ConversationRepository {
	return u.conversations
}
func (u *fakeUnitOfWork) MessageRepository() contract.MessageRepository         { return u.messages }
func (u *fakeUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository { return u.sessions }
func (u *fakeUnitOfWork) SyncJobRepository() contract.SyncJobRepository         { return u.syncJobs }

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

// Provider fakes.

type fakeLLM struct {
	reply string
	err   error
	// prompts records what the service actually sent
	prompts []string
}

func (f *fakeLLM) Chat(ctx context.Context, message string, history []llm.Message, opts ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, message)
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, prompt, nil, opts...)
}

func (f *fakeLLM) Health(ctx context.Context) error { return f.err }

type fakeEmbedder struct {
	vector  []float32
	err     error
	indexed []embedding.IndexDocument
	removed []uuid.UUID
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vector, f.err
}

func (f *fakeEmbedder) IndexNote(ctx context.Context, doc embedding.IndexDocument) error {
	f.indexed = append(f.indexed, doc)
	return f.err
}

func (f *fakeEmbedder) RemoveNote(ctx context.Context, noteId uuid.UUID) error {
	f.removed = append(f.removed, noteId)
	return f.err
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
