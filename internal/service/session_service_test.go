package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-notechat-be/internal/dto"
	"ai-notechat-be/internal/entity"
	"ai-notechat-be/internal/pkg/serverutils"
	"ai-notechat-be/internal/repository/memory"
	"ai-notechat-be/pkg/workflow"

	"github.com/google/uuid"
)

func newSessionServiceForTest(uow *fakeUnitOfWork, model *fakeLLM, publisher *fakePublisher) ISessionService {
	return NewSessionService(
		&fakeFactory{uow: uow},
		memory.NewSessionLockRegistry(),
		model,
		publisher,
		nil,
		nopLogger{},
	)
}

func seedNote(t *testing.T, uow *fakeUnitOfWork, title, content string) *entity.Note {
	t.Helper()
	note := &entity.Note{
		Id:        uuid.New(),
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := uow.notes.Create(context.Background(), note); err != nil {
		t.Fatalf("seed note: %v", err)
	}
	return note
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()
	model := &fakeLLM{reply: "rewritten content"}
	publisher := &fakePublisher{}
	svc := newSessionServiceForTest(uow, model, publisher)

	note := seedNote(t, uow, "React Hooks", "useState and useEffect")

	created, err := svc.Create(ctx, &dto.CreateSessionRequest{SessionType: "edit_note"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != string(workflow.StatusActive) {
		t.Fatalf("expected active, got %s", created.Status)
	}

	started, err := svc.StartEdit(ctx, &dto.StartEditRequest{Id: created.Id, NoteId: note.Id})
	if err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	if started.Session.Status != string(workflow.StatusEditing) {
		t.Fatalf("expected editing, got %s", started.Session.Status)
	}
	if started.TargetNote.Id != note.Id {
		t.Fatalf("unexpected target note: %s", started.TargetNote.Id)
	}

	stored, _ := uow.sessions.FindOne(ctx, byIDSpec(created.Id))
	if stored.OriginalContent == nil || *stored.OriginalContent != note.Content {
		t.Fatalf("expected snapshot of original content, got %v", stored.OriginalContent)
	}

	processed, err := svc.ProcessEdit(ctx, &dto.ProcessEditRequest{Id: created.Id, Instructions: "mention useMemo"})
	if err != nil {
		t.Fatalf("ProcessEdit: %v", err)
	}
	if processed.Status != string(workflow.StatusPendingApproval) {
		t.Fatalf("expected pending_approval, got %s", processed.Status)
	}

	pending, _ := uow.sessions.FindOne(ctx, byIDSpec(created.Id))
	if pending.CompletedAt != nil {
		t.Fatalf("completed_at must stay unset outside terminal states, got %v", pending.CompletedAt)
	}
	if processed.Preview.DraftContent != "rewritten content" {
		t.Fatalf("unexpected draft: %q", processed.Preview.DraftContent)
	}
	if processed.Preview.OriginalContent != note.Content {
		t.Fatalf("unexpected preview original: %q", processed.Preview.OriginalContent)
	}

	applied, err := svc.ApplyChanges(ctx, created.Id)
	if err != nil {
		t.Fatalf("ApplyChanges: %v", err)
	}
	if applied.Session.Status != string(workflow.StatusCompleted) {
		t.Fatalf("expected completed, got %s", applied.Session.Status)
	}
	if applied.Session.CompletedAt == nil {
		t.Fatal("completed_at must be set on entering completed")
	}
	if applied.UpdatedNote.Content != "rewritten content" {
		t.Fatalf("updated note not returned: %q", applied.UpdatedNote.Content)
	}

	updatedNote, _ := uow.notes.FindOne(ctx, byIDSpec(note.Id))
	if updatedNote.Content != "rewritten content" {
		t.Fatalf("note content not applied: %q", updatedNote.Content)
	}
	if len(publisher.payloads) == 0 {
		t.Fatal("expected a sync task after apply")
	}

	// Terminal sessions accept no further transitions.
	if _, err := svc.ApplyChanges(ctx, created.Id); err == nil {
		t.Fatal("expected error applying a completed session")
	} else {
		var transitionErr *workflow.InvalidTransitionError
		if !errors.As(err, &transitionErr) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
	}
}

func TestCancelDiscardsDraft(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()
	model := &fakeLLM{reply: "a draft nobody wanted"}
	svc := newSessionServiceForTest(uow, model, &fakePublisher{})

	note := seedNote(t, uow, "Groceries", "milk, eggs")

	created, err := svc.Create(ctx, &dto.CreateSessionRequest{SessionType: "edit_note"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.StartEdit(ctx, &dto.StartEditRequest{Id: created.Id, NoteId: note.Id}); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	if _, err := svc.ProcessEdit(ctx, &dto.ProcessEditRequest{Id: created.Id, Instructions: "add bread"}); err != nil {
		t.Fatalf("ProcessEdit: %v", err)
	}

	cancelled, err := svc.Cancel(ctx, created.Id)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != string(workflow.StatusCancelled) {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if cancelled.CompletedAt == nil {
		t.Fatal("completed_at must be set on entering cancelled")
	}
	if cancelled.DraftContent != nil {
		t.Fatalf("expected draft discarded, got %q", *cancelled.DraftContent)
	}

	untouched, _ := uow.notes.FindOne(ctx, byIDSpec(note.Id))
	if untouched.Content != "milk, eggs" {
		t.Fatalf("note should be untouched after cancel, got %q", untouched.Content)
	}
}

func TestProcessEditWithProposedContent(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()
	model := &fakeLLM{reply: "should not be asked"}
	svc := newSessionServiceForTest(uow, model, &fakePublisher{})

	note := seedNote(t, uow, "React Hooks", "useState basics")

	created, _ := svc.Create(ctx, &dto.CreateSessionRequest{SessionType: "edit_note"})
	if _, err := svc.StartEdit(ctx, &dto.StartEditRequest{Id: created.Id, NoteId: note.Id}); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}

	processed, err := svc.ProcessEdit(ctx, &dto.ProcessEditRequest{
		Id:              created.Id,
		ProposedContent: "useState and useEffect basics",
	})
	if err != nil {
		t.Fatalf("ProcessEdit: %v", err)
	}
	if processed.Preview.DraftContent != "useState and useEffect basics" {
		t.Fatalf("explicit proposal not stored: %q", processed.Preview.DraftContent)
	}
	if len(model.prompts) != 0 {
		t.Fatalf("model should not be consulted for an explicit proposal: %v", model.prompts)
	}

	if _, err := svc.ApplyChanges(ctx, created.Id); err != nil {
		t.Fatalf("ApplyChanges: %v", err)
	}
	updated, _ := uow.notes.FindOne(ctx, byIDSpec(note.Id))
	if updated.Content != "useState and useEffect basics" {
		t.Fatalf("note content not applied: %q", updated.Content)
	}
}

func TestProcessEditRequiresAtLeastOneField(t *testing.T) {
	svc := newSessionServiceForTest(newFakeUnitOfWork(), &fakeLLM{}, &fakePublisher{})
	_, err := svc.ProcessEdit(context.Background(), &dto.ProcessEditRequest{Id: uuid.New()})
	if !errors.Is(err, ErrEmptyEdit) {
		t.Fatalf("expected ErrEmptyEdit, got %v", err)
	}
}

func TestInstructionsAccumulateAcrossSteps(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()
	svc := newSessionServiceForTest(uow, &fakeLLM{reply: "shorter, with useMemo"}, &fakePublisher{})

	note := seedNote(t, uow, "React Hooks", "useState and useEffect")

	created, _ := svc.Create(ctx, &dto.CreateSessionRequest{SessionType: "edit_note"})
	if _, err := svc.StartEdit(ctx, &dto.StartEditRequest{
		Id:           created.Id,
		NoteId:       note.Id,
		Instructions: "make it shorter",
	}); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	if _, err := svc.ProcessEdit(ctx, &dto.ProcessEditRequest{
		Id:           created.Id,
		Instructions: "mention useMemo",
	}); err != nil {
		t.Fatalf("ProcessEdit: %v", err)
	}

	stored, _ := uow.sessions.FindOne(ctx, byIDSpec(created.Id))
	if stored.EditInstructions != "make it shorter\n\nmention useMemo" {
		t.Fatalf("instructions not accumulated: %q", stored.EditInstructions)
	}
}

func TestProcessEditFailureKeepsSessionEditing(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()
	model := &fakeLLM{err: errors.New("backend down")}
	svc := newSessionServiceForTest(uow, model, &fakePublisher{})

	note := seedNote(t, uow, "Ideas", "something")

	created, _ := svc.Create(ctx, &dto.CreateSessionRequest{SessionType: "edit_note"})
	if _, err := svc.StartEdit(ctx, &dto.StartEditRequest{Id: created.Id, NoteId: note.Id}); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}

	if _, err := svc.ProcessEdit(ctx, &dto.ProcessEditRequest{Id: created.Id, Instructions: "expand"}); err == nil {
		t.Fatal("expected error from failed generation")
	}

	stored, _ := uow.sessions.FindOne(ctx, byIDSpec(created.Id))
	if stored.Status != workflow.StatusEditing {
		t.Fatalf("session should stay editing for retry, got %s", stored.Status)
	}
}

func TestStartEditUnknownNote(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()
	svc := newSessionServiceForTest(uow, &fakeLLM{}, &fakePublisher{})

	created, _ := svc.Create(ctx, &dto.CreateSessionRequest{SessionType: "edit_note"})
	_, err := svc.StartEdit(ctx, &dto.StartEditRequest{Id: created.Id, NoteId: uuid.New()})
	if !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestCreateDefaultsSessionType(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()
	svc := newSessionServiceForTest(uow, &fakeLLM{}, &fakePublisher{})

	if err := serverutils.ValidateRequest(dto.CreateSessionRequest{}); err != nil {
		t.Fatalf("empty create request must pass validation: %v", err)
	}

	created, err := svc.Create(ctx, &dto.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stored, _ := uow.sessions.FindOne(ctx, byIDSpec(created.Id))
	if stored.SessionType != workflow.TypeQuery {
		t.Fatalf("expected default query type, got %s", stored.SessionType)
	}
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := newSessionServiceForTest(newFakeUnitOfWork(), &fakeLLM{}, &fakePublisher{})
	if _, err := svc.Create(context.Background(), &dto.CreateSessionRequest{SessionType: "banana"}); err == nil {
		t.Fatal("expected error for unknown session type")
	}
}
