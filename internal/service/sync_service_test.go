package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ai-notechat-be/internal/config"
	"ai-notechat-be/internal/dto"
	"ai-notechat-be/internal/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

func testSyncConfig() config.SyncConfig {
	return config.SyncConfig{
		TopicName:          "SYNC_NOTE_EMBEDDING",
		StalenessThreshold: time.Hour,
		RetentionWindow:    30 * 24 * time.Hour,
	}
}

func TestEnqueueBulkForceQueuesEveryNote(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()
	publisher := &fakePublisher{}
	svc := NewSyncService(&fakeFactory{uow: uow}, publisher, testSyncConfig(), nopLogger{})

	first := seedNote(t, uow, "One", "alpha")
	second := seedNote(t, uow, "Two", "beta")

	res, err := svc.EnqueueBulk(ctx, &dto.SyncNotesRequest{ForceResync: true})
	if err != nil {
		t.Fatalf("EnqueueBulk: %v", err)
	}
	if res.TotalNotes != 2 || res.UnsyncedNotes != 2 {
		t.Fatalf("expected 2 notes queued, got %d/%d", res.TotalNotes, res.UnsyncedNotes)
	}
	if res.Status != entity.SyncJobStatusRunning {
		t.Fatalf("expected running, got %s", res.Status)
	}
	if len(publisher.payloads) != 2 {
		t.Fatalf("expected 2 queue payloads, got %d", len(publisher.payloads))
	}

	queued := make(map[uuid.UUID]bool)
	for _, raw := range publisher.payloads {
		var payload dto.PublishSyncNoteMessage
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if payload.JobId == nil || *payload.JobId != res.JobId {
			t.Fatalf("payload not tagged with job id: %+v", payload)
		}
		queued[payload.NoteId] = true
	}
	if !queued[first.Id] || !queued[second.Id] {
		t.Fatalf("not every note queued: %v", queued)
	}

	// A forced run cleans up retention-expired and orphaned records.
	if len(uow.embeddings.staleCalls) != 2 {
		t.Fatalf("expected retention + orphan cleanup, got %d calls", len(uow.embeddings.staleCalls))
	}
}

func TestEnqueueBulkWithNothingToDoCompletesImmediately(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()
	publisher := &fakePublisher{}
	svc := NewSyncService(&fakeFactory{uow: uow}, publisher, testSyncConfig(), nopLogger{})

	res, err := svc.EnqueueBulk(ctx, &dto.SyncNotesRequest{})
	if err != nil {
		t.Fatalf("EnqueueBulk: %v", err)
	}
	if res.UnsyncedNotes != 0 {
		t.Fatalf("expected empty job, got %d", res.UnsyncedNotes)
	}
	if res.Status != entity.SyncJobStatusCompleted {
		t.Fatalf("empty job should complete immediately, got %s", res.Status)
	}
	if len(publisher.payloads) != 0 {
		t.Fatalf("nothing should be published, got %d payloads", len(publisher.payloads))
	}
	if len(uow.embeddings.staleCalls) != 0 {
		t.Fatalf("non-forced run must not delete records, got %d cleanup calls", len(uow.embeddings.staleCalls))
	}
}

func TestSyncStatusReportsPercentageAndRecentJobs(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()
	svc := NewSyncService(&fakeFactory{uow: uow}, &fakePublisher{}, testSyncConfig(), nopLogger{})

	first := seedNote(t, uow, "One", "alpha")
	seedNote(t, uow, "Two", "beta")

	now := time.Now()
	_ = uow.embeddings.Upsert(ctx, &entity.NoteEmbedding{
		Id:       uuid.New(),
		NoteId:   first.Id,
		SyncedAt: &now,
	})
	_ = uow.syncJobs.Create(ctx, &entity.SyncJob{
		Id:         uuid.New(),
		Kind:       entity.SyncJobKindBulk,
		Status:     entity.SyncJobStatusCompleted,
		TotalNotes: 2,
		CreatedAt:  now,
	})

	res, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if res.TotalNotes != 2 || res.SyncedNotes != 1 {
		t.Fatalf("unexpected counts: %+v", res)
	}
	if res.SyncPercentage != 50.0 {
		t.Fatalf("expected 50%%, got %v", res.SyncPercentage)
	}
	if len(res.RecentJobs) != 1 {
		t.Fatalf("expected 1 recent job, got %d", len(res.RecentJobs))
	}
}

func TestConsumerSyncsNoteAndClosesBulkJob(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2, 0.3}}
	cs := &consumerService{
		topicName:         "SYNC_NOTE_EMBEDDING",
		uowFactory:        &fakeFactory{uow: uow},
		embeddingProvider: embedder,
		log:               nopLogger{},
	}

	note := seedNote(t, uow, "One", "alpha")
	jobId := uuid.New()
	_ = uow.syncJobs.Create(ctx, &entity.SyncJob{
		Id:         jobId,
		Kind:       entity.SyncJobKindBulk,
		Status:     entity.SyncJobStatusRunning,
		TotalNotes: 1,
		CreatedAt:  time.Now(),
	})

	payload, _ := json.Marshal(dto.PublishSyncNoteMessage{NoteId: note.Id, JobId: &jobId})
	msg := message.NewMessage(watermill.NewUUID(), payload)
	cs.processMessage(ctx, msg)

	record, _ := uow.embeddings.FindOne(ctx, noteIdFilter(note.Id))
	if record == nil {
		t.Fatal("sync record not written")
	}
	if record.SyncedAt == nil {
		t.Fatal("synced_at not stamped")
	}
	if len(embedder.indexed) != 1 || embedder.indexed[0].NoteId != note.Id {
		t.Fatalf("note not pushed to index: %+v", embedder.indexed)
	}

	job, _ := uow.syncJobs.FindOne(ctx, byIDSpec(jobId))
	if job.ProcessedNotes != 1 {
		t.Fatalf("job progress not tracked: %d", job.ProcessedNotes)
	}
	if job.Status != entity.SyncJobStatusCompleted {
		t.Fatalf("job should close when the last note lands, got %s", job.Status)
	}
}

func TestConsumerDropsRecordWhenNoteGone(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	cs := &consumerService{
		uowFactory:        &fakeFactory{uow: uow},
		embeddingProvider: embedder,
		log:               nopLogger{},
	}

	ghost := uuid.New()
	_ = uow.embeddings.Upsert(ctx, &entity.NoteEmbedding{Id: uuid.New(), NoteId: ghost})

	payload, _ := json.Marshal(dto.PublishSyncNoteMessage{NoteId: ghost})
	cs.processMessage(ctx, message.NewMessage(watermill.NewUUID(), payload))

	if record, _ := uow.embeddings.FindOne(ctx, noteIdFilter(ghost)); record != nil {
		t.Fatal("record for a deleted note should be dropped")
	}
	if len(embedder.indexed) != 0 {
		t.Fatal("nothing should be indexed for a deleted note")
	}
}
