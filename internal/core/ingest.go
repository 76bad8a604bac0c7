package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/valter-silva-au/mailtask/internal/observability"
	"github.com/valter-silva-au/mailtask/pkg/models"
)

// TaskWriter is the slice of the task store the ingestion pipeline
// needs: insert-with-duplicate-check.
type TaskWriter interface {
	Add(task models.Task) (bool, error)
}

// IngestResult summarizes one processed email.
type IngestResult struct {
	Extracted  int
	Added      []models.Task
	Duplicates []string // descriptions of rejected duplicates
}

// IngestPipeline runs extraction and persistence for one inbound email.
type IngestPipeline interface {
	Ingest(ctx context.Context, email models.EmailMessage) (*IngestResult, error)
}

type ingestPipeline struct {
	extractor Extractor
	store     TaskWriter
	events    observability.EventLog
	notifier  observability.Notifier
	logger    *zap.Logger
}

// NewIngestPipeline wires the extractor and store into a pipeline.
// events, notifier, and logger may be nil.
func NewIngestPipeline(extractor Extractor, store TaskWriter, events observability.EventLog, notifier observability.Notifier, logger *zap.Logger) IngestPipeline {
	if events == nil {
		events = observability.NopEventLog()
	}
	if notifier == nil {
		notifier = observability.NewSlackNotifier("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ingestPipeline{
		extractor: extractor,
		store:     store,
		events:    events,
		notifier:  notifier,
		logger:    logger,
	}
}

// Ingest extracts tasks from the email and adds each one to the store.
// Duplicates are a normal outcome and collected, not errors. A failed
// store write is the one condition surfaced to the caller.
func (p *ingestPipeline) Ingest(ctx context.Context, email models.EmailMessage) (*IngestResult, error) {
	p.recordEvent(observability.EventEmailIngested, "email received", map[string]any{
		"sender":  email.Sender,
		"subject": email.Subject,
	})

	tasks := p.extractor.ExtractTasks(ctx, email.Subject, email.Body, email.Sender)

	result := &IngestResult{Extracted: len(tasks)}
	for _, task := range tasks {
		// Assign bookkeeping fields up front so the caller sees the
		// stored identity of every added task.
		if task.ID == "" {
			task.ID = uuid.NewString()
		}
		if task.CreatedAt.IsZero() {
			task.CreatedAt = time.Now().UTC()
		}

		added, err := p.store.Add(task)
		if err != nil {
			return nil, fmt.Errorf("ingesting email from %s: %w", email.Sender, err)
		}

		if !added {
			result.Duplicates = append(result.Duplicates, task.Description)
			p.recordEvent(observability.EventTaskDuplicate, "duplicate task rejected", map[string]any{
				"description": task.Description,
			})
			continue
		}

		result.Added = append(result.Added, task)
		p.recordEvent(observability.EventTaskCreated, "task created", map[string]any{
			"task_id":  task.ID,
			"category": string(task.Category),
			"priority": string(task.Priority),
		})

		if task.Category == models.CategoryUrgent {
			if err := p.notifier.NotifyUrgent(task); err != nil {
				p.logger.Warn("urgent task notification failed", zap.Error(err))
			}
		}
	}
	return result, nil
}

func (p *ingestPipeline) recordEvent(eventType, message string, data map[string]any) {
	if err := p.events.Record(eventType, message, data); err != nil {
		p.logger.Warn("recording event failed", zap.String("type", eventType), zap.Error(err))
	}
}
