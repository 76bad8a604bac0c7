package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/valter-silva-au/mailtask/internal/core"
	"github.com/valter-silva-au/mailtask/internal/observability"
	"github.com/valter-silva-au/mailtask/internal/storage"
	"github.com/valter-silva-au/mailtask/pkg/models"
)

// Handler carries the dependencies for every HTTP endpoint.
type Handler struct {
	store    storage.TaskStore
	pipeline core.IngestPipeline
	events   observability.EventLog
	logger   *zap.Logger
	version  string
}

// NewHandler creates the endpoint handler set.
func NewHandler(store storage.TaskStore, pipeline core.IngestPipeline, events observability.EventLog, logger *zap.Logger, version string) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if events == nil {
		events = observability.NopEventLog()
	}
	return &Handler{
		store:    store,
		pipeline: pipeline,
		events:   events,
		logger:   logger,
		version:  version,
	}
}

// GetTasks returns every stored task.
func (h *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.Load()
	if err != nil {
		h.logger.Error("loading tasks failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to load tasks")
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	respondJSON(w, http.StatusOK, envelope{
		"success": true,
		"tasks":   tasks,
		"count":   len(tasks),
	})
}

// CompleteTask marks the task with the given id as done.
func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	task, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("looking up task failed", zap.String("task_id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error completing task")
		return
	}
	if task == nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Task not found: %s", id))
		return
	}

	updated, err := h.store.UpdateStatus(id, models.StatusDone)
	if err != nil {
		h.logger.Error("updating task status failed", zap.String("task_id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update task status")
		return
	}
	if !updated {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Task not found: %s", id))
		return
	}

	if err := h.events.Record(observability.EventTaskCompleted, "task completed", map[string]any{"task_id": id}); err != nil {
		h.logger.Warn("recording event failed", zap.Error(err))
	}

	task.Status = models.StatusDone
	respondJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Task marked as complete",
		"task":    task,
	})
}

// IngestEmail processes an inbound email payload and stores the
// extracted tasks.
func (h *Handler) IngestEmail(w http.ResponseWriter, r *http.Request) {
	var email models.EmailMessage
	if err := json.NewDecoder(r.Body).Decode(&email); err != nil {
		respondError(w, http.StatusBadRequest, "No JSON payload provided")
		return
	}
	if err := email.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info("processing email",
		zap.String("sender", email.Sender),
		zap.String("subject", email.Subject))

	result, err := h.pipeline.Ingest(r.Context(), email)
	if err != nil {
		h.logger.Error("ingesting email failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error processing email")
		return
	}

	added := result.Added
	if added == nil {
		added = []models.Task{}
	}
	duplicates := result.Duplicates
	if duplicates == nil {
		duplicates = []string{}
	}
	respondJSON(w, http.StatusOK, envelope{
		"success":                true,
		"message":                fmt.Sprintf("Processed email and extracted %d tasks", result.Extracted),
		"added":                  len(added),
		"duplicates":             len(duplicates),
		"tasks":                  added,
		"duplicate_descriptions": duplicates,
	})
}

// GetStats returns dashboard aggregates and the most recent events.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.Load()
	if err != nil {
		h.logger.Error("loading tasks for stats failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	stats := observability.CalculateStats(tasks, time.Now().UTC().Format("2006-01-02"))

	recent, err := h.events.Read(observability.EventFilter{Limit: 20})
	if err != nil {
		h.logger.Warn("reading recent events failed", zap.Error(err))
	}
	if recent == nil {
		recent = []observability.Event{}
	}

	respondJSON(w, http.StatusOK, envelope{
		"success": true,
		"stats":   stats,
		"events":  recent,
	})
}

// Health is the liveness endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, envelope{
		"status":  "healthy",
		"service": "mailtask",
		"version": h.version,
	})
}
