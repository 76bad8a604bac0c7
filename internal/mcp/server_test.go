package mcp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/valter-silva-au/mailtask/internal/core"
	"github.com/valter-silva-au/mailtask/internal/storage"
	"github.com/valter-silva-au/mailtask/pkg/models"
)

func newTestServer(t *testing.T) (*Server, storage.TaskStore) {
	t.Helper()
	store := storage.NewTaskStore(filepath.Join(t.TempDir(), "tasks.json"))
	pipeline := core.NewIngestPipeline(core.NewExtractor(nil, nil), store, nil, nil, nil)
	return NewServer(store, pipeline, "test"), store
}

func TestListTasksTool(t *testing.T) {
	s, store := newTestServer(t)
	if _, err := store.Add(models.Task{Description: "pending work item", Category: models.CategoryWork}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Add(models.Task{Description: "done personal item", Category: models.CategoryPersonal, Status: models.StatusDone}); err != nil {
		t.Fatal(err)
	}

	result, out, err := s.handleListTasks(context.Background(), nil, listTasksInput{})
	if err != nil || result != nil {
		t.Fatalf("unexpected failure: result=%v err=%v", result, err)
	}
	if out.Count != 2 {
		t.Errorf("Count = %d, want 2", out.Count)
	}

	_, out, _ = s.handleListTasks(context.Background(), nil, listTasksInput{Status: "done"})
	if out.Count != 1 || out.Tasks[0].Description != "done personal item" {
		t.Errorf("status filter returned %+v", out.Tasks)
	}

	_, out, _ = s.handleListTasks(context.Background(), nil, listTasksInput{Category: "Work"})
	if out.Count != 1 || out.Tasks[0].Category != "Work" {
		t.Errorf("category filter returned %+v", out.Tasks)
	}
}

func TestCompleteTaskTool(t *testing.T) {
	s, store := newTestServer(t)
	if _, err := store.Add(models.Task{ID: "abc", Description: "finish me"}); err != nil {
		t.Fatal(err)
	}

	result, out, err := s.handleCompleteTask(context.Background(), nil, completeTaskInput{TaskID: "abc"})
	if err != nil || result != nil {
		t.Fatalf("unexpected failure: result=%v err=%v", result, err)
	}
	if out.Message == "" {
		t.Error("empty confirmation message")
	}

	task, _ := store.GetByID("abc")
	if task.Status != models.StatusDone {
		t.Errorf("status = %q, want done", task.Status)
	}
}

func TestCompleteTaskToolUnknownID(t *testing.T) {
	s, _ := newTestServer(t)

	result, _, err := s.handleCompleteTask(context.Background(), nil, completeTaskInput{TaskID: "ghost"})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected an error result for unknown id")
	}
}

func TestIngestEmailTool(t *testing.T) {
	s, store := newTestServer(t)

	input := ingestEmailInput{
		Subject: "Report Due",
		Body:    "Please submit the Q4 report by December 15.",
		Sender:  "boss@company.com",
	}
	result, out, err := s.handleIngestEmail(context.Background(), nil, input)
	if err != nil || result != nil {
		t.Fatalf("unexpected failure: result=%v err=%v", result, err)
	}
	if out.Extracted != 1 || len(out.Added) != 1 {
		t.Fatalf("got %+v", out)
	}

	tasks, _ := store.Load()
	if len(tasks) != 1 {
		t.Errorf("store has %d tasks, want 1", len(tasks))
	}
}

func TestIngestEmailToolRejectsIncomplete(t *testing.T) {
	s, _ := newTestServer(t)

	result, _, err := s.handleIngestEmail(context.Background(), nil, ingestEmailInput{Subject: "only"})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected an error result for incomplete email")
	}
}

func TestGetStatsTool(t *testing.T) {
	s, store := newTestServer(t)
	if _, err := store.Add(models.Task{Description: "pending work item"}); err != nil {
		t.Fatal(err)
	}

	result, stats, err := s.handleGetStats(context.Background(), nil, getStatsInput{})
	if err != nil || result != nil {
		t.Fatalf("unexpected failure: result=%v err=%v", result, err)
	}
	if stats.Total != 1 || stats.Pending != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
