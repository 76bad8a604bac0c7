package core

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/mailtask/pkg/models"
)

// stubBackend returns a canned response or error.
type stubBackend struct {
	response string
	err      error
	prompts  []string
}

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func newTestEngine(backend CompletionBackend) *extractionEngine {
	e := NewExtractor(backend, nil).(*extractionEngine)
	e.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return e
}

func TestExtractTasksFromModelResponse(t *testing.T) {
	backend := &stubBackend{response: `[
		{"description": "Prepare the client presentation", "category": "Work", "priority": "Low", "due_date": "2025-12-10"},
		{"description": "Buy grocery items", "category": "Personal", "priority": "High", "due_date": ""}
	]`}
	e := newTestEngine(backend)

	tasks := e.ExtractTasks(context.Background(), "Weekly plan", "body", "boss@example.com")
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}

	first := tasks[0]
	if first.Category != models.CategoryWork {
		t.Errorf("first category = %q, want Work", first.Category)
	}
	// The classifier owns priority; the model's "Low" is overridden.
	if first.Priority != models.PriorityMedium {
		t.Errorf("first priority = %q, want Medium", first.Priority)
	}
	if first.DueDate != "2025-12-10" {
		t.Errorf("first due date = %q, want 2025-12-10", first.DueDate)
	}
	if first.Sender != "boss@example.com" {
		t.Errorf("sender = %q", first.Sender)
	}
	if first.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", first.Status)
	}
	if first.SourceEmail.Subject != "Weekly plan" {
		t.Errorf("source subject = %q", first.SourceEmail.Subject)
	}

	if tasks[1].Category != models.CategoryPersonal {
		t.Errorf("second category = %q, want Personal", tasks[1].Category)
	}
}

func TestExtractTasksParsesWrappedJSON(t *testing.T) {
	backend := &stubBackend{response: `Here are the tasks I found:
[{"description": "Review the quarterly report", "category": "Work", "priority": "Medium", "due_date": ""}]
Let me know if you need more.`}
	e := newTestEngine(backend)

	tasks := e.ExtractTasks(context.Background(), "s", "b", "a@b.c")
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
	if tasks[0].Description != "Review the quarterly report" {
		t.Errorf("description = %q", tasks[0].Description)
	}
}

func TestExtractTasksEmptyArrayIsNotFallback(t *testing.T) {
	backend := &stubBackend{response: `[]`}
	e := newTestEngine(backend)

	// Body that would produce fallback tasks if the fallback ran.
	tasks := e.ExtractTasks(context.Background(), "s", "Please review the document carefully", "a@b.c")
	if len(tasks) != 0 {
		t.Fatalf("got %d tasks, want 0 for a valid empty array", len(tasks))
	}
}

func TestExtractTasksBackendErrorFallsBack(t *testing.T) {
	backend := &stubBackend{err: errors.New("rate limited")}
	e := newTestEngine(backend)

	tasks := e.ExtractTasks(context.Background(), "s", "Please review the document carefully", "a@b.c")
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1 from fallback", len(tasks))
	}
}

func TestExtractTasksMalformedResponseFallsBack(t *testing.T) {
	backend := &stubBackend{response: "I could not find any tasks, sorry!"}
	e := newTestEngine(backend)

	tasks := e.ExtractTasks(context.Background(), "s", "Please review the document carefully", "a@b.c")
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1 from fallback", len(tasks))
	}
}

func TestExtractTasksNilBackendUsesFallback(t *testing.T) {
	e := newTestEngine(nil)

	body := "Please submit the Q4 report by December 15. Also URGENT: call the client immediately. Thanks!"
	tasks := e.ExtractTasks(context.Background(), "Report Due", body, "boss@company.com")
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2: %+v", len(tasks), tasks)
	}

	report := tasks[0]
	if !strings.Contains(report.Description, "submit the Q4 report") {
		t.Errorf("first task = %q", report.Description)
	}
	if report.Category != models.CategoryWork {
		t.Errorf("report category = %q, want Work", report.Category)
	}
	if report.DueDate != "2025-12-15" {
		t.Errorf("report due date = %q, want 2025-12-15", report.DueDate)
	}

	call := tasks[1]
	if call.Category != models.CategoryUrgent {
		t.Errorf("call category = %q, want Urgent", call.Category)
	}
	if call.Priority != models.PriorityHigh {
		t.Errorf("call priority = %q, want High", call.Priority)
	}
}

func TestFallbackSkipsShortAndVerblessSentences(t *testing.T) {
	e := newTestEngine(nil)

	body := "Hi there. The weather is lovely and nothing needs doing. Fix the printer today."
	tasks := e.ExtractTasks(context.Background(), "", body, "a@b.c")
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1: %+v", len(tasks), tasks)
	}
	if tasks[0].Description != "Fix the printer today" {
		t.Errorf("description = %q", tasks[0].Description)
	}
}

func TestFallbackExtractionDeterministic(t *testing.T) {
	e := newTestEngine(nil)

	subject := "Report Due"
	body := "Please submit the Q4 report by December 15. Also URGENT: call the client immediately. Review the backlog when possible."
	sender := "boss@company.com"

	first := e.ExtractTasks(context.Background(), subject, body, sender)
	second := e.ExtractTasks(context.Background(), subject, body, sender)

	if len(first) == 0 {
		t.Fatal("no tasks extracted")
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same input produced different task lists:\n%+v\n%+v", first, second)
	}
}

func TestFallbackCapsTaskCount(t *testing.T) {
	e := newTestEngine(nil)

	var b strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "Please review document number %d carefully. ", i)
	}
	tasks := e.ExtractTasks(context.Background(), "", b.String(), "a@b.c")
	if len(tasks) != fallbackTaskLimit {
		t.Fatalf("got %d tasks, want cap of %d", len(tasks), fallbackTaskLimit)
	}
}

func TestBuildExtractionPromptContainsEmail(t *testing.T) {
	prompt := buildExtractionPrompt("My Subject", "My Body")
	for _, want := range []string{"My Subject", "My Body", "JSON array", "due_date"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestParseModelResponse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{"bare array", `[{"description": "a"}]`, 1, false},
		{"empty array", `[]`, 0, false},
		{"prose wrapped", `sure: [{"description": "a"}] done`, 1, false},
		{"no json", `no tasks here`, 0, true},
		{"bracket but invalid", `[not json]`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := parseModelResponse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d items", len(items))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != tt.want {
				t.Errorf("got %d items, want %d", len(items), tt.want)
			}
		})
	}
}
