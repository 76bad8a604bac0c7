package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestLog(t *testing.T) (EventLog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("NewJSONLEventLog: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log, path
}

func TestRecordAndRead(t *testing.T) {
	log, _ := newTestLog(t)

	if err := log.Record(EventTaskCreated, "task created", map[string]any{"task_id": "t1"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := log.Record(EventTaskDuplicate, "duplicate rejected", nil); err != nil {
		t.Fatalf("Record: %v", err)
	}

	events, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Type != EventTaskCreated || events[1].Type != EventTaskDuplicate {
		t.Errorf("event order wrong: %+v", events)
	}
	if events[0].Data["task_id"] != "t1" {
		t.Errorf("data = %v", events[0].Data)
	}
	if events[0].Time.IsZero() {
		t.Error("event has no timestamp")
	}
}

func TestReadFiltersByType(t *testing.T) {
	log, _ := newTestLog(t)
	for i := 0; i < 3; i++ {
		_ = log.Record(EventTaskCreated, "created", nil)
	}
	_ = log.Record(EventEmailIngested, "ingested", nil)

	events, err := log.Read(EventFilter{Type: EventTaskCreated})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for _, e := range events {
		if e.Type != EventTaskCreated {
			t.Errorf("unexpected type %q", e.Type)
		}
	}
}

func TestReadLimitKeepsNewest(t *testing.T) {
	log, _ := newTestLog(t)
	for _, msg := range []string{"one", "two", "three", "four"} {
		_ = log.Record(EventTaskCreated, msg, nil)
	}

	events, err := log.Read(EventFilter{Limit: 2})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Message != "three" || events[1].Message != "four" {
		t.Errorf("limit kept wrong events: %+v", events)
	}
}

func TestReadSkipsMalformedLines(t *testing.T) {
	log, path := newTestLog(t)
	_ = log.Record(EventTaskCreated, "good", nil)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("not json\n\n"); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()
	_ = log.Record(EventTaskCompleted, "also good", nil)

	events, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want the 2 well-formed ones", len(events))
	}
}

func TestReadSinceFilter(t *testing.T) {
	log, _ := newTestLog(t)
	_ = log.Record(EventTaskCreated, "old", nil)

	cutoff := time.Now().UTC().Add(time.Hour)
	events, err := log.Read(EventFilter{Since: &cutoff})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events after future cutoff, want 0", len(events))
	}
}

func TestReadMissingFile(t *testing.T) {
	log := &jsonlEventLog{path: filepath.Join(t.TempDir(), "absent.jsonl")}

	events, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events from missing file", len(events))
	}
}

func TestNopEventLog(t *testing.T) {
	log := NopEventLog()
	if err := log.Record(EventTaskCreated, "ignored", nil); err != nil {
		t.Fatalf("Record: %v", err)
	}
	events, err := log.Read(EventFilter{})
	if err != nil || len(events) != 0 {
		t.Errorf("nop log returned %d events, err %v", len(events), err)
	}
	if err := log.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
