package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestEmailMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		email   EmailMessage
		missing []string
	}{
		{"complete", EmailMessage{Subject: "s", Body: "b", Sender: "a@b.c"}, nil},
		{"no subject", EmailMessage{Body: "b", Sender: "a@b.c"}, []string{"subject"}},
		{"no body", EmailMessage{Subject: "s", Sender: "a@b.c"}, []string{"body"}},
		{"no sender", EmailMessage{Subject: "s", Body: "b"}, []string{"sender"}},
		{"empty", EmailMessage{}, []string{"subject", "body", "sender"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.email.Validate()
			if len(tt.missing) == 0 {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			for _, field := range tt.missing {
				if !strings.Contains(err.Error(), field) {
					t.Errorf("error %q does not name %q", err, field)
				}
			}
		})
	}
}

func TestEnumValidation(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("category %q reported invalid", c)
		}
	}
	if Category("Chores").Valid() {
		t.Error("unknown category reported valid")
	}
	if Priority("Critical").Valid() {
		t.Error("unknown priority reported valid")
	}
	if TaskStatus("archived").Valid() {
		t.Error("unknown status reported valid")
	}
}

func TestTaskJSONShape(t *testing.T) {
	task := Task{
		ID:          "t1",
		Description: "Submit the report",
		Category:    CategoryWork,
		Priority:    PriorityHigh,
		Sender:      "boss@co",
		Status:      StatusPending,
		CreatedAt:   time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		SourceEmail: SourceEmail{Subject: "Report"},
	}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"id", "description", "category", "priority", "sender", "status", "created_at", "source_email"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("serialized task missing %q key", key)
		}
	}
	// An unset due date is omitted entirely.
	if _, ok := raw["due_date"]; ok {
		t.Error("empty due_date serialized, want omitted")
	}
}
