package observability

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/valter-silva-au/mailtask/pkg/models"
)

func TestSlackNotifierPostsMessage(t *testing.T) {
	var received slackMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL)
	task := models.Task{
		Description: "Call the client",
		Sender:      "boss@co",
		DueDate:     "2025-06-16",
	}
	if err := n.NotifyUrgent(task); err != nil {
		t.Fatalf("NotifyUrgent: %v", err)
	}

	for _, want := range []string{"Call the client", "boss@co", "2025-06-16"} {
		if !strings.Contains(received.Text, want) {
			t.Errorf("message %q missing %q", received.Text, want)
		}
	}
}

func TestSlackNotifierNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL)
	if err := n.NotifyUrgent(models.Task{Description: "x"}); err == nil {
		t.Fatal("expected error for non-200 webhook response")
	}
}

func TestEmptyWebhookIsNoop(t *testing.T) {
	n := NewSlackNotifier("")
	if err := n.NotifyUrgent(models.Task{Description: "x"}); err != nil {
		t.Fatalf("nop notifier returned error: %v", err)
	}
}
