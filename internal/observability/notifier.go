package observability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/valter-silva-au/mailtask/pkg/models"
)

// Notifier announces newly created urgent tasks to an external channel.
type Notifier interface {
	NotifyUrgent(task models.Task) error
}

// slackNotifier posts urgent-task notifications to a Slack webhook.
type slackNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewSlackNotifier creates a Notifier that posts to the given Slack
// webhook URL. An empty URL yields a notifier that does nothing.
func NewSlackNotifier(webhookURL string) Notifier {
	if webhookURL == "" {
		return nopNotifier{}
	}
	return &slackNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type slackMessage struct {
	Text string `json:"text"`
}

func (s *slackNotifier) NotifyUrgent(task models.Task) error {
	text := fmt.Sprintf(":rotating_light: Urgent task from %s: %s", task.Sender, task.Description)
	if task.DueDate != "" {
		text += fmt.Sprintf(" (due %s)", task.DueDate)
	}

	body, err := json.Marshal(slackMessage{Text: text})
	if err != nil {
		return fmt.Errorf("marshalling slack message: %w", err)
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting to slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}

type nopNotifier struct{}

func (nopNotifier) NotifyUrgent(models.Task) error { return nil }
