package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/valter-silva-au/mailtask/pkg/models"
)

// fallbackTaskLimit caps the number of tasks the keyword heuristic may
// produce from a single email.
const fallbackTaskLimit = 5

// actionVerbs mark a sentence as actionable in fallback extraction.
var actionVerbs = []string{
	"complete", "finish", "submit", "prepare", "review", "send", "create",
	"update", "fix", "schedule", "call", "email", "meet", "discuss",
}

// CompletionBackend is the capability interface for a generative text
// model. Implementations return the raw completion for a prompt.
// A nil backend means no model is configured and the extractor runs in
// fallback mode only.
type CompletionBackend interface {
	// Name identifies the backend in logs.
	Name() string

	// Complete sends the prompt to the model and returns its raw text
	// response.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Extractor turns inbound email content into unpersisted task records.
type Extractor interface {
	ExtractTasks(ctx context.Context, subject, body, sender string) []models.Task
}

type extractionEngine struct {
	backend CompletionBackend
	logger  *zap.Logger
	now     func() time.Time
}

// NewExtractor creates an Extractor. backend may be nil, in which case
// every extraction uses the deterministic keyword fallback. logger may
// be nil.
func NewExtractor(backend CompletionBackend, logger *zap.Logger) Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &extractionEngine{
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
}

// provisionalItem is one entry of the model's JSON array before
// enrichment promotes it to a full task record.
type provisionalItem struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

// ExtractTasks asks the configured model for tasks and enriches each
// parsed item. Any backend or parse failure degrades to the fallback
// heuristic; the method never fails.
func (e *extractionEngine) ExtractTasks(ctx context.Context, subject, body, sender string) []models.Task {
	if e.backend == nil {
		return e.fallbackExtraction(subject, body, sender)
	}

	prompt := buildExtractionPrompt(subject, body)

	response, err := e.backend.Complete(ctx, prompt)
	if err != nil {
		e.logger.Warn("model extraction failed, using fallback",
			zap.String("backend", e.backend.Name()),
			zap.Error(err))
		return e.fallbackExtraction(subject, body, sender)
	}

	items, err := parseModelResponse(response)
	if err != nil {
		e.logger.Warn("unparseable model response, using fallback",
			zap.String("backend", e.backend.Name()),
			zap.Error(err))
		return e.fallbackExtraction(subject, body, sender)
	}

	tasks := make([]models.Task, 0, len(items))
	for _, item := range items {
		tasks = append(tasks, e.enrich(item, subject, sender))
	}
	return tasks
}

// buildExtractionPrompt constructs the instruction prompt sent to the
// model, enumerating the allowed categories and priorities and pinning
// the JSON-array-only output contract.
func buildExtractionPrompt(subject, body string) string {
	return fmt.Sprintf(`Extract all actionable tasks from the following email. For each task, provide:
- description: Clear description of what needs to be done
- category: One of [Work, Personal, Academic, Urgent, Low Priority]
- priority: One of [High, Medium, Low]
- due_date: Extract any mentioned dates in YYYY-MM-DD format, or null if none

Email Subject: %s

Email Body:
%s

Respond ONLY with a JSON array of tasks in this exact format:
[
  {
    "description": "task description",
    "category": "Work",
    "priority": "High",
    "due_date": "2025-12-10"
  }
]

If no actionable tasks are found, return an empty array: []
`, subject, body)
}

// parseModelResponse decodes the model's raw text into provisional
// items. Models often wrap the JSON in prose, so the first bracketed
// array substring is tried before the whole response.
func parseModelResponse(response string) ([]provisionalItem, error) {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start >= 0 && end > start {
		var items []provisionalItem
		if err := json.Unmarshal([]byte(response[start:end+1]), &items); err == nil {
			return items, nil
		}
	}

	var items []provisionalItem
	if err := json.Unmarshal([]byte(response), &items); err != nil {
		return nil, fmt.Errorf("parsing model response as JSON array: %w", err)
	}
	return items, nil
}

// enrich promotes a provisional item to a task record. The classifier
// resolves the category using the model's suggestion as a hint and then
// overrides whatever priority the model proposed. A missing due date is
// recovered from the description text.
func (e *extractionEngine) enrich(item provisionalItem, subject, sender string) models.Task {
	category := ClassifyCategory(item.Description, models.Category(item.Category))

	dueDate := item.DueDate
	if dueDate == "" {
		dueDate = extractDueDateAt(item.Description, e.now())
	}

	return models.Task{
		Description: item.Description,
		Category:    category,
		Priority:    DeterminePriority(item.Description, category),
		DueDate:     dueDate,
		Sender:      sender,
		Status:      models.StatusPending,
		SourceEmail: models.SourceEmail{
			Subject:    subject,
			ReceivedAt: e.now().UTC(),
		},
	}
}

// fallbackExtraction is the deterministic path used when no model is
// configured or the model path failed. It keeps sentences that carry an
// action verb and are longer than ten characters, in original order,
// capped at fallbackTaskLimit.
func (e *extractionEngine) fallbackExtraction(subject, body, sender string) []models.Task {
	text := subject + "\n" + body

	var tasks []models.Task
	for _, sentence := range strings.Split(text, ".") {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= 10 {
			continue
		}
		if !containsAny(strings.ToLower(sentence), actionVerbs) {
			continue
		}

		tasks = append(tasks, e.enrich(provisionalItem{Description: sentence}, subject, sender))
		if len(tasks) == fallbackTaskLimit {
			break
		}
	}
	return tasks
}
