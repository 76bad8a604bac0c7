// Package storage persists task records in a single flat JSON document
// with a one-generation backup copy for crash recovery.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/valter-silva-au/mailtask/internal/core"
	"github.com/valter-silva-au/mailtask/pkg/models"
)

// TaskStore defines the interface for the task collection. It is the
// only component that touches the store document on disk.
type TaskStore interface {
	// Load returns every stored task. A missing file initializes an
	// empty store; a corrupt file is recovered once from the backup and
	// degrades to an empty list if that also fails.
	Load() ([]models.Task, error)

	// Add inserts the task unless an existing task's description
	// normalizes to the same string. It returns false for duplicates.
	Add(task models.Task) (bool, error)

	// GetByID returns the task with the given id, or nil when absent.
	GetByID(id string) (*models.Task, error)

	// UpdateStatus sets the status of the task with the given id and
	// persists the collection. It returns false when the id is unknown.
	UpdateStatus(id string, status models.TaskStatus) (bool, error)

	// SaveAll replaces the whole collection. Used by maintenance
	// commands; normal ingestion goes through Add.
	SaveAll(tasks []models.Task) error

	// Path returns the store document location.
	Path() string
}

// taskFile is the on-disk layout of the store document.
type taskFile struct {
	Tasks    []models.Task `json:"tasks"`
	Metadata storeMetadata `json:"metadata"`
}

type storeMetadata struct {
	LastUpdated time.Time `json:"last_updated"`
	TotalTasks  int       `json:"total_tasks"`
}

type fileTaskStore struct {
	path       string
	backupPath string
	now        func() time.Time
}

// NewTaskStore creates a TaskStore backed by the JSON document at path.
// The backup lives at a fixed sibling path (path + ".backup").
func NewTaskStore(path string) TaskStore {
	return &fileTaskStore{
		path:       path,
		backupPath: path + ".backup",
		now:        time.Now,
	}
}

func (s *fileTaskStore) Path() string { return s.path }

// lock serializes a load-mutate-persist cycle on the store document.
func (s *fileTaskStore) lock() (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return lockFile(s.path + ".lock")
}

// Load reads and parses the store document. Read-path failures degrade
// to an empty task list rather than propagating.
func (s *fileTaskStore) Load() ([]models.Task, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		if err := s.initialize(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store file: %w", err)
	}

	var doc taskFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return s.recoverFromBackup()
	}
	return doc.Tasks, nil
}

// recoverFromBackup restores the primary document from the backup copy
// and retries the parse once. A missing or equally corrupt backup means
// the store degrades to empty.
func (s *fileTaskStore) recoverFromBackup() ([]models.Task, error) {
	backup, err := os.ReadFile(s.backupPath)
	if err != nil {
		return nil, nil
	}

	var doc taskFile
	if err := json.Unmarshal(backup, &doc); err != nil {
		return nil, nil
	}

	if err := os.WriteFile(s.path, backup, 0o644); err != nil {
		return nil, fmt.Errorf("restoring store from backup: %w", err)
	}
	return doc.Tasks, nil
}

func (s *fileTaskStore) Add(task models.Task) (bool, error) {
	unlock, err := s.lock()
	if err != nil {
		return false, fmt.Errorf("adding task: %w", err)
	}
	defer unlock()

	tasks, err := s.Load()
	if err != nil {
		return false, fmt.Errorf("adding task: %w", err)
	}

	normalized := core.Normalize(task.Description)
	for _, existing := range tasks {
		if core.Normalize(existing.Description) == normalized {
			return false, nil
		}
	}

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = s.now().UTC()
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}

	if err := s.persist(append(tasks, task)); err != nil {
		return false, fmt.Errorf("adding task: %w", err)
	}
	return true, nil
}

func (s *fileTaskStore) GetByID(id string) (*models.Task, error) {
	tasks, err := s.Load()
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, nil
}

func (s *fileTaskStore) UpdateStatus(id string, status models.TaskStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("updating task %s: unknown status %q", id, status)
	}

	unlock, err := s.lock()
	if err != nil {
		return false, fmt.Errorf("updating task %s: %w", id, err)
	}
	defer unlock()

	tasks, err := s.Load()
	if err != nil {
		return false, fmt.Errorf("updating task %s: %w", id, err)
	}

	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Status = status
			if err := s.persist(tasks); err != nil {
				return false, fmt.Errorf("updating task %s: %w", id, err)
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *fileTaskStore) SaveAll(tasks []models.Task) error {
	unlock, err := s.lock()
	if err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	defer unlock()

	if err := s.persist(tasks); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}

// initialize writes an empty store document, creating the data
// directory on first use.
func (s *fileTaskStore) initialize() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	return s.writeDocument(nil)
}

// persist copies the current document to the backup path and rewrites
// the primary with the full collection. The write itself is not atomic;
// a crash mid-write is what the backup recovery on Load covers.
func (s *fileTaskStore) persist(tasks []models.Task) error {
	if current, err := os.ReadFile(s.path); err == nil {
		if err := os.WriteFile(s.backupPath, current, 0o644); err != nil {
			return fmt.Errorf("writing backup: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading store for backup: %w", err)
	}
	return s.writeDocument(tasks)
}

func (s *fileTaskStore) writeDocument(tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	doc := taskFile{
		Tasks: tasks,
		Metadata: storeMetadata{
			LastUpdated: s.now().UTC(),
			TotalTasks:  len(tasks),
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling store document: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing store file: %w", err)
	}
	return nil
}
