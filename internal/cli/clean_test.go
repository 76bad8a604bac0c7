package cli

import (
	"path/filepath"
	"testing"

	"github.com/valter-silva-au/mailtask/internal/storage"
	"github.com/valter-silva-au/mailtask/pkg/models"
)

func seedMessyStore(t *testing.T) storage.TaskStore {
	t.Helper()
	store := storage.NewTaskStore(filepath.Join(t.TempDir(), "tasks.json"))
	err := store.SaveAll([]models.Task{{
		ID:          "t1",
		Description: "Fix   the   printer\n\n\n\nsoon",
		Status:      models.StatusPending,
		SourceEmail: models.SourceEmail{Subject: "  Printer   trouble  "},
	}})
	if err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	prev := Store
	Store = store
	t.Cleanup(func() { Store = prev })
	return store
}

func TestCleanDryRunLeavesStoreUntouched(t *testing.T) {
	store := seedMessyStore(t)

	cleanDryRunFlag = true
	defer func() { cleanDryRunFlag = false }()

	if err := cleanCmd.RunE(cleanCmd, nil); err != nil {
		t.Fatalf("clean --dry-run: %v", err)
	}

	tasks, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tasks[0].Description != "Fix   the   printer\n\n\n\nsoon" {
		t.Errorf("dry run rewrote description: %q", tasks[0].Description)
	}
	if tasks[0].SourceEmail.Subject != "  Printer   trouble  " {
		t.Errorf("dry run rewrote subject: %q", tasks[0].SourceEmail.Subject)
	}
}

func TestCleanRewritesMessyTasks(t *testing.T) {
	store := seedMessyStore(t)

	if err := cleanCmd.RunE(cleanCmd, nil); err != nil {
		t.Fatalf("clean: %v", err)
	}

	tasks, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tasks[0].Description != "Fix the printer\nsoon" {
		t.Errorf("description = %q", tasks[0].Description)
	}
	if tasks[0].SourceEmail.Subject != "Printer trouble" {
		t.Errorf("subject = %q", tasks[0].SourceEmail.Subject)
	}
}
