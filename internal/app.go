// Package internal provides the App struct that wires all components
// of mailtask together and hands them to the CLI layer.
package internal

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/valter-silva-au/mailtask/internal/cli"
	"github.com/valter-silva-au/mailtask/internal/core"
	"github.com/valter-silva-au/mailtask/internal/integration"
	"github.com/valter-silva-au/mailtask/internal/observability"
	"github.com/valter-silva-au/mailtask/internal/storage"
	"github.com/valter-silva-au/mailtask/pkg/models"
)

// App holds all service dependencies for mailtask.
type App struct {
	Config    *models.Config
	Logger    *zap.Logger
	Store     storage.TaskStore
	Extractor core.Extractor
	Pipeline  core.IngestPipeline
	EventLog  observability.EventLog
	Notifier  observability.Notifier
}

// NewApp loads configuration from basePath and wires all components.
// The model backend is constructed only when an API key is configured;
// without one every extraction uses the deterministic fallback.
func NewApp(basePath string) (*App, error) {
	app := &App{}

	cfg, err := core.NewConfigurationManager(basePath).Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	app.Config = cfg

	if cfg.Development {
		app.Logger, err = zap.NewDevelopment()
	} else {
		app.Logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	app.Store = storage.NewTaskStore(cfg.StorePath)

	var backend core.CompletionBackend
	if cfg.OpenAI.APIKey != "" {
		backend = integration.NewOpenAIBackend(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		app.Logger.Info("no OpenAI API key configured, using fallback extraction")
	}
	app.Extractor = core.NewExtractor(backend, app.Logger)

	app.EventLog, err = observability.NewJSONLEventLog(cfg.EventLogPath)
	if err != nil {
		// Non-fatal: disable event logging if the log can't be created.
		app.Logger.Warn("event log disabled", zap.Error(err))
		app.EventLog = observability.NopEventLog()
	}

	app.Notifier = observability.NewSlackNotifier(cfg.SlackWebhook)
	app.Pipeline = core.NewIngestPipeline(app.Extractor, app.Store, app.EventLog, app.Notifier, app.Logger)

	// Hand the wired services to the CLI layer.
	cli.Config = cfg
	cli.Logger = app.Logger
	cli.Store = app.Store
	cli.Pipeline = app.Pipeline
	cli.EventLog = app.EventLog
	cli.BasePath = basePath

	return app, nil
}
