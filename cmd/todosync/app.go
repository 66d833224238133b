package main

import (
	"context"
	"fmt"
	"path/filepath"

	"markdown-todo-sync/config"
	"markdown-todo-sync/internal/checklist"
	"markdown-todo-sync/internal/todo"
	"markdown-todo-sync/internal/todo/repository"
	calendarRepo "markdown-todo-sync/internal/todo/repository/gcalendar"
	githubRepo "markdown-todo-sync/internal/todo/repository/github"
	"markdown-todo-sync/internal/todo/repository/jsonfile"
	"markdown-todo-sync/internal/todo/repository/sqlite"
	"markdown-todo-sync/internal/todo/usecase"
	"markdown-todo-sync/pkg/datemath"
	"markdown-todo-sync/pkg/gcalendar"
	pkgGitHub "markdown-todo-sync/pkg/github"
	"markdown-todo-sync/pkg/log"
)

// app is the wired dependency graph shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger log.Logger
	uc     todo.UseCase
	close  func()
}

// setup loads config, builds the logger and wires the use case (config → logger → wire).
func setup(ctx context.Context, flags *rootFlags, serve bool) (*app, error) {
	// 1. Configuration
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.root != "" {
		cfg.Scan.Root = flags.root
	}
	if flags.revision != "" {
		cfg.Tracker.Revision = flags.revision
	}

	validate := cfg.Validate
	if serve {
		validate = cfg.ValidateServe
	}
	if err := validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Repository: %s revision=%s root=%s", cfg.Tracker.Repository, cfg.Tracker.Revision, cfg.Scan.Root)

	// 3. Tracker
	client := pkgGitHub.NewClient(pkgGitHub.Config{
		BaseURL:    cfg.Tracker.APIURL,
		Token:      cfg.Tracker.Token,
		Repository: cfg.Tracker.Repository,
		Timeout:    cfg.Tracker.Timeout,
		RatePerSec: cfg.Tracker.RatePerSec,
	})
	tracker := githubRepo.New(client, cfg.Tracker.PerPage, logger)

	// 4. State
	state, closeState, err := openState(cfg, logger)
	if err != nil {
		return nil, err
	}

	// 5. Google Calendar (optional)
	var calendar repository.CalendarRepository
	if cfg.GoogleCalendar.Enabled() {
		calendar, err = openCalendar(ctx, cfg.GoogleCalendar, logger)
		if err != nil {
			logger.Warnf(ctx, "Google Calendar not available (optional): %v", err)
			logger.Warn(ctx, "→ Run `go run ./scripts/gcal-auth` to generate a token file")
		} else {
			logger.Info(ctx, "Google Calendar due-date mirror enabled")
		}
	}

	// 6. UseCase
	uc := usecase.New(
		logger,
		checklist.New(checklist.Options{
			Extensions: cfg.Scan.Extensions,
			IgnoreDirs: cfg.Scan.Ignore,
		}),
		tracker,
		state,
		calendar,
		usecase.Config{
			Repository:  cfg.Tracker.Repository,
			WebURL:      cfg.Tracker.WebURL,
			Revision:    cfg.Tracker.Revision,
			MarkerLabel: cfg.Tracker.MarkerLabel,
		},
	)

	return &app{cfg: cfg, logger: logger, uc: uc, close: closeState}, nil
}

func openState(cfg *config.Config, logger log.Logger) (repository.StateRepository, func(), error) {
	switch cfg.State.Backend {
	case config.StateBackendSQLite:
		store, err := sqlite.Open(statePath(cfg, sqlite.DefaultPath), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite state: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return jsonfile.New(statePath(cfg, jsonfile.DefaultPath), logger), func() {}, nil
	}
}

// statePath resolves the configured state path against the scan root.
func statePath(cfg *config.Config, fallback string) string {
	path := cfg.State.Path
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.Scan.Root, filepath.FromSlash(path))
}

func openCalendar(ctx context.Context, cfg config.GoogleCalendarConfig, logger log.Logger) (repository.CalendarRepository, error) {
	parser, err := datemath.NewParser(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	client, err := gcalendar.NewClientFromCredentialsFile(ctx, cfg.CredentialsPath, cfg.TokenPath)
	if err != nil {
		return nil, err
	}
	logger.Infof(ctx, "Due-date calendar mirror enabled calendar=%s timezone=%s", cfg.CalendarID, parser.Location())
	return calendarRepo.New(client, cfg.CalendarID, parser, logger), nil
}
