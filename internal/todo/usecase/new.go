package usecase

import (
	"markdown-todo-sync/internal/checklist"
	"markdown-todo-sync/internal/todo"
	"markdown-todo-sync/internal/todo/repository"
	pkgLog "markdown-todo-sync/pkg/log"
)

type implUseCase struct {
	l         pkgLog.Logger
	checklist checklist.Service
	tracker   repository.TrackerRepository
	state     repository.StateRepository
	calendar  repository.CalendarRepository // nil disables the due-date mirror
	cfg       Config
}

// New creates a new todo UseCase instance.
func New(
	l pkgLog.Logger,
	checklistSvc checklist.Service,
	tracker repository.TrackerRepository,
	state repository.StateRepository,
	calendar repository.CalendarRepository,
	cfg Config,
) todo.UseCase {
	return &implUseCase{
		l:         l,
		checklist: checklistSvc,
		tracker:   tracker,
		state:     state,
		calendar:  calendar,
		cfg:       cfg,
	}
}
