package gcalendar

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"markdown-todo-sync/internal/todo/repository"
	"markdown-todo-sync/pkg/datemath"
	pkgCalendar "markdown-todo-sync/pkg/gcalendar"
	pkgLog "markdown-todo-sync/pkg/log"
)

// Client is the subset of the Calendar API client the mirror needs.
type Client interface {
	UpsertAllDayEvent(ctx context.Context, req pkgCalendar.AllDayEventRequest) (*pkgCalendar.Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

type implRepository struct {
	client     Client
	calendarID string
	parser     *datemath.Parser
	l          pkgLog.Logger
}

// New creates a CalendarRepository writing all-day events to calendarID.
func New(client Client, calendarID string, parser *datemath.Parser, l pkgLog.Logger) repository.CalendarRepository {
	return &implRepository{
		client:     client,
		calendarID: calendarID,
		parser:     parser,
		l:          l,
	}
}

// EventID derives a stable calendar event id from a task identity.
// Calendar ids must be base32hex, so the dashes of the UUID are dropped.
func EventID(taskID string) string {
	return strings.ReplaceAll(uuid.NewSHA1(uuid.NameSpaceURL, []byte("todosync:"+taskID)).String(), "-", "")
}

func (r *implRepository) UpsertDueEvent(ctx context.Context, opt repository.DueEventOptions) error {
	day, err := r.parser.AllDay(opt.Due)
	if err != nil {
		return fmt.Errorf("due event %s: %w", opt.TaskID, err)
	}

	event, err := r.client.UpsertAllDayEvent(ctx, pkgCalendar.AllDayEventRequest{
		CalendarID:  r.calendarID,
		EventID:     EventID(opt.TaskID),
		Summary:     opt.Title,
		Description: describe(opt),
		StartDate:   day.StartDate(),
		EndDate:     day.EndDate(),
	})
	if err != nil {
		return fmt.Errorf("due event %s: %w", opt.TaskID, err)
	}
	r.l.Debugf(ctx, "gcalendar: due event %s on %s", event.ID, day.StartDate())
	return nil
}

func (r *implRepository) DeleteDueEvent(ctx context.Context, taskID string) error {
	err := r.client.DeleteEvent(ctx, r.calendarID, EventID(taskID))
	if err == nil || errors.Is(err, pkgCalendar.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("delete due event %s: %w", taskID, err)
}

func describe(opt repository.DueEventOptions) string {
	var b strings.Builder
	if opt.IssueURL != "" {
		fmt.Fprintf(&b, "Issue: %s\n", opt.IssueURL)
	}
	if opt.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", opt.Source)
	}
	fmt.Fprintf(&b, "Task ID: %s", opt.TaskID)
	return b.String()
}
