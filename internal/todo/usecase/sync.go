package usecase

import (
	"context"
	"errors"
	"fmt"

	"markdown-todo-sync/internal/model"
	"markdown-todo-sync/internal/todo"
	"markdown-todo-sync/internal/todo/repository"
)

// Sync scans the docs tree, reconciles every task with the tracker and saves state once.
func (uc *implUseCase) Sync(ctx context.Context, input todo.SyncInput) (todo.SyncOutput, error) {
	if err := uc.validate(input); err != nil {
		return todo.SyncOutput{}, err
	}

	records, occurrences, err := uc.collect(input)
	if err != nil {
		return todo.SyncOutput{}, err
	}
	uc.l.Infof(ctx, "Sync: extracted %d tasks from %s", len(records), input.Root)

	state, err := uc.state.Load(ctx)
	if err != nil {
		return todo.SyncOutput{}, fmt.Errorf("load state: %w", err)
	}
	state = state.Normalize()

	created, err := uc.ensureLabels(ctx, todo.LabelSet(records))
	if err != nil {
		return todo.SyncOutput{}, err
	}

	output := todo.SyncOutput{
		LabelsCreated: created,
		Stats:         uc.checklist.GetStats(occurrences),
	}

	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		seen[rec.ID] = struct{}{}
		o := uc.reconcile(ctx, rec, &state)
		tally(&output, o)
		uc.mirrorDue(ctx, rec, o)
	}

	for _, id := range vanishedIDs(state.Open, seen) {
		number := state.Open[id]
		if err := uc.tracker.CloseIssue(ctx, number); err != nil {
			uc.l.Warnf(ctx, "Sync: closing vanished issue #%d for %s failed (ignored): %v", number, id, err)
		}
		state.Closed = append(state.Closed, id)
		delete(state.Open, id)
		tally(&output, todo.Outcome{ID: id, Action: todo.ActionClose, Issue: number})

		if uc.calendar != nil {
			if err := uc.calendar.DeleteDueEvent(ctx, id); err != nil {
				uc.l.Warnf(ctx, "Sync: removing due event for %s failed (non-fatal): %v", id, err)
			}
		}
	}

	if err := uc.state.Save(ctx, state); err != nil {
		return output, fmt.Errorf("save state: %w", err)
	}

	uc.l.Infof(ctx, "Sync: created=%d updated=%d recreated=%d skipped=%d failed=%d closed=%d",
		output.Created, output.Updated, output.Recreated, output.Skipped, output.Failed, output.Closed)
	return output, nil
}

// ensureLabels creates every wanted label the tracker does not have yet.
func (uc *implUseCase) ensureLabels(ctx context.Context, wanted []string) ([]string, error) {
	existing, err := uc.tracker.ListLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}

	var created []string
	for _, name := range missingLabels(existing, wanted) {
		if err := uc.tracker.CreateLabel(ctx, name); err != nil {
			uc.l.Warnf(ctx, "Sync: creating label %q failed: %v", name, err)
			continue
		}
		created = append(created, name)
	}
	return created, nil
}

// reconcile applies one record to the tracker and records the mapping in state.
// A known issue that cannot be updated is treated as unknown.
func (uc *implUseCase) reconcile(ctx context.Context, rec model.Record, state *model.State) todo.Outcome {
	o := newOutcome(rec)

	stale := false
	if number, ok := state.Open[rec.ID]; ok {
		err := uc.tracker.UpdateIssue(ctx, repository.UpdateIssueOptions{
			Number: number,
			Title:  rec.Title,
			Body:   rec.Body,
			Labels: rec.Labels,
			State:  model.StateFor(rec.Checked),
		})
		if err == nil {
			o.Action = todo.ActionUpdate
			o.Issue = number
			return o
		}
		if errors.Is(err, repository.ErrIssueNotFound) {
			uc.l.Warnf(ctx, "Sync: issue #%d for %s is gone: %v", number, rec.ID, err)
		} else {
			uc.l.Errorf(ctx, "Sync: updating issue #%d for %s failed: %v", number, rec.ID, err)
		}
		o.Error = err.Error()
		stale = true
	}

	if rec.Checked {
		o.Action = todo.ActionSkip
		return o
	}

	number, err := uc.tracker.CreateIssue(ctx, repository.CreateIssueOptions{
		Title:  rec.Title,
		Body:   rec.Body,
		Labels: rec.Labels,
	})
	if err != nil {
		uc.l.Errorf(ctx, "Sync: creating issue for %s (%s:%d) failed: %v", rec.ID, rec.Path, rec.Line, err)
		o.Action = todo.ActionFail
		o.Error = err.Error()
		return o
	}

	state.Open[rec.ID] = number
	o.Issue = number
	o.Error = ""
	o.Action = todo.ActionCreate
	if stale {
		o.Action = todo.ActionRecreate
	}
	return o
}

// mirrorDue keeps the optional calendar in step with a reconciled record.
func (uc *implUseCase) mirrorDue(ctx context.Context, rec model.Record, o todo.Outcome) {
	if uc.calendar == nil || rec.Due == "" {
		return
	}

	if rec.Checked {
		if err := uc.calendar.DeleteDueEvent(ctx, rec.ID); err != nil {
			uc.l.Warnf(ctx, "Sync: removing due event for %s failed (non-fatal): %v", rec.ID, err)
		}
		return
	}

	switch o.Action {
	case todo.ActionCreate, todo.ActionUpdate, todo.ActionRecreate:
	default:
		return
	}

	err := uc.calendar.UpsertDueEvent(ctx, repository.DueEventOptions{
		TaskID:   rec.ID,
		Title:    rec.Title,
		Due:      rec.Due,
		IssueURL: uc.issueURL(o.Issue),
		Source:   rec.Permalink,
	})
	if err != nil {
		uc.l.Warnf(ctx, "Sync: due event for %s failed (non-fatal): %v", rec.ID, err)
	}
}
