package usecase

import (
	"context"
	"fmt"

	"markdown-todo-sync/internal/todo"
)

// Plan mirrors Sync's decisions without any tracker write or state save.
// Known issues are planned as updates since staleness is only seen on write.
func (uc *implUseCase) Plan(ctx context.Context, input todo.SyncInput) (todo.PlanOutput, error) {
	if err := uc.validate(input); err != nil {
		return todo.PlanOutput{}, err
	}

	records, _, err := uc.collect(input)
	if err != nil {
		return todo.PlanOutput{}, err
	}

	state, err := uc.state.Load(ctx)
	if err != nil {
		return todo.PlanOutput{}, fmt.Errorf("load state: %w", err)
	}
	state = state.Normalize()

	existing, err := uc.tracker.ListLabels(ctx)
	if err != nil {
		return todo.PlanOutput{}, fmt.Errorf("list labels: %w", err)
	}

	output := todo.PlanOutput{
		Repository:    uc.cfg.Repository,
		Revision:      uc.revision(input),
		MissingLabels: missingLabels(existing, todo.LabelSet(records)),
		Actions:       make([]todo.Outcome, 0, len(records)),
	}

	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		seen[rec.ID] = struct{}{}
		o := newOutcome(rec)
		number, known := state.Open[rec.ID]
		switch {
		case known:
			o.Action = todo.ActionUpdate
			o.Issue = number
		case rec.Checked:
			o.Action = todo.ActionSkip
		default:
			o.Action = todo.ActionCreate
		}
		output.Actions = append(output.Actions, o)
	}

	for _, id := range vanishedIDs(state.Open, seen) {
		output.Actions = append(output.Actions, todo.Outcome{ID: id, Action: todo.ActionClose, Issue: state.Open[id]})
	}

	uc.l.Debugf(ctx, "Plan: %d actions, %d missing labels", len(output.Actions), len(output.MissingLabels))
	return output, nil
}
