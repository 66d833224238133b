package usecase

import (
	"fmt"
	"slices"
	"strings"

	"markdown-todo-sync/internal/model"
	"markdown-todo-sync/internal/todo"
)

// collect drains the extractor into records. Any extraction error aborts.
func (uc *implUseCase) collect(input todo.SyncInput) ([]model.Record, []model.Occurrence, error) {
	builder := todo.RecordBuilder{
		Link: todo.LinkConfig{
			WebURL:     uc.cfg.WebURL,
			Repository: uc.cfg.Repository,
			Revision:   uc.revision(input),
		},
		MarkerLabel: uc.cfg.MarkerLabel,
	}

	var (
		records     []model.Record
		occurrences []model.Occurrence
	)
	for o, err := range uc.checklist.Walk(input.Root) {
		if err != nil {
			return nil, nil, fmt.Errorf("extract: %w", err)
		}
		occurrences = append(occurrences, o)
		records = append(records, builder.Build(o))
	}
	return records, occurrences, nil
}

func (uc *implUseCase) validate(input todo.SyncInput) error {
	if uc.cfg.Repository == "" {
		return todo.ErrMissingRepository
	}
	if input.Root == "" {
		return todo.ErrMissingRoot
	}
	return nil
}

func (uc *implUseCase) revision(input todo.SyncInput) string {
	if input.Revision != "" {
		return input.Revision
	}
	if uc.cfg.Revision != "" {
		return uc.cfg.Revision
	}
	return todo.DefaultRevision
}

func (uc *implUseCase) issueURL(number int) string {
	web := strings.TrimRight(uc.cfg.WebURL, "/")
	if web == "" {
		web = todo.DefaultWebURL
	}
	return fmt.Sprintf("%s/%s/issues/%d", web, uc.cfg.Repository, number)
}

// missingLabels returns the wanted labels absent from existing, in wanted order.
func missingLabels(existing, wanted []string) []string {
	have := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		have[name] = struct{}{}
	}
	var missing []string
	for _, name := range wanted {
		if _, ok := have[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// vanishedIDs returns the ids mapped in open but absent from seen, sorted.
func vanishedIDs(open map[string]int, seen map[string]struct{}) []string {
	var ids []string
	for id := range open {
		if _, ok := seen[id]; !ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func tally(out *todo.SyncOutput, o todo.Outcome) {
	out.Outcomes = append(out.Outcomes, o)
	switch o.Action {
	case todo.ActionCreate:
		out.Created++
	case todo.ActionUpdate:
		out.Updated++
	case todo.ActionRecreate:
		out.Recreated++
	case todo.ActionSkip:
		out.Skipped++
	case todo.ActionFail:
		out.Failed++
	case todo.ActionClose:
		out.Closed++
	}
}

func newOutcome(rec model.Record) todo.Outcome {
	return todo.Outcome{
		ID:    rec.ID,
		Title: rec.Title,
		Path:  rec.Path,
		Line:  rec.Line,
	}
}
