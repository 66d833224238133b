package todo

import "markdown-todo-sync/internal/checklist"

// Action is what the reconciler did (or would do) for one task.
type Action string

const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionRecreate Action = "recreate" // known issue could not be updated, a new one was opened
	ActionSkip     Action = "skip"     // checked item with no issue
	ActionFail     Action = "fail"     // tracker call failed, task left unmapped
	ActionClose    Action = "close"    // vanished from the docs tree
)

// SyncInput is the input for a sync or plan run.
type SyncInput struct {
	Root     string // Docs tree to scan
	Revision string // Overrides the configured revision for permalinks (optional)
}

// Outcome records the decision taken for a single task.
type Outcome struct {
	ID     string `json:"id" yaml:"id"`
	Action Action `json:"action" yaml:"action"`
	Issue  int    `json:"issue,omitempty" yaml:"issue,omitempty"`
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// SyncOutput is the result of a sync run.
type SyncOutput struct {
	Outcomes      []Outcome
	LabelsCreated []string
	Created       int
	Updated       int
	Recreated     int
	Skipped       int
	Failed        int
	Closed        int
	Stats         checklist.ChecklistStats
}

// PlanOutput is the result of a dry run.
type PlanOutput struct {
	Repository    string    `yaml:"repository"`
	Revision      string    `yaml:"revision"`
	MissingLabels []string  `yaml:"missing_labels,omitempty"`
	Actions       []Outcome `yaml:"actions"`
}
