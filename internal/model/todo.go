package model

// Occurrence is a single checkbox line found while scanning the docs tree.
type Occurrence struct {
	Path    string // Slash-separated path relative to the scan root
	Line    int    // 1-based line number
	Text    string // Text after the checkbox marker, trimmed
	Checked bool   // true if [x] or [X]
	Section string // Most recent heading text above the line ("" if none)
	RawLine string // Original line as read from the file
}

// Record is an Occurrence enriched with parsed metadata, ready to sync.
type Record struct {
	ID        string   // Task identity, see todo.TaskID
	Checked   bool     // Desired issue state: closed when true
	Title     string   // Cleaned, truncated issue title
	Body      string   // Rendered issue body
	Labels    []string // Sorted, always includes the marker label
	Due       string   // ISO date (YYYY-MM-DD) or ""
	Section   string
	Path      string
	Line      int
	Permalink string // Link to the line at the synced revision
}

// IssueState is the tracker-side state of an issue.
type IssueState string

const (
	IssueStateOpen   IssueState = "open"
	IssueStateClosed IssueState = "closed"
)

// StateFor maps a checkbox state to the issue state it implies.
func StateFor(checked bool) IssueState {
	if checked {
		return IssueStateClosed
	}
	return IssueStateOpen
}
