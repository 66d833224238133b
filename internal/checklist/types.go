package checklist

// ChecklistStats represents checklist progress
type ChecklistStats struct {
	Total     int     // Total checkboxes
	Completed int     // Checked checkboxes
	Pending   int     // Unchecked checkboxes
	Progress  float64 // Completion percentage (0-100)
}

// Options configures which files the extractor visits.
type Options struct {
	Extensions []string // File extensions to scan, with leading dot (e.g. ".md")
	IgnoreDirs []string // Path segments that exclude a file when present anywhere in its path
}
