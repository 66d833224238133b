package usecase

// Config is the run configuration shared by Sync and Plan.
type Config struct {
	Repository  string // owner/name
	WebURL      string // e.g. https://github.com
	Revision    string // default revision for permalinks
	MarkerLabel string
}
