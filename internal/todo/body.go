package todo

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultWebURL   = "https://github.com"
	DefaultRevision = "main"
)

// LinkConfig holds what is needed to build source permalinks.
type LinkConfig struct {
	WebURL     string // e.g. https://github.com
	Repository string // owner/name
	Revision   string // commit SHA or branch, DefaultRevision when empty
}

// Permalink returns <web>/<repo>/blob/<revision>/<escaped path>#L<line>.
func (c LinkConfig) Permalink(path string, line int) string {
	web := strings.TrimRight(c.WebURL, "/")
	if web == "" {
		web = DefaultWebURL
	}
	revision := c.Revision
	if revision == "" {
		revision = DefaultRevision
	}
	return fmt.Sprintf("%s/%s/blob/%s/%s#L%d", web, c.Repository, revision, escapePath(path), line)
}

// BodyInput is everything RenderBody needs.
type BodyInput struct {
	ID        string
	Path      string
	Line      int
	Permalink string
	Section   string
	Due       string
	RawLine   string
}

// RenderBody renders the issue description for a checkbox.
func RenderBody(in BodyInput) string {
	lines := []string{
		fmt.Sprintf("Source: [%s:%d](%s)", in.Path, in.Line, in.Permalink),
	}
	if in.Section != "" {
		lines = append(lines, fmt.Sprintf("Section: **%s**", in.Section))
	}
	if in.Due != "" {
		lines = append(lines, fmt.Sprintf("**Due:** %s", in.Due))
	}
	lines = append(lines,
		"",
		"```md",
		strings.TrimSpace(in.RawLine),
		"```",
		"",
		fmt.Sprintf("_Task ID: `%s`_", in.ID),
	)
	return strings.Join(lines, "\n")
}

func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
