package checklist

import (
	"iter"
	"regexp"
	"strings"

	"markdown-todo-sync/internal/model"
)

type Service interface {
	// ParseDocument extracts all checkboxes from one markdown document
	ParseDocument(path, content string) []model.Occurrence

	// Walk lazily yields every checkbox under root, file by file
	Walk(root string) iter.Seq2[model.Occurrence, error]

	// GetStats calculates checklist statistics
	GetStats(occurrences []model.Occurrence) ChecklistStats
}

type service struct {
	pattern    *regexp.Regexp
	extensions map[string]struct{}
	ignoreDirs map[string]struct{}
}

func New(opt Options) Service {
	exts := opt.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	ignore := opt.IgnoreDirs
	if ignore == nil {
		ignore = DefaultIgnoreDirs
	}

	s := &service{
		pattern:    regexp.MustCompile(CheckboxPattern),
		extensions: make(map[string]struct{}, len(exts)),
		ignoreDirs: make(map[string]struct{}, len(ignore)),
	}
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.extensions[ext] = struct{}{}
	}
	for _, dir := range ignore {
		if dir = strings.TrimSpace(dir); dir != "" {
			s.ignoreDirs[dir] = struct{}{}
		}
	}
	return s
}

// ParseDocument scans content line by line, tracking the current section heading.
func (s *service) ParseDocument(path, content string) []model.Occurrence {
	content = strings.ToValidUTF8(content, "")

	var occurrences []model.Occurrence
	section := ""
	for i, line := range splitLines(content) {
		if isHeading(line) {
			section = headingText(line)
		}

		match := s.pattern.FindStringSubmatch(line)
		if len(match) != 3 {
			continue
		}

		occurrences = append(occurrences, model.Occurrence{
			Path:    path,
			Line:    i + 1,
			Text:    strings.TrimSpace(match[2]),
			Checked: strings.ToLower(match[1]) == "x",
			Section: section,
			RawLine: line,
		})
	}

	return occurrences
}

// GetStats calculates checklist statistics
func (s *service) GetStats(occurrences []model.Occurrence) ChecklistStats {
	total := len(occurrences)
	if total == 0 {
		return ChecklistStats{}
	}

	completed := 0
	for _, o := range occurrences {
		if o.Checked {
			completed++
		}
	}

	return ChecklistStats{
		Total:     total,
		Completed: completed,
		Pending:   total - completed,
		Progress:  float64(completed) / float64(total) * 100,
	}
}

func isHeading(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), HeadingMarker)
}

func headingText(line string) string {
	return strings.TrimSpace(strings.Trim(line, "# \t"))
}

// splitLines splits on \n, \r\n and lone \r without producing a trailing empty line.
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}
