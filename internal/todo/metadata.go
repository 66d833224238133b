package todo

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxTitleLength  = 120
	TruncatedLength = 117
	Ellipsis        = "…"

	PriorityLabelPrefix = "priority/"
)

var (
	dueRe      = regexp.MustCompile(`(?i)\bdue:\s*(\d{4}-\d{2}-\d{2})\b`)
	labelRe    = regexp.MustCompile(`(?:^|\s)#([A-Za-z0-9._/-]+)`)
	priorityRe = regexp.MustCompile(`(?i)(?:^|\s)!(p[123])\b`)
)

// Metadata is what ParseMetadata pulls out of a checkbox's text.
type Metadata struct {
	Title    string   // Text with markers removed, truncated
	Due      string   // First due date (YYYY-MM-DD) or ""
	Labels   []string // Inline #labels, sorted and unique
	Priority string   // "p1".."p3" lowercased, or ""
}

// PriorityLabel returns the label for the parsed priority, or "" if none.
func (m Metadata) PriorityLabel() string {
	if m.Priority == "" {
		return ""
	}
	return PriorityLabelPrefix + m.Priority
}

// ParseMetadata extracts due date, inline labels and priority from text and
// derives a display title from what is left.
func ParseMetadata(text string) Metadata {
	var m Metadata

	if match := dueRe.FindStringSubmatch(text); match != nil {
		m.Due = match[1]
	}

	for _, match := range labelRe.FindAllStringSubmatch(text, -1) {
		m.Labels = append(m.Labels, match[1])
	}
	m.Labels = uniqueSorted(m.Labels)

	if match := priorityRe.FindStringSubmatch(text); match != nil {
		m.Priority = strings.ToLower(match[1])
	}

	m.Title = cleanTitle(text)
	return m
}

// cleanTitle strips every marker and trims the result. Whitespace elsewhere in
// the text is kept as written.
func cleanTitle(text string) string {
	title := stripMarkers(text, dueRe)
	title = stripMarkers(title, priorityRe)
	title = stripMarkers(title, labelRe)
	return Truncate(strings.TrimSpace(title))
}

// stripMarkers replaces each match of re, together with the whitespace around
// it, by a single space so the next marker still has its leading separator.
func stripMarkers(s string, re *regexp.Regexp) string {
	locs := re.FindAllStringIndex(s, -1)
	if locs == nil {
		return s
	}

	var out string
	last := 0
	for _, loc := range locs {
		seg := s[last:loc[0]]
		if last > 0 {
			seg = strings.TrimLeftFunc(seg, unicode.IsSpace)
		}
		out = strings.TrimRightFunc(out+seg, unicode.IsSpace) + " "
		last = loc[1]
	}
	return out + strings.TrimLeftFunc(s[last:], unicode.IsSpace)
}

// Truncate shortens s to TruncatedLength runes plus Ellipsis when it is longer
// than MaxTitleLength runes.
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxTitleLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:TruncatedLength]) + Ellipsis
}

func uniqueSorted(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
