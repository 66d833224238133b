package todo

import (
	"markdown-todo-sync/internal/model"
)

// DefaultMarkerLabel is attached to every issue created from markdown.
const DefaultMarkerLabel = "from-markdown"

// RecordBuilder turns occurrences into records.
type RecordBuilder struct {
	Link        LinkConfig
	MarkerLabel string
}

// Build derives the identity, metadata, labels and body for o.
func (b RecordBuilder) Build(o model.Occurrence) model.Record {
	id := TaskID(o.Path, o.Line, o.Text)
	meta := ParseMetadata(o.Text)
	permalink := b.Link.Permalink(o.Path, o.Line)

	marker := b.MarkerLabel
	if marker == "" {
		marker = DefaultMarkerLabel
	}

	labels := append([]string{}, meta.Labels...)
	if p := meta.PriorityLabel(); p != "" {
		labels = append(labels, p)
	}
	labels = append(labels, marker)

	return model.Record{
		ID:      id,
		Checked: o.Checked,
		Title:   meta.Title,
		Body: RenderBody(BodyInput{
			ID:        id,
			Path:      o.Path,
			Line:      o.Line,
			Permalink: permalink,
			Section:   o.Section,
			Due:       meta.Due,
			RawLine:   o.RawLine,
		}),
		Labels:    uniqueSorted(labels),
		Due:       meta.Due,
		Section:   o.Section,
		Path:      o.Path,
		Line:      o.Line,
		Permalink: permalink,
	}
}

// LabelSet returns every label referenced by records, sorted and unique.
func LabelSet(records []model.Record) []string {
	var all []string
	for _, r := range records {
		all = append(all, r.Labels...)
	}
	return uniqueSorted(all)
}
