package checklist

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"markdown-todo-sync/internal/model"
)

// Walk yields occurrences from every matching file under root. The sequence is
// restartable: each range over it walks the tree again. A read error is yielded
// once and ends the sequence.
func (s *service) Walk(root string) iter.Seq2[model.Occurrence, error] {
	return func(yield func(model.Occurrence, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if rel != "." && s.ignored(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			if !s.accepts(rel) {
				return nil
			}

			data, readErr := os.ReadFile(path)
			if readErr != nil {
				return fmt.Errorf("read %s: %w", rel, readErr)
			}

			for _, o := range s.ParseDocument(rel, string(data)) {
				if !yield(o, nil) {
					return filepath.SkipAll
				}
			}
			return nil
		})
		if err != nil {
			yield(model.Occurrence{}, fmt.Errorf("walk %s: %w", root, err))
		}
	}
}

func (s *service) ignored(segment string) bool {
	_, ok := s.ignoreDirs[segment]
	return ok
}

// accepts reports whether the file at rel has a scanned extension and no ignored segment.
func (s *service) accepts(rel string) bool {
	if _, ok := s.extensions[strings.ToLower(filepath.Ext(rel))]; !ok {
		return false
	}
	for _, part := range strings.Split(rel, "/") {
		if s.ignored(part) {
			return false
		}
	}
	return true
}
