// Package ftlimport implements the Fluent Importer: it walks a locale's
// directory of .ftl files and loads their entries into the three buckets
// the reconciler operates on (messages, terms, and everything else).
package ftlimport

import (
	"errors"
	"fmt"
	"os"

	billy "github.com/go-git/go-billy/v5"

	"github.com/agentic-research/fluentkeys/internal/fluent"
	"github.com/agentic-research/fluentkeys/internal/key"
	"github.com/agentic-research/fluentkeys/internal/walker"
)

// Result is everything imported from one locale's directory of .ftl files.
type Result struct {
	// Keys maps message name to the stored key, one per Message entry.
	Keys map[string]*key.Key
	// Terms maps term name to the stored key, one per Term entry. Terms
	// are kept in a disjoint map from Keys because they are never
	// retired by absence the way messages are (§4.4, §4.5).
	Terms map[string]*key.Key
	// Misc holds every Comment, GroupComment, ResourceComment and Junk
	// entry, in the order the reconciler should try to preserve.
	Misc []*key.Key
	// FilesCount is the number of .ftl files walked under localeDir.
	FilesCount int
}

// ImportDir parses every .ftl file under localeDir and returns its entries
// grouped by kind. Junk entries (text that failed to parse as any other
// shape) are carried into Misc alongside comments rather than discarded,
// so the reconciler's comment-junks option has something to act on. A
// localeDir that does not exist yet yields an empty Result.
func ImportDir(fsys billy.Filesystem, localeDir, locale string) (*Result, error) {
	files, err := walker.Walk(fsys, localeDir, ".ftl", nil, nil)
	if errors.Is(err, os.ErrNotExist) {
		files, err = nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ftlimport: walk %s: %w", localeDir, err)
	}

	res := &Result{
		Keys:       make(map[string]*key.Key),
		Terms:      make(map[string]*key.Key),
		FilesCount: len(files),
	}
	for _, f := range files {
		content, err := walker.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("ftlimport: read %s: %w", f.AbsPath, err)
		}
		resource := fluent.Parse(content)
		for pos, entry := range resource.Body {
			switch e := entry.(type) {
			case *fluent.Message:
				res.Keys[e.ID.Name] = &key.Key{
					Name:          e.ID.Name,
					Entry:         e,
					Path:          f.Path,
					Locale:        locale,
					Position:      pos,
					DependsOnKeys: make(map[string]struct{}),
				}
			case *fluent.Term:
				res.Terms[e.ID.Name] = &key.Key{
					Name:          e.ID.Name,
					Entry:         e,
					Path:          f.Path,
					Locale:        locale,
					Position:      pos,
					DependsOnKeys: make(map[string]struct{}),
				}
			case *fluent.Comment, *fluent.GroupComment, *fluent.ResourceComment, *fluent.Junk:
				res.Misc = append(res.Misc, &key.Key{
					Entry:         entry,
					Path:          f.Path,
					Locale:        locale,
					Position:      pos,
					DependsOnKeys: make(map[string]struct{}),
				})
			}
		}
	}
	return res, nil
}
