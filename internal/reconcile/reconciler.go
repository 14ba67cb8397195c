// Package reconcile implements the reconciler: given the keys recognized
// in code and the keys already stored for a locale, it produces the
// three-bucket diff (added, updated-and-commented, obsolete-and-commented)
// and assembles the resulting per-file Fluent resources, ready for the
// Writer.
package reconcile

import (
	"fmt"
	"sort"

	"github.com/agentic-research/fluentkeys/internal/fluent"
	"github.com/agentic-research/fluentkeys/internal/ftlimport"
	"github.com/agentic-research/fluentkeys/internal/key"
	"github.com/agentic-research/fluentkeys/internal/placeholder"
	"github.com/agentic-research/fluentkeys/internal/stats"
)

// CommentMode selects how the reconciler disposes of a stored key that no
// longer matches what code expects.
type CommentMode int

const (
	// CommentModeComment turns the superseded entry into a Comment in
	// place, so a translator can recover the old text.
	CommentModeComment CommentMode = iota
	// CommentModeWarn logs a warning and drops the newly-generated
	// replacement from the add bucket instead of commenting out the old
	// entry. The Updated/Commented counters are not corrected for
	// this: a key counted as updated or commented before the Warn-mode
	// drop stays counted, which over-reports relative to what actually
	// lands in the file. This is a known quirk of the mode, preserved
	// rather than fixed.
	CommentModeWarn
)

// Options configures one locale's reconciliation.
type Options struct {
	CommentMode        CommentMode
	CommentJunks       bool
	LineEnding         LineEnding
	DryRun             bool
	DefaultFTLFilename string
	// OnWarn receives, under CommentModeWarn, the name of every key that
	// CommentModeComment would have commented out (drifted and obsolete
	// keys alike). Optional.
	OnWarn func(name string)
}

// Result is the outcome of reconciling one locale: the per-path resources
// ready to write, and the counters to report.
type Result struct {
	Resources map[string]*fluent.Resource
	Stats     stats.Locale
}

// Reconcile runs the three-step diff described by the component design:
// path/membership, signature drift, and obsolescence, then renders the
// surviving stored keys, added keys, retired-as-comments keys, imported
// terms and imported misc entries into per-path resources ordered by
// their original position.
func Reconcile(locale string, codeKeys map[string]*key.Key, stored *ftlimport.Result, opts Options) (*Result, error) {
	st := stats.Locale{
		Locale:          locale,
		FilesCount:      stored.FilesCount,
		InCodeKeysCount: len(codeKeys),
		StoredKeysCount: countMessages(stored.Keys),
	}

	stillStored := make(map[string]*key.Key, len(stored.Keys))
	for name, k := range stored.Keys {
		stillStored[name] = k
	}

	toAdd := make(map[string]*key.Key)
	toComment := make(map[string]*key.Key)

	// Step 1: path/membership.
	for name, codeKey := range codeKeys {
		storedKey, exists := stillStored[name]
		if !exists {
			toAdd[name] = codeKey
			st.Added++
			continue
		}
		if storedKey.Path != codeKey.Path {
			toComment[name] = storedKey
			delete(stillStored, name)
			toAdd[name] = codeKey
			st.Commented++
			st.Updated++
			continue
		}
		storedKey.CodePath = codeKey.CodePath
	}

	// Step 2: signature drift, for same-path survivors present in both.
	codeExtractor := placeholder.New(codeKeys, stored.Terms)
	storedExtractor := placeholder.New(stillStored, stored.Terms)
	referenced := make(map[string]struct{})
	for name, codeKey := range codeKeys {
		storedKey, exists := stillStored[name]
		if !exists {
			continue
		}
		if _, alreadyAdded := toAdd[name]; alreadyAdded {
			continue
		}
		codeArgs, err := codeExtractor.ExtractKwargs(codeKey, referenced)
		if err != nil {
			return nil, fmt.Errorf("reconcile: %s: %w", locale, err)
		}
		storedArgs, err := storedExtractor.ExtractKwargs(storedKey, referenced)
		if err != nil {
			return nil, fmt.Errorf("reconcile: %s: %w", locale, err)
		}
		if !sameStringSet(codeArgs, storedArgs) {
			toComment[name] = storedKey
			delete(stillStored, name)
			toAdd[name] = codeKey
			st.Commented++
			st.Updated++
		}
	}

	// Step 3: obsolescence — anything left in stillStored that code no
	// longer calls and nothing else still references.
	for name, storedKey := range stillStored {
		if _, inCode := codeKeys[name]; inCode {
			continue
		}
		if _, isReferenced := referenced[name]; isReferenced {
			continue
		}
		toComment[name] = storedKey
		delete(stillStored, name)
		st.Commented++
	}

	// Dispose of the commented bucket per the configured mode.
	for name, k := range toComment {
		switch opts.CommentMode {
		case CommentModeWarn:
			delete(toAdd, name)
			if opts.OnWarn != nil {
				opts.OnWarn(name)
			}
		default:
			CommentOut(k)
		}
	}

	if opts.CommentJunks {
		commentJunk(stored.Misc)
	}

	resources := buildResourcesFromSlices(stored.Misc, stillStored, toAdd, toComment, stored.Terms)
	return &Result{Resources: resources, Stats: st}, nil
}

func commentJunk(misc []*key.Key) {
	for _, k := range misc {
		if _, isJunk := k.Entry.(*fluent.Junk); isJunk {
			CommentOut(k)
		}
	}
}

func countMessages(m map[string]*key.Key) int {
	n := 0
	for _, k := range m {
		if _, ok := k.Entry.(*fluent.Message); ok {
			n++
		}
	}
	return n
}

func sameStringSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// buildResourcesFromSlices groups every surviving key by destination path and sorts
// each group by its original position (new keys, which have no position,
// sort last), so output ordering round-trips across runs.
func buildResourcesFromSlices(slices []*key.Key, maps ...map[string]*key.Key) map[string]*fluent.Resource {
	byPath := make(map[string][]*key.Key)
	add := func(k *key.Key) {
		if k.Path == "" {
			return
		}
		byPath[k.Path] = append(byPath[k.Path], k)
	}
	for _, m := range maps {
		for _, k := range m {
			add(k)
		}
	}
	for _, k := range slices {
		add(k)
	}

	out := make(map[string]*fluent.Resource, len(byPath))
	for path, keys := range byPath {
		sort.SliceStable(keys, func(i, j int) bool {
			if keys[i].Position != keys[j].Position {
				return keys[i].Position < keys[j].Position
			}
			return keys[i].Name < keys[j].Name
		})
		res := &fluent.Resource{}
		for _, k := range keys {
			res.Body = append(res.Body, k.Entry)
		}
		out[path] = res
	}
	return out
}
