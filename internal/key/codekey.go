// Package key defines the shared unit of work this module passes between
// the call-site recognizer, the Fluent importer, the placeholder extractor
// and the reconciler: a single named Fluent entry, wherever it came from.
package key

import (
	"math"

	"github.com/agentic-research/fluentkeys/internal/fluent"
)

// NoPosition marks a key that has no defined position in its destination
// .ftl file yet (freshly recognized from source, not yet merged into a
// stored resource). It sorts after every real position, matching how a
// brand-new key lands at the end of a freshly written file.
const NoPosition = math.MaxInt

// Key is one Fluent entry tracked through extraction: where it came from in
// source (if anywhere), what Fluent entry it represents, where it should be
// written, and what it depends on.
type Key struct {
	// CodePath is the source file the call site was found in. Empty for
	// keys that only exist because they were imported from a stored
	// .ftl file.
	CodePath string

	// Name is the dotted/dashed Fluent identifier this key resolves to.
	Name string

	// Entry is the Fluent entry this key represents. It is always one of
	// *fluent.Message, *fluent.Term, *fluent.Comment, *fluent.GroupComment,
	// *fluent.ResourceComment or *fluent.Junk.
	Entry fluent.Entry

	// Path is the destination .ftl file, relative to the locale
	// directory, this key should be written to.
	Path string

	// Locale is the locale directory this key belongs to. Empty for
	// freshly recognized code keys, which have no locale until they are
	// reconciled against one.
	Locale string

	// Position is this key's index in the stored resource it was
	// imported from, used to preserve output ordering across runs.
	// NoPosition for keys with no prior position.
	Position int

	// DependsOnKeys is the set of other message names this key's pattern
	// references via a message reference, populated by the placeholder
	// extractor.
	DependsOnKeys map[string]struct{}
}

// New builds a Key with DependsOnKeys initialized and Position defaulted to
// NoPosition, matching a freshly recognized or freshly imported entry that
// has not yet been placed in an existing file.
func New(name string, entry fluent.Entry) *Key {
	return &Key{
		Name:          name,
		Entry:         entry,
		Position:      NoPosition,
		DependsOnKeys: make(map[string]struct{}),
	}
}

// AddDependency records that this key's pattern references another
// message by name.
func (k *Key) AddDependency(name string) {
	if k.DependsOnKeys == nil {
		k.DependsOnKeys = make(map[string]struct{})
	}
	k.DependsOnKeys[name] = struct{}{}
}

// Message returns the entry as a *fluent.Message, or nil if this key wraps
// a different entry shape (term, comment, junk).
func (k *Key) Message() *fluent.Message {
	m, _ := k.Entry.(*fluent.Message)
	return m
}

// StructurallyEqual reports whether two keys would serialize identical
// Message content, the test the recognizer uses to decide whether a
// code-present key that collides with an already-seen one is a genuine
// conflict or just the same call site counted twice.
func (k *Key) StructurallyEqual(other *Key) bool {
	a, aok := k.Entry.(*fluent.Message)
	b, bok := other.Entry.(*fluent.Message)
	if aok != bok {
		return false
	}
	if !aok {
		return false
	}
	return a.Value.Equal(b.Value)
}
