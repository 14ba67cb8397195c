package reconcile

import (
	"strings"

	"github.com/agentic-research/fluentkeys/internal/fluent"
	"github.com/agentic-research/fluentkeys/internal/key"
)

// CommentOut converts a key's entry into a Comment wrapping the entry's
// serialized Fluent text, so a retired or superseded stored key is
// preserved for a translator to recover rather than silently deleted. It
// is a no-op if the entry is already a Comment.
func CommentOut(k *key.Key) {
	if _, already := k.Entry.(*fluent.Comment); already {
		return
	}
	raw := fluent.SerializeEntry(k.Entry)
	k.Entry = &fluent.Comment{Content: splitContent(string(raw))}
}

// splitContent breaks a serialized entry's text into comment lines,
// rejoining the final two lines when the last one is empty so a trailing
// blank line in the source text doesn't become a trailing blank comment
// line.
func splitContent(raw string) []string {
	lines := rustLines(raw)
	if len(lines) >= 2 && lines[len(lines)-1] == "" {
		last := lines[len(lines)-1]
		preLast := lines[len(lines)-2]
		lines = append(lines[:len(lines)-2], preLast+last)
	}
	return lines
}

// rustLines mimics Rust's str::lines(): split on "\n", with at most one
// trailing newline stripped first so a fully-terminated string doesn't
// produce a spurious trailing empty line.
func rustLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
