package reconcile

import (
	"fmt"
	"path"
	"strings"

	billy "github.com/go-git/go-billy/v5"
)

// LineEnding selects the line terminator the Writer normalizes generated
// .ftl files to.
type LineEnding int

const (
	// LineEndingDefault leaves the serializer's native "\n" terminators
	// untouched.
	LineEndingDefault LineEnding = iota
	LineEndingLF
	LineEndingCR
	LineEndingCRLF
)

// NormalizeLineEndings rewrites content's line terminators to match mode.
// It first collapses any existing CRLF/CR to LF so the conversion is
// idempotent regardless of what the source files used.
func NormalizeLineEndings(content []byte, mode LineEnding) []byte {
	s := strings.ReplaceAll(string(content), "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	switch mode {
	case LineEndingCR:
		s = strings.ReplaceAll(s, "\n", "\r")
	case LineEndingCRLF:
		s = strings.ReplaceAll(s, "\n", "\r\n")
	case LineEndingLF, LineEndingDefault:
		// already LF
	}
	return []byte(s)
}

// Write atomically replaces relPath's content on fsys: a temp file is
// created alongside the destination and renamed into place, so a reader
// never observes a partially-written .ftl file. It mirrors the teacher's
// splice-then-rename pattern for source writeback, adapted to address the
// filesystem through billy.Filesystem instead of bare os calls. A dry run
// skips the write entirely and reports success.
func Write(fsys billy.Filesystem, relPath string, content []byte, dryRun bool) error {
	if dryRun {
		return nil
	}

	dir := path.Dir(relPath)
	if dir != "." && dir != "" {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("reconcile: mkdir %s: %w", dir, err)
		}
	}

	tmp, err := fsys.TempFile(dir, ".fluentkeys-*")
	if err != nil {
		return fmt.Errorf("reconcile: create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("reconcile: write temp %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("reconcile: close temp %s: %w", tmpName, err)
	}
	if err := fsys.Rename(tmpName, relPath); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("reconcile: rename temp to %s: %w", relPath, err)
	}
	return nil
}
