// Package stats tracks the deterministic per-locale counters this module
// reports after an extraction run, and marshals them for --verbose output.
package stats

import (
	"github.com/google/uuid"
	"github.com/ohler55/ojg/oj"
)

// Locale is one locale's extraction counters.
type Locale struct {
	Locale          string `json:"locale"`
	FilesCount      int    `json:"files_count"`
	StoredKeysCount int    `json:"stored_keys_count"`
	InCodeKeysCount int    `json:"in_code_keys_count"`
	Added           int    `json:"added"`
	Updated         int    `json:"updated"`
	Commented       int    `json:"commented"`
}

// Run aggregates every locale processed during one extraction invocation,
// tagged with a run ID so log lines from concurrently-processed locales
// can be correlated back to a single CLI invocation.
type Run struct {
	RunID        string   `json:"run_id"`
	PyFilesCount int      `json:"py_files_count"`
	FtlFilesCount int     `json:"ftl_files_count"`
	Locales      []Locale `json:"locales"`
}

// NewRun creates a Run tagged with a fresh run ID.
func NewRun() *Run {
	return &Run{RunID: uuid.NewString()}
}

// AddLocale appends one locale's counters to the run, in whatever order
// the caller observed it complete — Level 2 locales are reconciled
// concurrently and this module makes no promise about completion order.
func (r *Run) AddLocale(l Locale) {
	r.Locales = append(r.Locales, l)
}

// MarshalJSON renders the run's statistics as JSON, using
// the same JSON engine this module's teacher already depends on for its
// JSONPath walker.
func (r *Run) MarshalJSON() ([]byte, error) {
	return oj.Marshal(runAlias(*r))
}

// runAlias avoids infinite recursion through Run's own MarshalJSON when
// oj reflects over the struct.
type runAlias Run
