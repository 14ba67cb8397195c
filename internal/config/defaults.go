// Package config holds the built-in defaults this module ships with, the
// optional HCL configuration file format, and the precedence rules that
// combine defaults, config file and CLI flags into the options the
// extractor actually runs with.
package config

import (
	"github.com/agentic-research/fluentkeys/internal/pycall"
	"github.com/agentic-research/fluentkeys/internal/reconcile"
	"github.com/agentic-research/fluentkeys/internal/walker"
)

// DefaultFTLFilename is the file a "_path" override without an extension
// is given, and the file brand-new keys with no override land in.
const DefaultFTLFilename = "_default.ftl"

// DefaultI18nKeys is the built-in set of names treated as the i18n object
// itself.
var DefaultI18nKeys = []string{"i18n", "L", "LazyProxy", "LazyFilter"}

// DefaultI18nKeysPrefix is the built-in set of names treated as a prefix
// in front of an i18n object, e.g. "self" in "self.i18n.get(...)".
var DefaultI18nKeysPrefix = []string{"self", "cls"}

// DefaultExcludeDirs is the built-in set of directory globs every walk
// skips unless overridden.
var DefaultExcludeDirs = walker.DefaultExcludeDirs

// DefaultIgnoreAttributes is the built-in set of attribute names that are
// never treated as key-namespace roots: locale-switching helpers that are
// attribute calls on the i18n object but never key lookups.
var DefaultIgnoreAttributes = []string{"set_locale", "use_locale", "use_context", "set_context"}

// DefaultIgnoreKwargs is the built-in set of keyword argument names that
// never become placeholders. Empty: every keyword argument becomes a
// placeholder unless the caller asks otherwise.
var DefaultIgnoreKwargs = []string{}

// DefaultLocales is the built-in set of locale directories processed when
// -l/--language is never passed.
var DefaultLocales = []string{"en"}

// Options is the fully resolved set of options one extraction run needs,
// after defaults, config file and CLI flags have been layered together.
type Options struct {
	// Locales is the set of locale directories to reconcile, e.g.
	// ["en", "uk"].
	Locales            []string
	I18nKeys           []string
	I18nKeysPrefix     []string
	ExcludeDirs        []string
	IgnoreAttributes   []string
	IgnoreKwargs       []string
	CommentKeysMode    reconcile.CommentMode
	CommentJunks       bool
	LineEnding         reconcile.LineEnding
	DefaultFTLFilename string
	DryRun             bool
	Verbose            bool
	Silent             bool
}

// Defaults returns the built-in Options before any config file or flags
// are applied.
func Defaults() Options {
	return Options{
		Locales:            append([]string(nil), DefaultLocales...),
		I18nKeys:           append([]string(nil), DefaultI18nKeys...),
		I18nKeysPrefix:     append([]string(nil), DefaultI18nKeysPrefix...),
		ExcludeDirs:        append([]string(nil), DefaultExcludeDirs...),
		IgnoreAttributes:   append([]string(nil), DefaultIgnoreAttributes...),
		IgnoreKwargs:       append([]string(nil), DefaultIgnoreKwargs...),
		CommentKeysMode:    reconcile.CommentModeComment,
		CommentJunks:       false,
		LineEnding:         reconcile.LineEndingDefault,
		DefaultFTLFilename: DefaultFTLFilename,
	}
}

// RecognizerConfig builds the pycall.Config the call-site recognizer needs
// out of the resolved options.
func (o Options) RecognizerConfig() pycall.Config {
	return pycall.Config{
		I18nKeys:           toSet(o.I18nKeys),
		I18nKeysPrefix:     toSet(o.I18nKeysPrefix),
		IgnoreAttributes:   toSet(o.IgnoreAttributes),
		IgnoreKwargs:       toSet(o.IgnoreKwargs),
		DefaultFTLFilename: o.DefaultFTLFilename,
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
