package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/agentic-research/fluentkeys/internal/reconcile"
)

// File is the decoded shape of an optional --config file. Every field is
// optional; an unset field leaves the built-in default (or an
// already-set CLI flag) untouched.
type File struct {
	Locales            []string `hcl:"languages,optional"`
	I18nKeys           []string `hcl:"i18n_keys,optional"`
	I18nKeysPrefix     []string `hcl:"i18n_keys_prefix,optional"`
	ExcludeDirs        []string `hcl:"exclude_dirs,optional"`
	IgnoreAttributes   []string `hcl:"ignore_attributes,optional"`
	IgnoreKwargs       []string `hcl:"ignore_kwargs,optional"`
	CommentKeysMode    *string  `hcl:"comment_keys_mode,optional"`
	CommentJunks       *bool    `hcl:"comment_junks,optional"`
	LineEndings        *string  `hcl:"line_endings,optional"`
	DefaultFTLFilename *string  `hcl:"default_ftl_file,optional"`
}

// LoadFile decodes an HCL config file at path.
func LoadFile(path string) (*File, error) {
	var f File
	if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return &f, nil
}

// ApplyFile layers a decoded config file's settings on top of opts,
// overriding the built-in defaults wherever the file sets a value. It
// never overrides a value the caller has already taken from a CLI flag;
// callers call this before applying flags, per the documented precedence
// (flags win over config file, config file wins over defaults).
func (o Options) ApplyFile(f *File) Options {
	if f == nil {
		return o
	}
	out := o
	if len(f.Locales) > 0 {
		out.Locales = f.Locales
	}
	if len(f.I18nKeys) > 0 {
		out.I18nKeys = f.I18nKeys
	}
	if len(f.I18nKeysPrefix) > 0 {
		out.I18nKeysPrefix = f.I18nKeysPrefix
	}
	if len(f.ExcludeDirs) > 0 {
		out.ExcludeDirs = f.ExcludeDirs
	}
	if len(f.IgnoreAttributes) > 0 {
		out.IgnoreAttributes = f.IgnoreAttributes
	}
	if len(f.IgnoreKwargs) > 0 {
		out.IgnoreKwargs = f.IgnoreKwargs
	}
	if f.CommentKeysMode != nil {
		if mode, ok := parseCommentMode(*f.CommentKeysMode); ok {
			out.CommentKeysMode = mode
		}
	}
	if f.CommentJunks != nil {
		out.CommentJunks = *f.CommentJunks
	}
	if f.LineEndings != nil {
		if le, ok := parseLineEnding(*f.LineEndings); ok {
			out.LineEnding = le
		}
	}
	if f.DefaultFTLFilename != nil {
		out.DefaultFTLFilename = *f.DefaultFTLFilename
	}
	return out
}

func parseCommentMode(s string) (reconcile.CommentMode, bool) {
	switch s {
	case "comment", "Comment", "":
		return reconcile.CommentModeComment, true
	case "warn", "Warn":
		return reconcile.CommentModeWarn, true
	default:
		return reconcile.CommentModeComment, false
	}
}

func parseLineEnding(s string) (reconcile.LineEnding, bool) {
	switch s {
	case "default", "":
		return reconcile.LineEndingDefault, true
	case "lf", "LF":
		return reconcile.LineEndingLF, true
	case "cr", "CR":
		return reconcile.LineEndingCR, true
	case "crlf", "CRLF":
		return reconcile.LineEndingCRLF, true
	default:
		return reconcile.LineEndingDefault, false
	}
}
