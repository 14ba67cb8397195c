package config

// Flags mirrors the CLI flags extract understands, already parsed into Go
// values by cobra. Every slice is nil when its flag was never passed, and
// every append variant is kept separate from its base variant so ApplyFlags
// can tell "replace" from "union with whatever came before".
type Flags struct {
	Locales            []string
	I18nKeys           []string
	I18nKeysAppend     []string
	I18nKeysPrefix     []string
	IgnoreAttributes   []string
	IgnoreAttrsAppend  []string
	IgnoreKwargs       []string
	ExcludeDirs        []string
	ExcludeDirsAppend  []string
	CommentKeysMode    *string
	CommentJunks       *bool
	LineEndings        *string
	DefaultFTLFilename *string
	DryRun             *bool
	Verbose            *bool
	Silent             *bool
}

// ApplyFlags layers CLI flag values on top of opts, which should already
// have defaults and any config file applied. A flag always wins outright
// over whatever opts already held; its "-X-append" counterpart instead
// unions new values into opts without discarding what was already there,
// matching the CLI's append-flag semantics for i18n keys, exclude dirs and
// ignored attributes.
func (o Options) ApplyFlags(f Flags) Options {
	out := o
	if len(f.Locales) > 0 {
		out.Locales = f.Locales
	}
	if len(f.I18nKeys) > 0 {
		out.I18nKeys = f.I18nKeys
	}
	if len(f.I18nKeysAppend) > 0 {
		out.I18nKeys = unionAppend(out.I18nKeys, f.I18nKeysAppend)
	}
	if len(f.I18nKeysPrefix) > 0 {
		out.I18nKeysPrefix = f.I18nKeysPrefix
	}
	if len(f.IgnoreAttributes) > 0 {
		out.IgnoreAttributes = f.IgnoreAttributes
	}
	if len(f.IgnoreAttrsAppend) > 0 {
		out.IgnoreAttributes = unionAppend(out.IgnoreAttributes, f.IgnoreAttrsAppend)
	}
	if len(f.IgnoreKwargs) > 0 {
		out.IgnoreKwargs = f.IgnoreKwargs
	}
	if len(f.ExcludeDirs) > 0 {
		out.ExcludeDirs = f.ExcludeDirs
	}
	if len(f.ExcludeDirsAppend) > 0 {
		out.ExcludeDirs = unionAppend(out.ExcludeDirs, f.ExcludeDirsAppend)
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
	if f.DryRun != nil {
		out.DryRun = *f.DryRun
	}
	if f.Verbose != nil {
		out.Verbose = *f.Verbose
	}
	if f.Silent != nil {
		out.Silent = *f.Silent
	}
	return out
}

// unionAppend returns base with every value from extra that isn't already
// present, preserving base's order and appending new values in the order
// they appear in extra.
func unionAppend(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, v := range base {
		seen[v] = struct{}{}
	}
	out := append([]string(nil), base...)
	for _, v := range extra {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
