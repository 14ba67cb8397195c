package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/fluentkeys/internal/reconcile"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestDefaults_MatchBuiltInTables(t *testing.T) {
	opts := Defaults()
	assert.Equal(t, []string{"en"}, opts.Locales)
	assert.Equal(t, []string{"i18n", "L", "LazyProxy", "LazyFilter"}, opts.I18nKeys)
	assert.Equal(t, []string{"self", "cls"}, opts.I18nKeysPrefix)
	assert.Equal(t, []string{"set_locale", "use_locale", "use_context", "set_context"}, opts.IgnoreAttributes)
	assert.Equal(t, reconcile.CommentModeComment, opts.CommentKeysMode)
	assert.Equal(t, reconcile.LineEndingDefault, opts.LineEnding)
	assert.Equal(t, "_default.ftl", opts.DefaultFTLFilename)
}

func TestDefaults_ReturnsIndependentSlices(t *testing.T) {
	a := Defaults()
	a.Locales[0] = "mutated"
	b := Defaults()
	assert.Equal(t, "en", b.Locales[0])
}

func TestApplyFile_OverridesDefaultsWhenSet(t *testing.T) {
	opts := Defaults()
	file := &File{
		Locales:         []string{"en", "uk"},
		CommentKeysMode: strPtr("warn"),
	}
	opts = opts.ApplyFile(file)
	assert.Equal(t, []string{"en", "uk"}, opts.Locales)
	assert.Equal(t, reconcile.CommentModeWarn, opts.CommentKeysMode)
	// Untouched fields keep their default.
	assert.Equal(t, []string{"i18n", "L", "LazyProxy", "LazyFilter"}, opts.I18nKeys)
}

func TestApplyFile_NilFileIsNoop(t *testing.T) {
	opts := Defaults()
	got := opts.ApplyFile(nil)
	assert.Equal(t, opts, got)
}

func TestApplyFlags_FlagsWinOverConfigFileAndDefaults(t *testing.T) {
	opts := Defaults()
	opts = opts.ApplyFile(&File{Locales: []string{"en", "uk"}})
	opts = opts.ApplyFlags(Flags{Locales: []string{"fr"}})
	assert.Equal(t, []string{"fr"}, opts.Locales)
}

func TestApplyFlags_AppendVariantUnionsWithoutDuplicates(t *testing.T) {
	opts := Defaults()
	opts = opts.ApplyFlags(Flags{I18nKeysAppend: []string{"L", "gettext"}})
	assert.Equal(t, []string{"i18n", "L", "LazyProxy", "LazyFilter", "gettext"}, opts.I18nKeys)
}

func TestApplyFlags_BaseVariantReplacesRatherThanUnions(t *testing.T) {
	opts := Defaults()
	opts = opts.ApplyFlags(Flags{I18nKeys: []string{"translate"}})
	assert.Equal(t, []string{"translate"}, opts.I18nKeys)
}

func TestApplyFlags_UnsetPointerFieldsLeaveOptsUntouched(t *testing.T) {
	opts := Defaults()
	opts.Verbose = true
	got := opts.ApplyFlags(Flags{})
	assert.True(t, got.Verbose)
	assert.Equal(t, opts.CommentKeysMode, got.CommentKeysMode)
}

func TestApplyFlags_BoolPointerOverridesExplicitFalse(t *testing.T) {
	opts := Defaults()
	opts.Verbose = true
	got := opts.ApplyFlags(Flags{Verbose: boolPtr(false)})
	assert.False(t, got.Verbose)
}

func TestApplyFlags_InvalidCommentModeLeavesPreviousValue(t *testing.T) {
	opts := Defaults()
	opts.CommentKeysMode = reconcile.CommentModeWarn
	got := opts.ApplyFlags(Flags{CommentKeysMode: strPtr("not-a-real-mode")})
	assert.Equal(t, reconcile.CommentModeWarn, got.CommentKeysMode)
}

func TestUnionAppend_PreservesBaseOrderAndAppendsNewOnly(t *testing.T) {
	got := unionAppend([]string{"a", "b"}, []string{"b", "c", "a", "d"})
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
}

func TestRecognizerConfig_BuildsSetsFromSlices(t *testing.T) {
	opts := Defaults()
	cfg := opts.RecognizerConfig()
	_, ok := cfg.I18nKeys["i18n"]
	assert.True(t, ok)
	_, ok = cfg.IgnoreAttributes["set_locale"]
	assert.True(t, ok)
	assert.Equal(t, "_default.ftl", cfg.DefaultFTLFilename)
}

func TestParseLineEnding_RecognizesAllModes(t *testing.T) {
	cases := map[string]reconcile.LineEnding{
		"":       reconcile.LineEndingDefault,
		"default": reconcile.LineEndingDefault,
		"lf":     reconcile.LineEndingLF,
		"cr":     reconcile.LineEndingCR,
		"crlf":   reconcile.LineEndingCRLF,
	}
	for in, want := range cases {
		got, ok := parseLineEnding(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := parseLineEnding("bogus")
	assert.False(t, ok)
}
