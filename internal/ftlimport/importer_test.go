package ftlimport

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/fluentkeys/internal/fluent"
)

func newLocaleFS(t *testing.T, files map[string]string) *memfs.Memory {
	t.Helper()
	fsys := memfs.New()
	for p, content := range files {
		require.NoError(t, util.WriteFile(fsys, p, []byte(content), 0o644))
	}
	return fsys
}

func TestImportDir_BucketsMessagesAndTerms(t *testing.T) {
	fsys := newLocaleFS(t, map[string]string{
		"en/main.ftl": "greeting = Hello, world!\n-brand-name = Firefox\n",
	})
	res, err := ImportDir(fsys, "en", "en")
	require.NoError(t, err)
	require.Contains(t, res.Keys, "greeting")
	require.Contains(t, res.Terms, "brand-name")
	assert.Equal(t, "en", res.Keys["greeting"].Locale)
	assert.Equal(t, "main.ftl", res.Keys["greeting"].Path)
}

func TestImportDir_JunkGoesToMisc(t *testing.T) {
	fsys := newLocaleFS(t, map[string]string{
		"en/main.ftl": "not valid fluent at all\n",
	})
	res, err := ImportDir(fsys, "en", "en")
	require.NoError(t, err)
	require.Len(t, res.Misc, 1)
	_, ok := res.Misc[0].Entry.(*fluent.Junk)
	assert.True(t, ok)
}

func TestImportDir_CommentsGoToMisc(t *testing.T) {
	fsys := newLocaleFS(t, map[string]string{
		"en/main.ftl": "# a standalone comment\n\ngreeting = Hi\n",
	})
	res, err := ImportDir(fsys, "en", "en")
	require.NoError(t, err)
	require.Len(t, res.Misc, 1)
	_, ok := res.Misc[0].Entry.(*fluent.Comment)
	assert.True(t, ok)
}

func TestImportDir_AggregatesAcrossMultipleFiles(t *testing.T) {
	fsys := newLocaleFS(t, map[string]string{
		"en/main.ftl":     "greeting = Hi\n",
		"en/settings.ftl": "title = Settings\n",
	})
	res, err := ImportDir(fsys, "en", "en")
	require.NoError(t, err)
	assert.Contains(t, res.Keys, "greeting")
	assert.Contains(t, res.Keys, "title")
	assert.Equal(t, "main.ftl", res.Keys["greeting"].Path)
	assert.Equal(t, "settings.ftl", res.Keys["title"].Path)
	assert.Equal(t, 2, res.FilesCount)
}

func TestImportDir_PreservesPosition(t *testing.T) {
	fsys := newLocaleFS(t, map[string]string{
		"en/main.ftl": "first = One\nsecond = Two\n",
	})
	res, err := ImportDir(fsys, "en", "en")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Keys["first"].Position)
	assert.Equal(t, 1, res.Keys["second"].Position)
}

func TestImportDir_IgnoresNonFTLFiles(t *testing.T) {
	fsys := newLocaleFS(t, map[string]string{
		"en/main.ftl": "greeting = Hi\n",
		"en/notes.md": "not fluent\n",
	})
	res, err := ImportDir(fsys, "en", "en")
	require.NoError(t, err)
	assert.Len(t, res.Keys, 1)
}
