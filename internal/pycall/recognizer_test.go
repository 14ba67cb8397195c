package pycall

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/fluentkeys/internal/fluent"
)

func recognizeSrc(t *testing.T, src string, cfg Config) []string {
	t.Helper()
	tree, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	keys := Recognize(tree, []byte(src), "app/views.py", cfg)
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.Name
	}
	return names
}

func defaultConfig() Config {
	return Config{
		I18nKeys:           map[string]struct{}{"i18n": {}},
		I18nKeysPrefix:     map[string]struct{}{"self": {}},
		IgnoreAttributes:   map[string]struct{}{},
		IgnoreKwargs:       map[string]struct{}{},
		DefaultFTLFilename: "main.ftl",
	}
}

func TestRecognize_BareNameCall(t *testing.T) {
	names := recognizeSrc(t, `i18n("welcome-message")`, defaultConfig())
	require.Len(t, names, 1)
	assert.Equal(t, "welcome-message", names[0])
}

func TestRecognize_AttributeGetCallWithPrefix(t *testing.T) {
	names := recognizeSrc(t, `self.i18n.get("welcome-message")`, defaultConfig())
	require.Len(t, names, 1)
	assert.Equal(t, "welcome-message", names[0])
}

func TestRecognize_AttributeChainJoinReversedWithDash(t *testing.T) {
	names := recognizeSrc(t, `i18n.start_menu.title()`, defaultConfig())
	require.Len(t, names, 1)
	assert.Equal(t, "start_menu-title", names[0])
}

func TestRecognize_IgnoreAttributesSuppressesChain(t *testing.T) {
	cfg := defaultConfig()
	cfg.IgnoreAttributes["set_locale"] = struct{}{}
	names := recognizeSrc(t, `i18n.set_locale()`, cfg)
	assert.Empty(t, names)
}

func TestRecognize_UnrecognizedBaseNameSkipped(t *testing.T) {
	names := recognizeSrc(t, `other_thing.get("key")`, defaultConfig())
	assert.Empty(t, names)
}

func TestRecognize_PathKeywordOverridesDestinationWithoutExtension(t *testing.T) {
	tree, err := Parse(context.Background(), []byte(`i18n("menu-title", _path="settings")`))
	require.NoError(t, err)
	cfg := defaultConfig()
	keys := Recognize(tree, []byte(`i18n("menu-title", _path="settings")`), "app/views.py", cfg)
	require.Len(t, keys, 1)
	assert.Equal(t, "settings/main.ftl", keys[0].Path)
}

func TestRecognize_PathKeywordWithExtensionUsedVerbatim(t *testing.T) {
	src := `i18n("menu-title", _path="settings/custom.ftl")`
	tree, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	cfg := defaultConfig()
	keys := Recognize(tree, []byte(src), "app/views.py", cfg)
	require.Len(t, keys, 1)
	assert.Equal(t, "settings/custom.ftl", keys[0].Path)
}

func TestRecognize_KeywordArgumentsBecomePlaceholders(t *testing.T) {
	src := `i18n("greeting", name=user.name, count=n)`
	tree, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	cfg := defaultConfig()
	keys := Recognize(tree, []byte(src), "app/views.py", cfg)
	require.Len(t, keys, 1)
	msg := keys[0].Message()
	require.NotNil(t, msg)
	require.Len(t, msg.Value.Elements, 5)
	ph1, ok := msg.Value.Elements[2].(fluent.Placeable)
	require.True(t, ok)
	ref1, ok := ph1.Expression.(fluent.VariableReference)
	require.True(t, ok)
	assert.Equal(t, "name", ref1.ID.Name)
	ph2, ok := msg.Value.Elements[4].(fluent.Placeable)
	require.True(t, ok)
	ref2, ok := ph2.Expression.(fluent.VariableReference)
	require.True(t, ok)
	assert.Equal(t, "count", ref2.ID.Name)
}

func TestRecognize_IgnoreKwargsSuppressesPlaceholder(t *testing.T) {
	src := `i18n("greeting", name=user.name, debug=True)`
	tree, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	cfg := defaultConfig()
	cfg.IgnoreKwargs["debug"] = struct{}{}
	keys := Recognize(tree, []byte(src), "app/views.py", cfg)
	require.Len(t, keys, 1)
	msg := keys[0].Message()
	require.Len(t, msg.Value.Elements, 3)
}

func TestRecognize_NoPositionalArgumentSkipped(t *testing.T) {
	names := recognizeSrc(t, `i18n(key_var)`, defaultConfig())
	assert.Empty(t, names)
}

func TestRecognize_MultipleCallSitesInSourceOrder(t *testing.T) {
	src := "i18n(\"first-key\")\ni18n(\"second-key\")\n"
	names := recognizeSrc(t, src, defaultConfig())
	require.Len(t, names, 2)
	assert.Equal(t, []string{"first-key", "second-key"}, names)
}
