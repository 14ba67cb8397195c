package pycall

import (
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/agentic-research/fluentkeys/internal/fluent"
	"github.com/agentic-research/fluentkeys/internal/key"
)

// GetLiteral is the attribute name that, when it is the sole attribute in
// an i18n call chain, switches key resolution from attribute-chain-join to
// "first positional string literal is the key verbatim".
const GetLiteral = "get"

// PathLiteral is the keyword argument name that, instead of becoming a
// placeholder, overrides the destination .ftl file for a key.
const PathLiteral = "_path"

// Config carries the call-site recognition rules: which names are treated
// as the i18n object itself, which names are treated as a prefix in front
// of one (e.g. "self" in "self.i18n.get(...)"), which attributes are never
// treated as key-namespace roots, which keyword arguments never become
// placeholders, and the filename appended to a bare "_path" directory.
type Config struct {
	I18nKeys           map[string]struct{}
	I18nKeysPrefix     map[string]struct{}
	IgnoreAttributes   map[string]struct{}
	IgnoreKwargs       map[string]struct{}
	DefaultFTLFilename string
}

// Recognize walks every node of tree in source order and returns one key
// per recognized i18n call site. Call sites it cannot make sense of (the
// wrong shape, an unrecognized base name, a non-literal key argument) are
// silently skipped — they are ordinary calls to something else.
func Recognize(tree *sitter.Tree, src []byte, codePath string, cfg Config) []*key.Key {
	var keys []*key.Key
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "call" {
			if name, ok := recognizeCall(n, src, cfg); ok {
				keys = append(keys, buildKey(name, n, src, cfg, codePath))
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
	return keys
}

func recognizeCall(call *sitter.Node, src []byte, cfg Config) (string, bool) {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return "", false
	}
	switch fn.Type() {
	case "identifier":
		return processNameCall(fn, call, src, cfg)
	case "attribute":
		return processAttributeCall(fn, call, src, cfg)
	default:
		return "", false
	}
}

// processNameCall handles "i18n_key(\"literal\", ...)": a bare call to a
// name that is itself in the i18n-keys set.
func processNameCall(fn, call *sitter.Node, src []byte, cfg Config) (string, bool) {
	name := nodeText(fn, src)
	if _, ok := cfg.I18nKeys[name]; !ok {
		return "", false
	}
	positional, _ := splitArguments(call.ChildByFieldName("arguments"))
	if len(positional) == 0 {
		return "", false
	}
	return stringLiteralValue(positional[0], src)
}

// processAttributeCall handles "a.b.c(...)" calls: it collapses the
// attribute chain down to its base identifier, resolves the base against
// the i18n-keys/i18n-keys-prefix sets, and dispatches the remaining
// attribute segments to the get-literal or attribute-join key builders.
func processAttributeCall(fn, call *sitter.Node, src []byte, cfg Config) (string, bool) {
	base, attrs, ok := collapseAttributeChain(fn, src)
	if !ok {
		return "", false
	}
	resolved, ok := resolveI18nBase(base, attrs, cfg)
	if !ok {
		return "", false
	}
	return dispatchI18nKeyCall(resolved, call.ChildByFieldName("arguments"), src, cfg)
}

// collapseAttributeChain walks down a nested "attribute" node, collecting
// attribute names leaf-first (closest to the call first) until it reaches
// a plain identifier, which becomes the base. Any other shape at the
// bottom of the chain (a call, a subscript, ...) is not recognized.
func collapseAttributeChain(fn *sitter.Node, src []byte) (base string, attrs []string, ok bool) {
	cur := fn
	for cur != nil && cur.Type() == "attribute" {
		attrName := cur.ChildByFieldName("attribute")
		if attrName == nil {
			return "", nil, false
		}
		attrs = append(attrs, nodeText(attrName, src))
		cur = cur.ChildByFieldName("object")
	}
	if cur == nil || cur.Type() != "identifier" {
		return "", nil, false
	}
	return nodeText(cur, src), attrs, true
}

// resolveI18nBase decides whether a collapsed chain's base identifier
// names the i18n object directly, or names a prefix object in front of
// one (e.g. "self" in front of "i18n"). In the prefix case the i18n
// object's own name is popped off attrs before returning, leaving attrs
// holding only the segments that belong to the key itself.
func resolveI18nBase(base string, attrs []string, cfg Config) ([]string, bool) {
	if _, ok := cfg.I18nKeys[base]; ok {
		return attrs, true
	}
	if _, ok := cfg.I18nKeysPrefix[base]; ok && len(attrs) > 0 {
		last := attrs[len(attrs)-1]
		if _, ok2 := cfg.I18nKeys[last]; ok2 {
			return attrs[:len(attrs)-1], true
		}
	}
	return nil, false
}

// dispatchI18nKeyCall implements the get-literal vs attribute-join split:
// a chain that is exactly [".get"] reads its key from the first positional
// string literal argument; anything else joins the attribute segments,
// root to leaf, with "-".
func dispatchI18nKeyCall(attrs []string, argList *sitter.Node, src []byte, cfg Config) (string, bool) {
	if len(attrs) == 1 && attrs[0] == GetLiteral {
		positional, _ := splitArguments(argList)
		if len(positional) == 0 {
			return "", false
		}
		return stringLiteralValue(positional[0], src)
	}
	return joinAttributeKey(attrs, cfg)
}

func joinAttributeKey(attrs []string, cfg Config) (string, bool) {
	if len(attrs) == 0 {
		return "", false
	}
	last := attrs[len(attrs)-1]
	if _, ignored := cfg.IgnoreAttributes[last]; ignored {
		return "", false
	}
	rev := make([]string, len(attrs))
	for i, a := range attrs {
		rev[len(attrs)-1-i] = a
	}
	return strings.Join(rev, "-"), true
}

// buildKey assembles the generated fluent.Message for a recognized call:
// the key name as its own text, followed by one placeholder per keyword
// argument not claimed by "_path" or ignore-kwargs. Each placeholder is
// preceded by a newline/indent TextElement so it serializes onto its own
// line, matching the style this module's generated entries use.
func buildKey(name string, call *sitter.Node, src []byte, cfg Config, codePath string) *key.Key {
	msg := &fluent.Message{
		ID:    fluent.Identifier{Name: name},
		Value: &fluent.Pattern{Elements: []fluent.PatternElement{fluent.TextElement{Value: name}}},
	}
	k := key.New(name, msg)
	k.CodePath = codePath

	_, keywordNodes := splitArguments(call.ChildByFieldName("arguments"))
	for _, kw := range keywordNodes {
		argName := keywordArgumentName(kw, src)
		if argName == "" {
			continue
		}
		valueNode := kw.ChildByFieldName("value")
		if argName == PathLiteral {
			if s, ok := stringLiteralValue(valueNode, src); ok {
				k.Path = withDefaultFTLFile(s, cfg.DefaultFTLFilename)
			}
			continue
		}
		if _, ignored := cfg.IgnoreKwargs[argName]; ignored {
			continue
		}
		msg.Value.Elements = append(msg.Value.Elements,
			fluent.TextElement{Value: "\n    "},
			fluent.Placeable{Expression: fluent.VariableReference{ID: fluent.Identifier{Name: argName}}},
		)
	}
	return k
}

func withDefaultFTLFile(p, defaultName string) string {
	if path.Ext(p) == "" {
		return path.Join(p, defaultName)
	}
	return p
}
