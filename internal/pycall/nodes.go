package pycall

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

func nodeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(src)
}

// stringLiteralValue extracts the literal text of a Python "string" node,
// stripping quotes and any string prefix (f/r/b and combinations). It
// returns ok=false for f-strings that contain interpolation, since those
// are not a literal key or path.
func stringLiteralValue(n *sitter.Node, src []byte) (string, bool) {
	if n == nil || n.Type() != "string" {
		return "", false
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "interpolation" {
			return "", false
		}
	}
	raw := nodeText(n, src)
	return unquotePython(raw), true
}

func unquotePython(raw string) string {
	i := 0
	for i < len(raw) && isPrefixChar(raw[i]) {
		i++
	}
	s := raw[i:]
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}

func isPrefixChar(c byte) bool {
	switch c {
	case 'f', 'F', 'r', 'R', 'b', 'B', 'u', 'U':
		return true
	default:
		return false
	}
}

// splitArguments pulls apart a Python "argument_list" node's children into
// positional and keyword arguments, skipping punctuation nodes.
func splitArguments(argList *sitter.Node) (positional []*sitter.Node, keyword []*sitter.Node) {
	if argList == nil {
		return nil, nil
	}
	for i := 0; i < int(argList.ChildCount()); i++ {
		child := argList.Child(i)
		switch child.Type() {
		case "(", ")", ",":
			continue
		case "keyword_argument":
			keyword = append(keyword, child)
		default:
			positional = append(positional, child)
		}
	}
	return positional, keyword
}

func keywordArgumentName(kw *sitter.Node, src []byte) string {
	return nodeText(kw.ChildByFieldName("name"), src)
}
