// Package pycall recognizes i18n call sites in Python source using
// tree-sitter's Python grammar and turns them into fluent keys. It is the
// Go home for the call-site recognition rules: attribute-chain collapsing,
// the i18n-keys/i18n-keys-prefix dispatch, the ".get()" literal-key special
// case, and keyword-argument-to-placeholder mapping.
package pycall

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parse parses Python source into a tree-sitter tree.
func Parse(ctx context.Context, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("pycall: tree-sitter parse failed: %w", err)
	}
	return tree, nil
}

// SyntaxError reports a parse failure location, mirroring the teacher's
// writeback.ValidationError for the one language this module cares about.
type SyntaxError struct {
	FilePath string
	Line     uint32
	Column   uint32
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: syntax error in AST", e.FilePath, e.Line+1, e.Column+1)
}

// CheckSyntax parses src and returns a *SyntaxError if the resulting tree
// contains an ERROR or MISSING node, so callers can skip the file per the
// per-file parse-tolerance policy instead of aborting the whole extraction.
func CheckSyntax(ctx context.Context, src []byte, filePath string) error {
	tree, err := Parse(ctx, src)
	if err != nil {
		return err
	}
	root := tree.RootNode()
	if root == nil {
		return fmt.Errorf("pycall: tree-sitter returned nil root for %s", filePath)
	}
	if !root.HasError() {
		return nil
	}
	if bad := findFirstError(root); bad != nil {
		return &SyntaxError{FilePath: filePath, Line: uint32(bad.StartPoint().Row), Column: uint32(bad.StartPoint().Column)}
	}
	return &SyntaxError{FilePath: filePath}
}

func findFirstError(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.HasError() || child.IsError() || child.IsMissing() {
			if found := findFirstError(child); found != nil {
				return found
			}
		}
	}
	return nil
}
