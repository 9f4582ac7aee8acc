package graph

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// Parser wraps a Tree-sitter parser configured with the JavaScript grammar.
// The grammar also serves .ts/.tsx input; TypeScript-only constructs that
// fail to parse degrade to skipped subtrees, which the error policy allows.
//
// A Parser is not safe for concurrent use; each worker owns its own.
type Parser struct {
	inner *tree_sitter.Parser
}

// NewParser creates a parser with the JavaScript language set.
func NewParser() *Parser {
	p := tree_sitter.NewParser()
	p.SetLanguage(tree_sitter.NewLanguage(tree_sitter_javascript.Language()))
	return &Parser{inner: p}
}

// Parse parses src and returns the syntax tree, or nil when the parser
// produced nothing usable. The caller must Close the returned tree.
func (p *Parser) Parse(src []byte) *tree_sitter.Tree {
	return p.inner.Parse(src, nil)
}

// Close releases parser resources.
func (p *Parser) Close() {
	if p.inner != nil {
		p.inner.Close()
	}
}
