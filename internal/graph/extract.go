package graph

import (
	"strings"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// maxDefText caps the source text carried on a SymbolDef.
const maxDefText = 500

// extract walks the top level of a parsed file and collects symbol
// definitions in source order plus import/export metadata.
func extract(path string, root *tree_sitter.Node, src []byte) ([]SymbolDef, FileMeta) {
	var defs []SymbolDef
	var meta FileMeta

	count := root.NamedChildCount()
	for i := uint(0); i < count; i++ {
		n := root.NamedChild(i)
		switch n.Kind() {
		case "import_statement":
			if imp, ok := importFromNode(n, src); ok {
				meta.Imports = append(meta.Imports, imp)
			}
		case "export_statement":
			defs = appendExport(defs, &meta, path, n, src)
		default:
			defs = append(defs, defsFromNode(path, n, src, false)...)
		}
	}
	return defs, meta
}

// appendExport handles the three shapes of an export statement: an exported
// declaration, a specifier list, and a re-export with a source.
func appendExport(defs []SymbolDef, meta *FileMeta, path string, n *tree_sitter.Node, src []byte) []SymbolDef {
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		exported := defsFromNode(path, decl, src, true)
		for _, d := range exported {
			meta.Exports = append(meta.Exports, Export{Name: d.Name, Kind: d.Kind})
		}
		return append(defs, exported...)
	}

	names := exportSpecifierNames(n, src)
	for _, name := range names {
		meta.Exports = append(meta.Exports, Export{Name: name, Kind: KindVariable})
	}

	// `export { a } from './b'` is both an export and an import edge.
	if source := n.ChildByFieldName("source"); source != nil {
		meta.Imports = append(meta.Imports, Import{
			Source: unquote(source.Utf8Text(src)),
			Names:  names,
		})
	}
	return defs
}

// defsFromNode maps a declaration node to symbol definitions. Declarations
// that bind several names (let a = 1, b = 2) yield one definition each.
func defsFromNode(path string, n *tree_sitter.Node, src []byte, exported bool) []SymbolDef {
	switch n.Kind() {
	case "function_declaration", "generator_function_declaration":
		return namedDef(path, n, src, KindFunction, exported)
	case "class_declaration":
		return namedDef(path, n, src, KindClass, exported)
	case "interface_declaration":
		return namedDef(path, n, src, KindInterface, exported)
	case "type_alias_declaration":
		return namedDef(path, n, src, KindTypeAlias, exported)
	case "enum_declaration":
		return namedDef(path, n, src, KindEnum, exported)
	case "lexical_declaration", "variable_declaration":
		var defs []SymbolDef
		count := n.NamedChildCount()
		for i := uint(0); i < count; i++ {
			c := n.NamedChild(i)
			if c.Kind() != "variable_declarator" {
				continue
			}
			name := fieldText(c, "name", src)
			if name == "" {
				continue
			}
			defs = append(defs, SymbolDef{
				Path:     path,
				Name:     name,
				Kind:     KindVariable,
				Exported: exported,
				Text:     truncate(n.Utf8Text(src), maxDefText),
				Pos:      posOf(c),
			})
		}
		return defs
	}
	return nil
}

func namedDef(path string, n *tree_sitter.Node, src []byte, kind SymbolKind, exported bool) []SymbolDef {
	name := fieldText(n, "name", src)
	if name == "" {
		return nil
	}
	return []SymbolDef{{
		Path:     path,
		Name:     name,
		Kind:     kind,
		Exported: exported,
		Text:     truncate(n.Utf8Text(src), maxDefText),
		Pos:      posOf(n),
	}}
}

// importFromNode reads the specifier and local bindings of an import
// statement. Side-effect imports (import './x') have no names.
func importFromNode(n *tree_sitter.Node, src []byte) (Import, bool) {
	source := n.ChildByFieldName("source")
	if source == nil {
		return Import{}, false
	}
	imp := Import{Source: unquote(source.Utf8Text(src))}

	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		c := n.NamedChild(i)
		if c.Kind() == "import_clause" {
			imp.Names = append(imp.Names, bindingNames(c, src)...)
		}
	}
	return imp, true
}

// bindingNames collects local identifiers bound by an import clause: the
// default binding, named specifiers (honoring aliases), and namespace
// bindings.
func bindingNames(n *tree_sitter.Node, src []byte) []string {
	var names []string
	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		c := n.NamedChild(i)
		switch c.Kind() {
		case "identifier":
			names = append(names, c.Utf8Text(src))
		case "import_specifier":
			if alias := fieldText(c, "alias", src); alias != "" {
				names = append(names, alias)
			} else if name := fieldText(c, "name", src); name != "" {
				names = append(names, name)
			}
		default:
			names = append(names, bindingNames(c, src)...)
		}
	}
	return names
}

func exportSpecifierNames(n *tree_sitter.Node, src []byte) []string {
	var names []string
	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		c := n.NamedChild(i)
		if c.Kind() != "export_clause" {
			continue
		}
		cc := c.NamedChildCount()
		for j := uint(0); j < cc; j++ {
			s := c.NamedChild(j)
			if s.Kind() != "export_specifier" {
				continue
			}
			if alias := fieldText(s, "alias", src); alias != "" {
				names = append(names, alias)
			} else if name := fieldText(s, "name", src); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

func fieldText(n *tree_sitter.Node, field string, src []byte) string {
	c := n.ChildByFieldName(field)
	if c == nil {
		return ""
	}
	return c.Utf8Text(src)
}

func posOf(n *tree_sitter.Node) Pos {
	p := n.StartPosition()
	return Pos{Line: int(p.Row) + 1, Column: int(p.Column)}
}

func unquote(s string) string {
	return strings.Trim(s, `'"`+"`")
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
