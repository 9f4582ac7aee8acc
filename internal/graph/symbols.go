package graph

// SymbolKind classifies an extracted definition.
type SymbolKind string

const (
	KindInterface SymbolKind = "interface"
	KindTypeAlias SymbolKind = "type-alias"
	KindClass     SymbolKind = "class"
	KindFunction  SymbolKind = "function"
	KindEnum      SymbolKind = "enum"
	KindVariable  SymbolKind = "variable"
)

// Pos is a position within a source file. Line is 1-based; Column is the
// 0-based byte column reported by the parser.
type Pos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// SymbolDef is a named construct extracted from a parsed source file.
type SymbolDef struct {
	Path     string     `json:"path"`
	Name     string     `json:"name"`
	Kind     SymbolKind `json:"kind"`
	Exported bool       `json:"exported"`
	Text     string     `json:"text"`
	Pos      Pos        `json:"pos"`
}

// Import records one import statement: its module specifier and the local
// names it binds.
type Import struct {
	Source string   `json:"source"`
	Names  []string `json:"names,omitempty"`
}

// Export records one exported name.
type Export struct {
	Name string     `json:"name"`
	Kind SymbolKind `json:"kind"`
}

// FileMeta is the import/export metadata of a single source file.
type FileMeta struct {
	Imports []Import `json:"imports,omitempty"`
	Exports []Export `json:"exports,omitempty"`
}

// Edge is a resolved relative import between two files in the tree.
type Edge struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Specifier string `json:"specifier"`
}

// Graph is the assembled file-dependency graph.
type Graph struct {
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// Hotspot is a file ranked by total import/export degree.
type Hotspot struct {
	Path   string `json:"path"`
	Degree int    `json:"degree"`
}
