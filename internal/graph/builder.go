package graph

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// maxParseWorkers caps the parse fan-out regardless of GOMAXPROCS.
	maxParseWorkers = 12

	// existsCacheSize bounds the file-existence memoization used during
	// import resolution.
	existsCacheSize = 4096
)

// Builder parses a source tree and assembles its code graph. All caches are
// owned by the instance, so concurrent builds over different roots stay
// isolated.
type Builder struct {
	root   string
	exists *lru.Cache[string, bool]

	files []string
	defs  map[string][]SymbolDef
	meta  map[string]FileMeta
	graph *Graph
}

// NewBuilder creates a Builder for the repository at root. The root must be
// an existing directory.
func NewBuilder(root string) (*Builder, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("repository root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("repository root %s is not a directory", root)
	}
	exists, err := lru.New[string, bool](existsCacheSize)
	if err != nil {
		return nil, fmt.Errorf("existence cache: %w", err)
	}
	return &Builder{
		root:   root,
		exists: exists,
		defs:   make(map[string][]SymbolDef),
		meta:   make(map[string]FileMeta),
	}, nil
}

type parseResult struct {
	defs []SymbolDef
	meta FileMeta
}

// Build scans the tree, parses every candidate file in parallel, then
// resolves import edges in a single sequential pass. A file that fails to
// read or parse contributes no definitions and no edges.
func (b *Builder) Build() (*Graph, error) {
	files, err := Scan(b.root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", b.root, err)
	}
	b.files = files

	results := make([]parseResult, len(files))

	width := runtime.GOMAXPROCS(0)
	if width > maxParseWorkers {
		width = maxParseWorkers
	}
	if width > len(files) {
		width = len(files)
	}

	// Fan-out: workers pull indexes from a shared counter and write into
	// disjoint slots, so the result table needs no locking.
	var next atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < width; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := NewParser()
			defer p.Close()
			for {
				i := int(next.Add(1)) - 1
				if i >= len(files) {
					return
				}
				results[i] = b.parseFile(p, files[i])
			}
		}()
	}
	wg.Wait()

	// Fan-in and edge resolution stay single-threaded: resolution needs
	// the completed existence view across all parsed files.
	for i, f := range files {
		b.defs[f] = results[i].defs
		b.meta[f] = results[i].meta
	}

	g := &Graph{Nodes: append([]string(nil), files...)}
	seen := make(map[Edge]bool)
	for _, from := range files {
		for _, imp := range b.meta[from].Imports {
			to, ok := b.resolve(from, imp.Source)
			if !ok {
				continue
			}
			e := Edge{From: from, To: to, Specifier: imp.Source}
			if seen[e] {
				continue
			}
			seen[e] = true
			g.Edges = append(g.Edges, e)
		}
	}
	b.graph = g
	return g, nil
}

func (b *Builder) parseFile(p *Parser, rel string) parseResult {
	src, err := os.ReadFile(filepath.Join(b.root, filepath.FromSlash(rel)))
	if err != nil {
		return parseResult{}
	}
	tree := p.Parse(src)
	if tree == nil {
		return parseResult{}
	}
	defer tree.Close()

	defs, meta := extract(rel, tree.RootNode(), src)
	return parseResult{defs: defs, meta: meta}
}

// Definitions returns the extracted definitions of one file in source order.
func (b *Builder) Definitions(file string) []SymbolDef {
	return b.defs[file]
}

// Meta returns the import/export metadata of one file.
func (b *Builder) Meta(file string) FileMeta {
	return b.meta[file]
}

// SymbolNames returns the known symbol names per file, in source order.
func (b *Builder) SymbolNames() map[string][]string {
	names := make(map[string][]string, len(b.defs))
	for file, defs := range b.defs {
		for _, d := range defs {
			names[file] = append(names[file], d.Name)
		}
	}
	return names
}

// Hotspots returns up to n files ranked by total degree descending, ties
// broken lexicographically by path.
func (b *Builder) Hotspots(n int) []Hotspot {
	if b.graph == nil {
		return nil
	}
	degree := make(map[string]int, len(b.graph.Nodes))
	for _, node := range b.graph.Nodes {
		degree[node] = 0
	}
	for _, e := range b.graph.Edges {
		degree[e.From]++
		degree[e.To]++
	}

	spots := make([]Hotspot, 0, len(degree))
	for _, node := range b.graph.Nodes {
		spots = append(spots, Hotspot{Path: node, Degree: degree[node]})
	}
	sort.Slice(spots, func(i, j int) bool {
		if spots[i].Degree != spots[j].Degree {
			return spots[i].Degree > spots[j].Degree
		}
		return spots[i].Path < spots[j].Path
	})
	if n > 0 && len(spots) > n {
		spots = spots[:n]
	}
	return spots
}

// RelevantDefinitions returns a file's own definitions plus the exported
// definitions of its direct graph neighbors, greedily included in original
// order until charBudget (measured on definition text) is exhausted.
func (b *Builder) RelevantDefinitions(file string, charBudget int) []SymbolDef {
	if charBudget <= 0 {
		return nil
	}

	var bundle []SymbolDef
	used := 0
	add := func(d SymbolDef) bool {
		cost := len(d.Text)
		if cost == 0 {
			cost = len(d.Name)
		}
		if used+cost > charBudget {
			return false
		}
		used += cost
		bundle = append(bundle, d)
		return true
	}

	for _, d := range b.defs[file] {
		if !add(d) {
			return bundle
		}
	}
	for _, nb := range b.neighbors(file) {
		for _, d := range b.defs[nb] {
			if !d.Exported {
				continue
			}
			if !add(d) {
				return bundle
			}
		}
	}
	return bundle
}

// neighbors lists the files directly connected to file by an edge in either
// direction, in edge order, deduplicated.
func (b *Builder) neighbors(file string) []string {
	if b.graph == nil {
		return nil
	}
	var out []string
	seen := map[string]bool{file: true}
	for _, e := range b.graph.Edges {
		var other string
		switch file {
		case e.From:
			other = e.To
		case e.To:
			other = e.From
		default:
			continue
		}
		if !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out
}
