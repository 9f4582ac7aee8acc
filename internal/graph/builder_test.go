package graph

import (
	"reflect"
	"testing"
)

// fixtureTree writes a small project: a imports b, c imports a, and one
// import of a package module that must never produce an edge.
func fixtureTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", `import { helper } from './b';
import fs from 'fs';

export function alpha(x) {
  return helper(x);
}

const local = 1;
`)
	writeFile(t, root, "src/b.ts", `export function helper(x) {
  return x + 1;
}

export const BETA = 2;

function hidden() {}
`)
	writeFile(t, root, "src/c.ts", `import { alpha } from './a';

export class Gamma {}
`)
	writeFile(t, root, "node_modules/pkg/index.js", "module.exports = {};\n")
	return root
}

func buildFixture(t *testing.T) (*Builder, *Graph) {
	t.Helper()
	b, err := NewBuilder(fixtureTree(t))
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return b, g
}

func TestBuild_NodesAndEdges(t *testing.T) {
	_, g := buildFixture(t)

	wantNodes := []string{"src/a.ts", "src/b.ts", "src/c.ts"}
	if !reflect.DeepEqual(g.Nodes, wantNodes) {
		t.Errorf("Nodes = %v, want %v", g.Nodes, wantNodes)
	}

	wantEdges := []Edge{
		{From: "src/a.ts", To: "src/b.ts", Specifier: "./b"},
		{From: "src/c.ts", To: "src/a.ts", Specifier: "./a"},
	}
	if !reflect.DeepEqual(g.Edges, wantEdges) {
		t.Errorf("Edges = %v, want %v", g.Edges, wantEdges)
	}
}

func TestBuild_PackageImportsExternal(t *testing.T) {
	_, g := buildFixture(t)
	for _, e := range g.Edges {
		if e.Specifier == "fs" {
			t.Errorf("package-style specifier produced an edge: %+v", e)
		}
	}
}

func TestBuild_Definitions(t *testing.T) {
	b, _ := buildFixture(t)

	tests := []struct {
		file string
		want []struct {
			name     string
			kind     SymbolKind
			exported bool
		}
	}{
		{"src/a.ts", []struct {
			name     string
			kind     SymbolKind
			exported bool
		}{
			{"alpha", KindFunction, true},
			{"local", KindVariable, false},
		}},
		{"src/b.ts", []struct {
			name     string
			kind     SymbolKind
			exported bool
		}{
			{"helper", KindFunction, true},
			{"BETA", KindVariable, true},
			{"hidden", KindFunction, false},
		}},
		{"src/c.ts", []struct {
			name     string
			kind     SymbolKind
			exported bool
		}{
			{"Gamma", KindClass, true},
		}},
	}

	for _, tt := range tests {
		defs := b.Definitions(tt.file)
		if len(defs) != len(tt.want) {
			t.Fatalf("%s: got %d defs (%v), want %d", tt.file, len(defs), defs, len(tt.want))
		}
		for i, w := range tt.want {
			d := defs[i]
			if d.Name != w.name || d.Kind != w.kind || d.Exported != w.exported {
				t.Errorf("%s def %d = {%s %s %v}, want {%s %s %v}",
					tt.file, i, d.Name, d.Kind, d.Exported, w.name, w.kind, w.exported)
			}
			if d.Pos.Line < 1 {
				t.Errorf("%s def %s: line %d < 1", tt.file, d.Name, d.Pos.Line)
			}
			if d.Path != tt.file {
				t.Errorf("def %s path = %q, want %q", d.Name, d.Path, tt.file)
			}
		}
	}
}

func TestBuild_FileMeta(t *testing.T) {
	b, _ := buildFixture(t)

	meta := b.Meta("src/a.ts")
	if len(meta.Imports) != 2 {
		t.Fatalf("got %d imports, want 2: %+v", len(meta.Imports), meta.Imports)
	}
	if meta.Imports[0].Source != "./b" || !reflect.DeepEqual(meta.Imports[0].Names, []string{"helper"}) {
		t.Errorf("import 0 = %+v", meta.Imports[0])
	}
	if meta.Imports[1].Source != "fs" || !reflect.DeepEqual(meta.Imports[1].Names, []string{"fs"}) {
		t.Errorf("import 1 = %+v", meta.Imports[1])
	}

	exports := b.Meta("src/b.ts").Exports
	if len(exports) != 2 || exports[0].Name != "helper" || exports[1].Name != "BETA" {
		t.Errorf("b.ts exports = %+v", exports)
	}
}

func TestBuild_Hotspots(t *testing.T) {
	b, _ := buildFixture(t)

	spots := b.Hotspots(0)
	want := []Hotspot{
		{Path: "src/a.ts", Degree: 2},
		{Path: "src/b.ts", Degree: 1},
		{Path: "src/c.ts", Degree: 1},
	}
	if !reflect.DeepEqual(spots, want) {
		t.Errorf("Hotspots = %v, want %v", spots, want)
	}

	top := b.Hotspots(1)
	if len(top) != 1 || top[0].Path != "src/a.ts" {
		t.Errorf("Hotspots(1) = %v", top)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	root := fixtureTree(t)

	run := func() (*Graph, map[string][]SymbolDef) {
		b, err := NewBuilder(root)
		if err != nil {
			t.Fatalf("NewBuilder: %v", err)
		}
		g, err := b.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		defs := make(map[string][]SymbolDef)
		for _, f := range g.Nodes {
			defs[f] = b.Definitions(f)
		}
		return g, defs
	}

	g1, d1 := run()
	g2, d2 := run()
	if !reflect.DeepEqual(g1, g2) {
		t.Errorf("graphs differ across identical builds")
	}
	if !reflect.DeepEqual(d1, d2) {
		t.Errorf("definition tables differ across identical builds")
	}
}

func TestBuild_SkipsUnparseableFile(t *testing.T) {
	root := fixtureTree(t)
	writeFile(t, root, "src/broken.ts", "\x00\x01\x02 not source @@@@")

	b, err := NewBuilder(root)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build should not fail on malformed input: %v", err)
	}
	// The broken file is still a node, just with no usable content edges.
	found := false
	for _, n := range g.Nodes {
		if n == "src/broken.ts" {
			found = true
		}
	}
	if !found {
		t.Errorf("broken file missing from nodes: %v", g.Nodes)
	}
}

func TestRelevantDefinitions(t *testing.T) {
	b, _ := buildFixture(t)

	defs := b.RelevantDefinitions("src/a.ts", 100000)
	var names []string
	for _, d := range defs {
		names = append(names, d.Name)
	}
	// Own definitions first, then exported definitions of direct neighbors
	// in edge order (b via a->b, then c via c->a). hidden is not exported
	// and must not appear.
	want := []string{"alpha", "local", "helper", "BETA", "Gamma"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("RelevantDefinitions = %v, want %v", names, want)
	}
}

func TestRelevantDefinitions_Budget(t *testing.T) {
	b, _ := buildFixture(t)

	all := b.RelevantDefinitions("src/a.ts", 100000)
	if len(all) < 2 {
		t.Fatalf("fixture too small: %v", all)
	}
	// A budget covering only the first definition stops the bundle there.
	budget := len(all[0].Text)
	defs := b.RelevantDefinitions("src/a.ts", budget)
	if len(defs) != 1 || defs[0].Name != all[0].Name {
		t.Errorf("budgeted bundle = %+v, want just %s", defs, all[0].Name)
	}

	if got := b.RelevantDefinitions("src/a.ts", 0); got != nil {
		t.Errorf("zero budget should yield nil, got %v", got)
	}
}

func TestResolve_StaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/esc.ts", `import { x } from '../../outside';
export const y = 1;
`)
	b, err := NewBuilder(root)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(g.Edges) != 0 {
		t.Errorf("escaping specifier produced edges: %v", g.Edges)
	}
}

func TestResolve_IndexFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.ts", `import { util } from './lib';
export const z = util;
`)
	writeFile(t, root, "src/lib/index.ts", `export const util = 1;
`)
	b, err := NewBuilder(root)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []Edge{{From: "src/main.ts", To: "src/lib/index.ts", Specifier: "./lib"}}
	if !reflect.DeepEqual(g.Edges, want) {
		t.Errorf("Edges = %v, want %v", g.Edges, want)
	}
}
