// Package graph builds a cross-file code graph for a JavaScript/TypeScript
// source tree.
//
// A Builder scans the tree, parses each file with Tree-sitter, and extracts
// per-file symbol definitions plus import/export metadata. Parsing fans out
// over a bounded worker pool writing into disjoint result slots; import-edge
// resolution runs as a single-threaded second pass once every file has been
// parsed, against a file-existence cache owned by the Builder.
//
// Files that cannot be read or parsed are recorded with no definitions and
// no edges; a partial graph is an expected outcome, never an error. Only
// relative import specifiers produce edges; package-style specifiers are
// treated as external.
//
// Hotspot ranking orders files by total degree descending, ties broken
// lexicographically by path so repeated builds of an unchanged tree are
// byte-for-byte identical.
package graph
