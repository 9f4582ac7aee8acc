// Package diff parses unified diff text into a structured model and groups
// the result into token-bounded chunks for prompt assembly.
//
// Parsing is a pure transformation: malformed or truncated input degrades to
// whatever could be attributed, never to an error. Added lines carry their
// line number in the post-change file, computed from a running target-line
// counter that hunk headers reset.
//
// Chunking is lossless and order-preserving. Chunks never span files, and a
// single hunk whose estimated cost exceeds the budget still becomes its own
// chunk rather than being dropped.
package diff
