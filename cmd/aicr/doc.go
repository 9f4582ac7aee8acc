// Aicr is a local-first CLI for reviewing JavaScript and TypeScript changes
// with LLM providers.
//
// It parses git diffs, builds a code graph of the repository for grounding
// context, asks an LLM provider for review comments, and verifies every
// comment against the actual files before reporting it. Comments that cite
// no real symbol, point at lines that do not exist, or duplicate an earlier
// comment are dropped with machine-readable reasons.
//
// Usage:
//
//	aicr review unstaged              # review working tree changes
//	aicr review staged                # review staged changes
//	aicr review range origin/main..HEAD  # review a revision range
//	aicr config init                  # write a default config file
//	aicr hook install                 # gate commits with a pre-commit hook
//	aicr cache clear                  # drop cached provider responses
package main
