// Package gitctx shells out to git to collect diff text and repository
// metadata. The diff is returned as raw unified-diff text; parsing it is the
// diff package's job.
package gitctx
