// Package cache stores raw generation responses on disk so repeated reviews
// of an unchanged chunk skip the provider call.
//
// Entries are keyed by a SHA-256 hash of the provider, model, and prompt
// payload. Each entry records the response text, a creation timestamp, and a
// TTL in seconds; expired entries are skipped on read and removed by Clear.
// The cache holds raw responses only; verified review state is never
// persisted across runs.
package cache
