// Package review orchestrates the code-review pipeline: it parses the diff,
// builds the code graph, assembles per-chunk prompts enriched with relevant
// definitions and hotspots, fans generation out over a bounded worker pool,
// and runs every generated comment through the verification engine.
//
// Generation responses are opaque text until parsed here; a response that is
// not a valid JSON array gets one repair pass before its chunk fails. Graph
// construction failures degrade to a review without symbol grounding rather
// than aborting the run.
package review
