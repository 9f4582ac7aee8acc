// Package verify checks generated review comments against the actual source
// tree and partitions them into kept and dropped sets.
//
// Each comment passes through an independent sequence of checks (location
// validity, suggestion substance, symbol grounding, exact and fuzzy
// duplicate detection) and every failed check contributes a reason code.
// Rejection is an expected outcome, recorded rather than returned as an
// error. Comments are processed in input order and duplicate decisions
// depend on the growing kept set, so a verification pass is fully
// deterministic for a given input.
//
// In fuzzy mode the engine additionally scores every loaded source line
// against each comment's rationale with an ensemble of three similarity
// heuristics (best-of, never averaged) and flags comments whose best match
// lives somewhere other than their declared location. Enhance mode rewrites
// the comment's location to the best match when confidence clears the
// configured threshold.
package verify
