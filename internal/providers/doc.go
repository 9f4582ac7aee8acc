// Package providers abstracts the LLM backends that generate review
// comments.
//
// Each provider wraps one HTTP API behind the Generator interface. Request
// and response bodies are treated as opaque text from the pipeline's point
// of view; parsing the comment JSON is the review package's job. Rate-limit
// responses (429) are retried with exponential backoff; authentication
// failures are classified and never retried.
package providers
