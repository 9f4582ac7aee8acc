// Package redact strips likely secrets from text before it leaves the
// machine as part of a prompt.
package redact
