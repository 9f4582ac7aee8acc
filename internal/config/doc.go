// Package config loads and merges aicr configuration.
//
// Effective config is built as defaults <- config file <- environment <-
// CLI flag overrides. A .env file in the working directory is loaded first
// so provider API keys can live next to the repository. Budgets and
// thresholds are validated eagerly; an invalid value fails construction
// rather than surfacing mid-review.
package config
