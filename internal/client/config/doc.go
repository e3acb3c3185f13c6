// Package config loads runtime configuration for the fluxapi client.
//
// Sources & precedence (later wins)
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Variables from a dotenv file (--env-file, default ".env"); they never
//     override variables already present in the environment.
//  3. Optional config file, JSON or YAML, selected with --config.
//  4. Environment variables prefixed with FLUXAPI_, e.g. FLUXAPI_SAVE_DEBOUNCE.
//  5. Command-line flags that were explicitly set.
//
// Supported flags
//
//	--config string              path to a JSON or YAML config file
//	--env-file string            dotenv file to load (default ".env")
//	--db string                  SQLite database file
//	--timeout duration           per-request timeout (default 30s)
//	--debounce duration          quiet period before draft edits are saved (default 300ms)
//	--validate-interval duration how often open tabs are checked against storage (default 5s)
//	--log-level string           debug, info, warn or error (default "info")
//	--log-format string          text or json (default "text")
//	--one-send                   reject a send while the same request is in flight
//
// Durations in files and environment accept Go syntax ("300ms", "30s").
package config
