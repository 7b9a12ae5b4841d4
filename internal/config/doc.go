// Package config loads, normalizes, and validates arena configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ARENA_RUNTIME_URL. The Config type centralizes every knob the daemon and
// CLI need, so the runtime endpoint, tick settings, and storage directories
// are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
