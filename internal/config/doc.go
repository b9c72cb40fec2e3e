// Package config loads, defaults, normalizes, and validates the TOML
// configuration consumed by every other package. Path fields are expanded
// (~ and relative paths) during Load so downstream code always sees
// absolute paths.
package config
