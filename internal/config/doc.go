// Package config loads and validates the vidpack TOML configuration. Defaults
// apply when no file exists; files are looked up from the --config flag,
// ~/.config/vidpack/config.toml, then ./vidpack.toml.
package config
