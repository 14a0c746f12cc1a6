// Package config handles configuration management for buildexcluder.
// It layers embedded defaults, the project's .buildexcluder.toml and
// BUILDEXCLUDER_* environment variables, in that order.
package config
