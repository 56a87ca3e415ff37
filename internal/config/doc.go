// Package config provides configuration management for the sillyboy
// service.
//
// Configuration is resolved once at process start: built-in defaults,
// then an optional YAML file (with ${VAR} and ${VAR:-default}
// environment substitution), then process environment overrides. The
// resulting Config value is passed explicitly to every component that
// needs it; nothing reads the environment after startup.
//
// A Watcher can additionally hot-reload the tunables section (retry,
// monitor, and rate-limit settings) when the YAML file changes.
package config
