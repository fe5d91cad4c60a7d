// Package config handles configuration management for skel.
// It layers baked-in defaults, a user config file (TOML, YAML or
// JSON), SKEL_* environment variables, and command-line flag
// overrides, and it parses the optional .skel.toml manifest found at
// a template root.
package config
