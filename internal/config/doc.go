// Package config provides configuration loading for surveybench.
// Values come from an optional YAML file, overridden by environment
// variables with the SURVEYBENCH prefix, and are validated before
// use.
//
// # Configuration Sources
//
// Configuration is resolved in order of precedence:
//
//  1. Struct tag defaults
//  2. The YAML file passed to Load (skipped when missing)
//  3. SURVEYBENCH_* environment variables
//
// Load returns an error when the merged configuration fails
// validation, so a *Config in hand is always usable.
package config
