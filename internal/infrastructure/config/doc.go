// Package config loads and validates augustlink configuration.
//
// Configuration comes from a YAML file with hardcoded defaults underneath
// and AUGUSTLINK_* environment variable overrides on top. The resulting
// Config is immutable after Load; components receive the sub-struct they
// need rather than the whole tree.
package config
