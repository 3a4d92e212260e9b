// Package config resolves repokit settings from four layers, highest first:
// command-line flag, environment variable, the shared repository config file
// (.github/repo_tools/repo_config.json) and built-in defaults.
//
// The config file is JSON; // and /* */ comments are stripped before it is
// validated against an embedded JSON Schema. Each tool calls Load once and
// then resolves its immutable settings struct (Index, Links, Email, License),
// which is what the tool's runner receives.
package config
