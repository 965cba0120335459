// Package config provides configuration structures and utilities for vmassess.
// It holds the report command options, the .vmassess YAML file with its
// named profiles, and the XDG directory helpers.
package config
