// Package config provides configuration for the parinfer CLI and
// watch daemon.
//
// Configuration files are discovered in the working directory
// (.parinfer.toml, .parinfer.yaml, .parinfer.yml) or named
// explicitly. A missing file is not an error: callers get the
// defaults.
package config
