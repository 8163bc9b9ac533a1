package config

import "os"

// ExpandEnv expands environment variables in config file content using Go's
// standard library. Supports both ${VAR} and $VAR syntax (standard
// shell-style). Missing variables expand to empty string; validation must
// catch required fields that end up empty.
func ExpandEnv(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}
