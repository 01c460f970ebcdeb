package env

import "os"

// Get reads an environment variable, returning fallback when it is unset or
// empty. Used before config parsing has run.
func Get(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
