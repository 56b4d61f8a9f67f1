// Package instance names the running process for logs and lock ownership.
package instance

import (
	"os"
	"strings"
)

const fallbackID = "local"

var envKeys = []string{"GONGGU_INSTANCE_ID", "DYNO", "HOSTNAME"}

// GetID returns the first non-empty instance identifier from the environment,
// then the hostname, then "local".
func GetID() string {
	for _, key := range envKeys {
		if id := strings.TrimSpace(os.Getenv(key)); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}
