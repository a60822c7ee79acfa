package util

import (
	"fmt"
	"regexp"
)

// validNameChars matches only alphanumeric characters, hyphens, underscores
// and periods.
var validNameChars = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)

// ValidateDeviceName checks that a device name is usable as a config key,
// a keychain account and an environment variable suffix:
//   - Only alphanumeric characters, hyphens, underscores and periods
//   - First character must be alphanumeric
//   - At most 64 characters
func ValidateDeviceName(name string) error {
	if name == "" {
		return fmt.Errorf("device name must not be empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("device name must be at most 64 characters, got %d", len(name))
	}

	if !validNameChars.MatchString(name) {
		return fmt.Errorf("device name %q contains invalid characters (only a-z, A-Z, 0-9, hyphens, underscores and periods are allowed)", name)
	}

	if first := name[0]; !isAlphanumeric(first) {
		return fmt.Errorf("device name must start with an alphanumeric character, got %q", string(first))
	}
	return nil
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
