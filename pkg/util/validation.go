package util

import (
	"fmt"
	"regexp"
	"strings"
)

var snapshotIDPattern = regexp.MustCompile(`^[0-9]{8}-[0-9]{6}-[0-9]{3}-[0-9a-z]+$`)

// ValidateSnapshotID rejects ids that could escape the snapshot directory
func ValidateSnapshotID(id string) error {
	if id == "" {
		return fmt.Errorf("snapshot id cannot be empty")
	}
	if !snapshotIDPattern.MatchString(id) {
		return fmt.Errorf("invalid snapshot id: %s", id)
	}
	return nil
}

// ValidateOptionName checks that name can be written as a Name=Value line
func ValidateOptionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("option name cannot be empty")
	}
	if strings.ContainsAny(name, "=\r\n") || strings.HasPrefix(name, "#") {
		return fmt.Errorf("invalid option name: %q", name)
	}
	return nil
}

// ValidateOptionValue checks that value fits on a single line
func ValidateOptionValue(value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("option value must be a single line")
	}
	return nil
}
