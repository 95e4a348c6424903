package errors

import (
	"strings"
	"unicode"
)

// ValidatePackageName validates a user-supplied package name before it is
// used in database lookups or cache paths.
//
// The rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path traversal sequences (.., /, \)
//   - Maximum length of 256 characters
//
// Version constraints are not package names; pass bare names only.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateBackend checks a backend selector from flags or config.
func ValidateBackend(name string) error {
	switch name {
	case "alpm", "files":
		return nil
	default:
		return New(ErrCodeInvalidBackend, "unknown backend %q (expected alpm or files)", name)
	}
}
