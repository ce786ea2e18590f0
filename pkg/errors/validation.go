package errors

import (
	"strings"
	"unicode"
)

// ValidateFilename validates an output file name for safety.
// It ensures the name is a simple basename without path components, so a
// diagram declaration cannot direct its rendered output outside the output
// directory.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 255 characters
//   - No control characters
//   - No path separators
//   - No hidden files and no "." or ".."
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "file name cannot be empty")
	}

	if len(name) > 255 {
		return New(ErrCodeInvalidPath, "file name too long (max 255 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "file name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "file name cannot contain path separators")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "file name cannot be a hidden file")
	}

	return nil
}
