package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxAuthorIDLength bounds author identifiers. They end up in SVG element ids
// and cache keys.
const maxAuthorIDLength = 256

// ValidateAuthorID validates an author identifier for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - No whitespace (ids are embedded in element ids and URLs)
//   - Maximum length of 256 characters
func ValidateAuthorID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidAuthor, "author id cannot be empty")
	}

	if len(id) > maxAuthorIDLength {
		return New(ErrCodeInvalidAuthor, "author id too long (max %d characters)", maxAuthorIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidAuthor, "author id contains invalid control characters")
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidAuthor, "author id %q contains whitespace", id)
		}
	}

	return nil
}

// ValidatePath validates a dataset or alias file path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateOutputPath validates an output file path. In addition to the
// [ValidatePath] rules the path must not name a directory.
func ValidateOutputPath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path must be a file, not a directory: %s", path)
	}
	if base := filepath.Base(path); base == "." || base == ".." {
		return New(ErrCodeInvalidPath, "output path must be a file: %s", path)
	}
	return nil
}
