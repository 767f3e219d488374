package errors

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// designNameRegex matches design names usable as file stems and store keys.
var designNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateDesignName validates a design name before it is used as a file
// stem, cache key or document key in an optimals store.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or path separators
//   - Maximum length of 128 characters
func ValidateDesignName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "design name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "design name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "design name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "design name cannot contain path components: %q", name)
	}

	if !designNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid design name: %q", name)
	}

	return nil
}

// ValidateOrdering checks that ordering is one of the allowed placement
// orderings.
func ValidateOrdering(ordering string, allowed []string) error {
	if !slices.Contains(allowed, ordering) {
		return New(ErrCodeInvalidOrdering, "unknown ordering %q (want one of %s)", ordering, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateFormat checks that format is one of the allowed export formats.
func ValidateFormat(format string, allowed []string) error {
	if !slices.Contains(allowed, strings.ToLower(format)) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateGridPitch rejects grid pitches that would divide positions by
// zero or flip their sign during feature normalization.
func ValidateGridPitch(x, y float64) error {
	if x <= 0 || y <= 0 {
		return New(ErrCodeInvalidInput, "grid pitch must be positive, got (%g, %g)", x, y)
	}
	return nil
}
