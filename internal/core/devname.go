package core

import (
	"regexp"
	"strings"
)

const (
	// maxDevNameLength bounds dataset API names.
	maxDevNameLength = 80

	// fallbackDatasetName is used when the input contains no letter at all.
	fallbackDatasetName = "Dataset1"

	reservedSuffix = "__c"
)

var devNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// IsValidDevName reports whether name is already a valid dataset API name.
func IsValidDevName(name string) bool {
	return devNamePattern.MatchString(name) &&
		len(name) <= maxDevNameLength &&
		!strings.HasSuffix(name, reservedSuffix) &&
		!strings.HasSuffix(name, "_") &&
		!strings.Contains(name, "__")
}

// SanitizeDatasetName rewrites name into a valid dataset API name: latin
// letters, digits and single underscores, starting with a letter, with no
// trailing underscore or reserved suffix. The second result reports whether
// the name changed.
func SanitizeDatasetName(name string) (string, bool) {
	if IsValidDevName(name) {
		return name, false
	}

	var b strings.Builder
	hasFirstChar := false
	lastUnderscore := false
	for _, r := range name {
		switch {
		case isLatinLetter(r):
			b.WriteRune(r)
			hasFirstChar = true
			lastUnderscore = false
		case hasFirstChar && r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case hasFirstChar && !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	if !hasFirstChar {
		return fallbackDatasetName, fallbackDatasetName != name
	}

	out := b.String()
	if len(out) > maxDevNameLength {
		out = out[:maxDevNameLength]
	}
	for {
		trimmed := strings.TrimSuffix(strings.TrimRight(out, "_"), reservedSuffix)
		if trimmed == out {
			break
		}
		out = trimmed
	}
	return out, out != name
}

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
