package importer

import (
	"fmt"
	"strings"
)

// Slugify lowercases text and collapses every run of non-alphanumerics
// into a single hyphen, with no leading or trailing hyphen.
func Slugify(text string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// URLPath builds the hierarchical listing path for a business.
func URLPath(businessName, city, categoryName string) string {
	return fmt.Sprintf("/%s/%s/%s", Slugify(categoryName), Slugify(city), Slugify(businessName))
}

// PathParts is the decomposition of a listing path.
type PathParts struct {
	Category string
	City     string
	Business string
}

// ParseURLPath inverts URLPath. ok is false for any path URLPath could
// not have produced.
func ParseURLPath(path string) (PathParts, bool) {
	if !strings.HasPrefix(path, "/") {
		return PathParts{}, false
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return PathParts{}, false
	}
	for _, p := range parts {
		if p == "" || Slugify(p) != p {
			return PathParts{}, false
		}
	}
	return PathParts{Category: parts[0], City: parts[1], Business: parts[2]}, true
}

// EnsureUnique resolves a slug collision by appending -1, -2, ... until
// the candidate is free.
func EnsureUnique(candidate string, existing map[string]bool) string {
	if !existing[candidate] {
		return candidate
	}
	for i := 1; ; i++ {
		next := fmt.Sprintf("%s-%d", candidate, i)
		if !existing[next] {
			return next
		}
	}
}
