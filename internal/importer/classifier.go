package importer

import (
	"sort"
	"strings"
)

// Classify assigns a category to a business from its name, description,
// and the raw category/keyword column when the source has one. It walks
// the taxonomy in descending priority order and returns the first entry
// with any keyword present as a substring. ok is false when nothing
// matches; an unclassifiable record is skipped by the caller, not
// treated as malformed.
func Classify(name, description, keywordHint string) (slug string, ok bool) {
	text := searchText(name, description, keywordHint)
	if text == "" {
		return "", false
	}

	for _, cat := range taxonomy {
		for _, kw := range cat.Keywords {
			if strings.Contains(text, kw) {
				return cat.Slug, true
			}
		}
	}
	return "", false
}

// Suggestion is a diagnostic classification candidate.
type Suggestion struct {
	Slug       string
	Confidence float64
}

// Suggest returns every candidate category ranked by confidence, for
// tooling and debugging. Confidence is the matched-keyword fraction
// scaled by the entry's priority share. Ties keep taxonomy priority
// order.
func Suggest(name, description, keywordHint string) []Suggestion {
	text := searchText(name, description, keywordHint)
	if text == "" {
		return nil
	}

	var out []Suggestion
	for _, cat := range taxonomy {
		matched := 0
		for _, kw := range cat.Keywords {
			if strings.Contains(text, kw) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		frac := float64(matched) / float64(len(cat.Keywords))
		out = append(out, Suggestion{
			Slug:       cat.Slug,
			Confidence: frac * (float64(cat.Priority) / float64(maxPriority)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

func searchText(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.ToLower(p))
	}
	return b.String()
}
