package importer

import "strings"

// Field is a canonical field name used across all import sources.
type Field string

const (
	FieldName        Field = "name"
	FieldAddress     Field = "address"
	FieldCity        Field = "city"
	FieldState       Field = "state"
	FieldZip         Field = "zip"
	FieldPhone       Field = "phone"
	FieldEmail       Field = "email"
	FieldWebsite     Field = "website"
	FieldDescription Field = "description"
	FieldShortDesc   Field = "short_description"
	FieldCategory    Field = "category"
	FieldRating      Field = "rating"
	FieldReviewCount Field = "review_count"
	FieldLatitude    Field = "latitude"
	FieldLongitude   Field = "longitude"
	FieldServices    Field = "services"
)

// requiredFields must all resolve to a non-empty source header or the
// run aborts before any row is processed.
var requiredFields = []Field{FieldName, FieldAddress, FieldCity, FieldState, FieldZip, FieldPhone}

// fieldSynonyms lists accepted header synonyms per canonical field, in
// match-preference order. Matching is containment on the normalized
// header, first synonym wins.
var fieldSynonyms = map[Field][]string{
	FieldName:        {"business_name", "company_name", "name", "business", "title"},
	FieldAddress:     {"street_address", "full_address", "address", "street"},
	FieldCity:        {"city", "town", "locality"},
	FieldState:       {"state", "province", "region"},
	FieldZip:         {"zip", "postal_code", "postcode", "post_code"},
	FieldPhone:       {"phone", "telephone", "tel", "contact_number"},
	FieldEmail:       {"email", "e-mail", "mail"},
	FieldWebsite:     {"website", "site", "web", "url", "domain"},
	FieldDescription: {"description", "about", "overview", "summary"},
	FieldShortDesc:   {"short_description", "tagline", "snippet"},
	FieldCategory:    {"category", "type", "keyword", "industry", "vertical"},
	FieldRating:      {"rating", "stars", "score"},
	FieldReviewCount: {"review_count", "reviews", "review_total", "num_reviews"},
	FieldLatitude:    {"latitude", "lat"},
	FieldLongitude:   {"longitude", "lng", "lon"},
	FieldServices:    {"services", "amenities", "offerings"},

	// Review-export fields; resolved before the business fields so a
	// header like author_name cannot satisfy FieldName's "name".
	FieldAuthor:     {"author_name", "reviewer", "author", "reviewed_by"},
	FieldReviewText: {"review_text", "comment", "feedback"},
	FieldReviewDate: {"review_date", "reviewed_at", "date"},
}

// reviewOnlyFields resolve first in heuristic mode; the headers they
// claim are withheld from the business fields.
var reviewOnlyFields = []Field{FieldAuthor, FieldReviewText, FieldReviewDate}

// FieldMapping is the resolved correspondence between source headers and
// canonical fields. Built once per run, immutable thereafter.
type FieldMapping struct {
	Fields map[Field]string  // canonical field -> source header
	Hours  map[string]string // day name -> source header
	Social map[string]string // platform -> source header
	Source string            // "gmb", "yelp", or "heuristic"
}

// MappingValidation reports whether a mapping covers the required fields.
type MappingValidation struct {
	Valid   bool
	Missing []Field
}

// gmbFingerprints identify a Google-My-Business scrape export.
var gmbFingerprints = []string{"phone_standard_format", "google_maps_url", "place_id"}

// yelpFingerprints identify a Yelp business export.
var yelpFingerprints = []string{"yelp_url", "yelp_id", "biz_id"}

// DetectMapping sniffs the header set against known source fingerprints
// and falls back to heuristic synonym matching. Deterministic: the same
// header set always yields the same mapping.
func DetectMapping(headers []string) *FieldMapping {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	switch {
	case containsAny(normalized, gmbFingerprints):
		return templateMapping("gmb", gmbTemplate, headers, normalized)
	case containsAny(normalized, yelpFingerprints):
		return templateMapping("yelp", yelpTemplate, headers, normalized)
	}
	return heuristicMapping(headers, normalized)
}

// Validate must be called before any row is processed.
func (m *FieldMapping) Validate() MappingValidation {
	var missing []Field
	for _, f := range requiredFields {
		if m.Fields[f] == "" {
			missing = append(missing, f)
		}
	}
	return MappingValidation{Valid: len(missing) == 0, Missing: missing}
}

// gmbTemplate maps canonical fields to the headers a GMB scrape uses.
var gmbTemplate = map[Field][]string{
	FieldName:        {"name"},
	FieldAddress:     {"street_address", "full_address"},
	FieldCity:        {"city"},
	FieldState:       {"state", "us_state"},
	FieldZip:         {"zip", "postal_code"},
	FieldPhone:       {"phone_standard_format", "phone"},
	FieldEmail:       {"email_1", "email"},
	FieldWebsite:     {"site", "website"},
	FieldDescription: {"description", "about"},
	FieldCategory:    {"category", "type", "subtypes"},
	FieldRating:      {"rating"},
	FieldReviewCount: {"reviews"},
	FieldLatitude:    {"latitude"},
	FieldLongitude:   {"longitude"},
}

// yelpTemplate maps canonical fields to the headers of a Yelp export.
var yelpTemplate = map[Field][]string{
	FieldName:        {"business_name", "name"},
	FieldAddress:     {"address1", "address"},
	FieldCity:        {"city"},
	FieldState:       {"state"},
	FieldZip:         {"zip_code", "zip"},
	FieldPhone:       {"display_phone", "phone"},
	FieldWebsite:     {"business_url", "url"},
	FieldCategory:    {"categories", "category"},
	FieldRating:      {"rating"},
	FieldReviewCount: {"review_count"},
	FieldLatitude:    {"latitude"},
	FieldLongitude:   {"longitude"},
}

// templateMapping applies a known-source template, binding each field to
// the first template header actually present in the file.
func templateMapping(source string, tmpl map[Field][]string, headers, normalized []string) *FieldMapping {
	m := &FieldMapping{
		Fields: make(map[Field]string),
		Hours:  make(map[string]string),
		Social: make(map[string]string),
		Source: source,
	}
	for field, candidates := range tmpl {
		for _, cand := range candidates {
			if idx := indexOf(normalized, cand); idx >= 0 {
				m.Fields[field] = headers[idx]
				break
			}
		}
	}
	mapSubColumns(m, headers, normalized)
	return m
}

// heuristicMapping resolves each canonical field by containment search
// against its ranked synonym list.
func heuristicMapping(headers, normalized []string) *FieldMapping {
	m := &FieldMapping{
		Fields: make(map[Field]string),
		Hours:  make(map[string]string),
		Social: make(map[string]string),
		Source: "heuristic",
	}

	claimed := make(map[int]bool)
	for _, field := range reviewOnlyFields {
		if i := matchSynonyms(normalized, fieldSynonyms[field], claimed); i >= 0 {
			m.Fields[field] = headers[i]
			claimed[i] = true
		}
	}
	for field, synonyms := range fieldSynonyms {
		if _, done := m.Fields[field]; done {
			continue
		}
		if i := matchSynonyms(normalized, synonyms, claimed); i >= 0 {
			m.Fields[field] = headers[i]
		}
	}
	mapSubColumns(m, headers, normalized)
	return m
}

// matchSynonyms returns the index of the first unclaimed header that
// contains a synonym, trying synonyms in preference order.
func matchSynonyms(normalized, synonyms []string, claimed map[int]bool) int {
	for _, syn := range synonyms {
		for i, h := range normalized {
			if claimed[i] {
				continue
			}
			if strings.Contains(h, syn) {
				return i
			}
		}
	}
	return -1
}

// mapSubColumns resolves the per-day hours and per-platform social link
// sub-mappings by substring match, independent of the main strategy.
func mapSubColumns(m *FieldMapping, headers, normalized []string) {
	for _, day := range weekDays {
		for i, h := range normalized {
			if strings.Contains(h, day) {
				m.Hours[day] = headers[i]
				break
			}
		}
	}
	for _, platform := range socialPlatforms {
		for i, h := range normalized {
			if strings.Contains(h, platform) {
				m.Social[platform] = headers[i]
				break
			}
		}
	}
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.Trim(h, "\"'")
	h = strings.ReplaceAll(h, " ", "_")
	for strings.Contains(h, "__") {
		h = strings.ReplaceAll(h, "__", "_")
	}
	return h
}

func containsAny(haystack []string, needles []string) bool {
	for _, n := range needles {
		if indexOf(haystack, n) >= 0 {
			return true
		}
	}
	return false
}

func indexOf(list []string, want string) int {
	for i, v := range list {
		if v == want {
			return i
		}
	}
	return -1
}
