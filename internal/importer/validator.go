package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// The directory serves a single region: Phoenix-metro Arizona. Rows
// outside it are hard errors, not warnings.
const regionCode = "AZ"

var allowedCities = map[string]bool{
	"phoenix":          true,
	"scottsdale":       true,
	"tempe":            true,
	"mesa":             true,
	"chandler":         true,
	"gilbert":          true,
	"glendale":         true,
	"peoria":           true,
	"surprise":         true,
	"avondale":         true,
	"goodyear":         true,
	"buckeye":          true,
	"queen creek":      true,
	"paradise valley":  true,
	"fountain hills":   true,
	"cave creek":       true,
	"sun city":         true,
	"el mirage":        true,
	"litchfield park":  true,
	"tolleson":         true,
	"apache junction":  true,
}

var stateAliases = map[string]string{
	"az":      regionCode,
	"arizona": regionCode,
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var titleCaser = cases.Title(language.AmericanEnglish)

// ProcessRow cleans, validates, and normalizes one raw row into a
// Record. Hard errors reject the row entirely and are returned in errs;
// soft findings are retained on the record as warnings and the record
// still imports. Pure function of the row and the shared mapping.
func ProcessRow(row RawRow, mapping *FieldMapping) (*Record, []ValidationError) {
	get := func(f Field) string {
		return cleanValue(row[mapping.Fields[f]])
	}

	var errs []ValidationError
	rec := &Record{
		Hours:       make(map[string]string),
		SocialLinks: make(map[string]string),
	}

	// Required fields: missing after cleaning is a hard error.
	for _, f := range requiredFields {
		if get(f) == "" {
			errs = append(errs, ValidationError{
				Field:    string(f),
				Message:  "required field is empty",
				Severity: SeverityHard,
			})
		}
	}

	// Region enforcement.
	city := normalizeCity(get(FieldCity))
	if city != "" && !allowedCities[strings.ToLower(city)] {
		errs = append(errs, ValidationError{
			Field:    string(FieldCity),
			Value:    city,
			Message:  "city is outside the served region",
			Severity: SeverityHard,
		})
	}
	state := get(FieldState)
	if state != "" {
		code, ok := stateAliases[strings.ToLower(state)]
		if !ok {
			errs = append(errs, ValidationError{
				Field:    string(FieldState),
				Value:    state,
				Message:  "state is outside the served region",
				Severity: SeverityHard,
			})
		} else {
			state = code
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	rec.Name = get(FieldName)
	rec.Address = get(FieldAddress)
	rec.City = city
	rec.State = state
	rec.Zip = get(FieldZip)
	rec.Description = get(FieldDescription)
	rec.ShortDescription = get(FieldShortDesc)

	rec.Phone = normalizePhoneField(get(FieldPhone), rec)
	rec.Email = validateEmailField(get(FieldEmail), rec)
	rec.Website = validateWebsiteField(get(FieldWebsite), rec)
	rec.Rating = parseRatingField(get(FieldRating), rec)
	rec.ReviewCount = parseReviewCountField(get(FieldReviewCount), rec)
	rec.Latitude, rec.Longitude = parseCoordinates(get(FieldLatitude), get(FieldLongitude))

	if raw := get(FieldServices); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = cleanValue(s); s != "" {
				rec.ServicesOffered = append(rec.ServicesOffered, s)
			}
		}
	}

	for day, header := range mapping.Hours {
		if v := cleanValue(row[header]); v != "" {
			rec.Hours[day] = v
		}
	}
	for platform, header := range mapping.Social {
		if v := cleanValue(row[header]); v != "" {
			rec.SocialLinks[platform] = v
		}
	}

	return rec, nil
}

// cleanValue trims and collapses repeated whitespace. An empty result
// means the value is absent.
func cleanValue(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// normalizeCity title-cases the city and strips a region suffix the
// source may have embedded ("Phoenix, AZ" -> "Phoenix").
func normalizeCity(raw string) string {
	if raw == "" {
		return ""
	}
	if idx := strings.IndexAny(raw, ","); idx >= 0 {
		suffix := strings.TrimSpace(raw[idx+1:])
		if strings.EqualFold(suffix, regionCode) || strings.EqualFold(suffix, "arizona") {
			raw = raw[:idx]
		}
	}
	return titleCaser.String(strings.ToLower(strings.TrimSpace(raw)))
}

// normalizePhoneField reduces a phone to digits and reformats 10- and
// 11-digit numbers to the canonical display form. Anything else is a
// warning; the cleaned input is kept as-is.
func normalizePhoneField(raw string, rec *Record) string {
	if raw == "" {
		return ""
	}
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	}
	if len(d) != 10 {
		rec.Warnings = append(rec.Warnings, ValidationError{
			Field:    string(FieldPhone),
			Value:    raw,
			Message:  fmt.Sprintf("phone does not reduce to 10 or 11 digits (got %d)", len(digits.String())),
			Severity: SeverityWarn,
		})
		return raw
	}
	return fmt.Sprintf("(%s) %s-%s", d[0:3], d[3:6], d[6:10])
}

func validateEmailField(raw string, rec *Record) string {
	if raw == "" {
		return ""
	}
	if !emailPattern.MatchString(raw) {
		rec.Warnings = append(rec.Warnings, ValidationError{
			Field:    string(FieldEmail),
			Value:    raw,
			Message:  "email does not match a standard address pattern",
			Severity: SeverityWarn,
		})
	}
	return raw
}

func validateWebsiteField(raw string, rec *Record) string {
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	schemed := strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
	if !schemed || !strings.Contains(raw, ".") {
		rec.Warnings = append(rec.Warnings, ValidationError{
			Field:    string(FieldWebsite),
			Value:    raw,
			Message:  "website is missing a URL scheme or domain",
			Severity: SeverityWarn,
		})
	}
	return raw
}

// parseRatingField applies one rating rule for every import path:
// values in (5,10] are treated as a 10-point scale and halved; anything
// still outside [0,5] is dropped with a warning.
func parseRatingField(raw string, rec *Record) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		rec.Warnings = append(rec.Warnings, ValidationError{
			Field:    string(FieldRating),
			Value:    raw,
			Message:  "rating is not numeric",
			Severity: SeverityWarn,
		})
		return nil
	}
	if v > 5 && v <= 10 {
		rec.Warnings = append(rec.Warnings, ValidationError{
			Field:    string(FieldRating),
			Value:    raw,
			Message:  "rating above 5 interpreted as a 10-point scale and halved",
			Severity: SeverityWarn,
		})
		v = v / 2
	}
	if v < 0 || v > 5 {
		rec.Warnings = append(rec.Warnings, ValidationError{
			Field:    string(FieldRating),
			Value:    raw,
			Message:  "rating is outside [0,5]",
			Severity: SeverityWarn,
		})
		return nil
	}
	return &v
}

func parseReviewCountField(raw string, rec *Record) *int {
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
	if err != nil || n < 0 {
		rec.Warnings = append(rec.Warnings, ValidationError{
			Field:    string(FieldReviewCount),
			Value:    raw,
			Message:  "review count is not a non-negative integer",
			Severity: SeverityWarn,
		})
		return nil
	}
	return &n
}

func parseCoordinates(latRaw, lngRaw string) (*float64, *float64) {
	if latRaw == "" || lngRaw == "" {
		return nil, nil
	}
	lat, err1 := strconv.ParseFloat(latRaw, 64)
	lng, err2 := strconv.ParseFloat(lngRaw, 64)
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	return &lat, &lng
}
