package importer

// RawRow is one source line keyed by column header. It is produced by a
// Source and consumed exactly once by the validator.
type RawRow map[string]string

// Severity distinguishes row-rejecting errors from advisory warnings.
type Severity string

const (
	SeverityHard Severity = "hard"
	SeverityWarn Severity = "warning"
)

// ValidationError describes one problem found while validating a row.
type ValidationError struct {
	Field    string
	Value    string
	Message  string
	Severity Severity
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Record is the canonical, validated representation of one imported
// business. It is never mutated after creation; corrections require a
// new record.
type Record struct {
	Name             string
	Address          string
	City             string
	State            string
	Zip              string
	Phone            string
	Email            string
	Website          string
	Description      string
	ShortDescription string
	CategorySlug     string
	Rating           *float64
	ReviewCount      *int
	Latitude         *float64
	Longitude        *float64
	Hours            map[string]string
	SocialLinks      map[string]string
	Slug             string
	URLPath          string
	ServicesOffered  []string

	// Warnings are soft validation findings retained for reporting.
	// They never exclude the record from import.
	Warnings []ValidationError

	SourceFile string
}

// Days of the week in source-column order, used for hours sub-mapping
// and default operating hours.
var weekDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Social platforms recognized in source columns.
var socialPlatforms = []string{"facebook", "instagram", "twitter", "linkedin", "youtube", "yelp"}
