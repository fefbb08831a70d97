package importer

// Review exports ride the same pipeline as business exports: the same
// reader, mapping resolver, cleaning, and rating rule, with a smaller
// canonical record attached to a business slug.

const (
	ImportTypeBusiness = "business"
	ImportTypeReview   = "review"
)

const (
	FieldAuthor     Field = "author"
	FieldReviewText Field = "review_text"
	FieldReviewDate Field = "review_date"
)

// reviewFingerprints identify a review export by its headers.
var reviewFingerprints = []string{"review_text", "review_rating", "reviewer", "review_date", "author_name"}

// DetectImportType decides whether a header set is a business or a
// review export.
func DetectImportType(headers []string) string {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}
	if containsAny(normalized, reviewFingerprints) {
		return ImportTypeReview
	}
	return ImportTypeBusiness
}

// requiredReviewFields must resolve for a review run to start.
var requiredReviewFields = []Field{FieldName, FieldRating}

// ValidateReview is the review-mode counterpart of Validate.
func (m *FieldMapping) ValidateReview() MappingValidation {
	var missing []Field
	for _, f := range requiredReviewFields {
		if m.Fields[f] == "" {
			missing = append(missing, f)
		}
	}
	return MappingValidation{Valid: len(missing) == 0, Missing: missing}
}

// ReviewRecord is the canonical representation of one imported review.
type ReviewRecord struct {
	BusinessSlug string
	Author       string
	Rating       *float64
	Text         string
	ReviewedAt   string

	Warnings []ValidationError
}

// ProcessReviewRow cleans and validates one review row. A missing
// business reference or an absent rating is a hard error; rating shape
// follows the same halve-then-drop rule as business ratings.
func ProcessReviewRow(row RawRow, mapping *FieldMapping) (*ReviewRecord, []ValidationError) {
	get := func(f Field) string {
		return cleanValue(row[mapping.Fields[f]])
	}

	var errs []ValidationError
	business := get(FieldName)
	if business == "" {
		errs = append(errs, ValidationError{
			Field:    string(FieldName),
			Message:  "required field is empty",
			Severity: SeverityHard,
		})
	}
	if get(FieldRating) == "" {
		errs = append(errs, ValidationError{
			Field:    string(FieldRating),
			Message:  "required field is empty",
			Severity: SeverityHard,
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	rev := &ReviewRecord{
		BusinessSlug: Slugify(business),
		Author:       get(FieldAuthor),
		Text:         get(FieldReviewText),
		ReviewedAt:   get(FieldReviewDate),
	}

	rec := &Record{}
	rev.Rating = parseRatingField(get(FieldRating), rec)
	rev.Warnings = rec.Warnings
	if rev.Rating == nil {
		// A review without a usable rating carries no signal.
		return nil, []ValidationError{{
			Field:    string(FieldRating),
			Value:    get(FieldRating),
			Message:  "rating could not be normalized into [0,5]",
			Severity: SeverityHard,
		}}
	}

	return rev, nil
}
