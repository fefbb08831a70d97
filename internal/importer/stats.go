package importer

import "sort"

// DefaultErrorDetailCap bounds retained error details so pathological
// inputs cannot grow memory without limit.
const DefaultErrorDetailCap = 50

// ErrorDetail is one captured row-level failure.
type ErrorDetail struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Reason  string `json:"reason"`
	Source  string `json:"source,omitempty"`
}

// Stats accumulates the outcome counts of one run. It is owned
// exclusively by the orchestrator; chunk workers fill their own Stats
// and the orchestrator merges them sequentially.
type Stats struct {
	BatchID string

	TotalRows     int
	ProcessedRows int
	SkippedRows   int
	ErrorRows     int
	DuplicateRows int
	CreatedRows   int
	UpdatedRows   int
	FailedRows    int
	WarningCount  int

	PerCategory  map[string]int
	ErrorDetails []ErrorDetail

	errorDetailCap int
}

// NewStats returns an empty accumulator. cap <= 0 selects the default
// error-detail retention cap.
func NewStats(cap int) *Stats {
	if cap <= 0 {
		cap = DefaultErrorDetailCap
	}
	return &Stats{
		PerCategory:    make(map[string]int),
		errorDetailCap: cap,
	}
}

// RecordError counts a hard row failure, retaining detail up to the cap.
func (s *Stats) RecordError(detail ErrorDetail) {
	s.ErrorRows++
	s.addDetail(detail)
}

// RecordSkip counts an unroutable (unclassifiable) row.
func (s *Stats) RecordSkip(detail ErrorDetail) {
	s.SkippedRows++
	s.addDetail(detail)
}

// RecordCategory counts a processed row against its category.
func (s *Stats) RecordCategory(slug string) {
	s.ProcessedRows++
	s.PerCategory[slug]++
}

func (s *Stats) addDetail(detail ErrorDetail) {
	if len(s.ErrorDetails) < s.errorDetailCap {
		s.ErrorDetails = append(s.ErrorDetails, detail)
	}
}

// Merge folds a chunk accumulator into the run accumulator.
func (s *Stats) Merge(chunk *Stats) {
	s.TotalRows += chunk.TotalRows
	s.ProcessedRows += chunk.ProcessedRows
	s.SkippedRows += chunk.SkippedRows
	s.ErrorRows += chunk.ErrorRows
	s.DuplicateRows += chunk.DuplicateRows
	s.CreatedRows += chunk.CreatedRows
	s.UpdatedRows += chunk.UpdatedRows
	s.FailedRows += chunk.FailedRows
	s.WarningCount += chunk.WarningCount
	for slug, n := range chunk.PerCategory {
		s.PerCategory[slug] += n
	}
	for _, d := range chunk.ErrorDetails {
		s.addDetail(d)
	}
}

// Failures is the count that feeds the abort-threshold decision: hard
// row errors plus persistence failures. Warnings never count.
func (s *Stats) Failures() int {
	return s.ErrorRows + s.FailedRows
}

// CategoryCounts returns per-category counts in descending order.
func (s *Stats) CategoryCounts() []CategoryCount {
	out := make([]CategoryCount, 0, len(s.PerCategory))
	for slug, n := range s.PerCategory {
		out = append(out, CategoryCount{Slug: slug, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}

// CategoryCount pairs a category slug with its processed-row count.
type CategoryCount struct {
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}
