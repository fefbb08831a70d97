package importer

import "testing"

func TestStatsCounters(t *testing.T) {
	s := NewStats(0)

	s.RecordError(ErrorDetail{Row: 2, Field: "phone", Reason: "required field is empty"})
	s.RecordSkip(ErrorDetail{Row: 3, Reason: "no category matched"})
	s.RecordCategory("hvac-services")
	s.RecordCategory("hvac-services")
	s.RecordCategory("pool-services")

	if s.ErrorRows != 1 || s.SkippedRows != 1 || s.ProcessedRows != 3 {
		t.Errorf("counters = %+v", s)
	}
	if s.PerCategory["hvac-services"] != 2 {
		t.Errorf("PerCategory = %v", s.PerCategory)
	}
	if len(s.ErrorDetails) != 2 {
		t.Errorf("ErrorDetails = %v", s.ErrorDetails)
	}
}

func TestStatsDetailCap(t *testing.T) {
	s := NewStats(3)
	for i := 0; i < 10; i++ {
		s.RecordError(ErrorDetail{Row: i})
	}
	if s.ErrorRows != 10 {
		t.Errorf("ErrorRows = %d, want 10 (cap bounds details, not counts)", s.ErrorRows)
	}
	if len(s.ErrorDetails) != 3 {
		t.Errorf("ErrorDetails len = %d, want 3", len(s.ErrorDetails))
	}
}

func TestStatsMerge(t *testing.T) {
	run := NewStats(0)
	run.TotalRows = 100
	run.RecordCategory("hvac-services")

	chunk := NewStats(0)
	chunk.TotalRows = 50
	chunk.CreatedRows = 40
	chunk.UpdatedRows = 5
	chunk.DuplicateRows = 3
	chunk.FailedRows = 2
	chunk.WarningCount = 7
	chunk.RecordCategory("hvac-services")
	chunk.RecordError(ErrorDetail{Row: 120})

	run.Merge(chunk)

	if run.TotalRows != 150 || run.CreatedRows != 40 || run.UpdatedRows != 5 {
		t.Errorf("merged = %+v", run)
	}
	if run.DuplicateRows != 3 || run.FailedRows != 2 || run.WarningCount != 7 {
		t.Errorf("merged = %+v", run)
	}
	if run.PerCategory["hvac-services"] != 2 {
		t.Errorf("PerCategory = %v", run.PerCategory)
	}
	if len(run.ErrorDetails) != 1 || run.ErrorDetails[0].Row != 120 {
		t.Errorf("ErrorDetails = %v", run.ErrorDetails)
	}
}

func TestStatsFailures(t *testing.T) {
	s := NewStats(0)
	s.ErrorRows = 4
	s.FailedRows = 3
	s.WarningCount = 50

	if got := s.Failures(); got != 7 {
		t.Errorf("Failures = %d, want 7 (warnings never count)", got)
	}
}

func TestCategoryCounts(t *testing.T) {
	s := NewStats(0)
	for i := 0; i < 3; i++ {
		s.RecordCategory("pool-services")
	}
	s.RecordCategory("landscaping")
	s.RecordCategory("hvac-services")
	s.RecordCategory("landscaping")
	s.RecordCategory("hvac-services")

	got := s.CategoryCounts()
	if len(got) != 3 {
		t.Fatalf("CategoryCounts = %v", got)
	}
	if got[0].Slug != "pool-services" || got[0].Count != 3 {
		t.Errorf("top = %+v", got[0])
	}
	// Equal counts tie-break alphabetically.
	if got[1].Slug != "hvac-services" || got[2].Slug != "landscaping" {
		t.Errorf("tie-break order = %+v", got)
	}
}
