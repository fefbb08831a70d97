package importer

import (
	"strings"
	"testing"
)

func TestRenderSummary(t *testing.T) {
	s := NewStats(0)
	s.TotalRows = 120
	s.CreatedRows = 90
	s.UpdatedRows = 10
	s.DuplicateRows = 5
	s.FailedRows = 2
	s.WarningCount = 7
	s.RecordCategory("hvac-services")
	s.RecordCategory("hvac-services")
	s.RecordCategory("pool-services")
	s.RecordError(ErrorDetail{Row: 14, Field: "city", Reason: "city is outside the served region"})

	out, err := RenderSummary(s, "batch-42", "gmb-export.csv", "completed")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"batch-42",
		"gmb-export.csv",
		"completed",
		"120 total",
		"90 created",
		"hvac-services: 2",
		"pool-services: 1",
		"row 14: city is outside the served region",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummaryNoDetails(t *testing.T) {
	s := NewStats(0)
	s.TotalRows = 3

	out, err := RenderSummary(s, "batch-1", "clean.csv", "completed")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "First errors") {
		t.Errorf("clean run should not render an error section:\n%s", out)
	}
	if strings.Contains(out, "By category") {
		t.Errorf("empty run should not render a category section:\n%s", out)
	}
}

func TestRenderSummaryCapsDetails(t *testing.T) {
	s := NewStats(0)
	for i := 0; i < 30; i++ {
		s.RecordError(ErrorDetail{Row: i + 2, Reason: "required field is empty"})
	}

	out, err := RenderSummary(s, "batch-9", "bad.csv", "failed")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(out, "required field is empty"); got != 10 {
		t.Errorf("rendered %d error lines, want 10", got)
	}
}
