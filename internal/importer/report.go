package importer

import (
	"strings"

	"github.com/osteele/liquid"
)

// summaryTemplate drives the human-readable run report. Every binding
// mirrors a Stats field one-to-one so report assertions double as stats
// assertions.
const summaryTemplate = `Import run {{ batch_id }} ({{ source }}) — {{ status }}

Rows:       {{ total_rows }} total / {{ processed_rows }} processed / {{ skipped_rows }} skipped / {{ error_rows }} rejected
Outcomes:   {{ created_rows }} created / {{ updated_rows }} updated / {{ duplicate_rows }} duplicates / {{ failed_rows }} failed
Warnings:   {{ warning_count }}
{% if categories != empty %}
By category:
{% for c in categories %}  {{ c.slug }}: {{ c.count }}
{% endfor %}{% endif %}{% if error_details != empty %}
First errors:
{% for e in error_details %}  row {{ e.row }}: {{ e.reason }}
{% endfor %}{% endif %}`

var reportEngine = liquid.NewEngine()

// RenderSummary renders the end-of-run report.
func RenderSummary(stats *Stats, batchID, source, status string) (string, error) {
	details := stats.ErrorDetails
	if len(details) > 10 {
		details = details[:10]
	}
	detailMaps := make([]map[string]interface{}, len(details))
	for i, d := range details {
		detailMaps[i] = map[string]interface{}{"row": d.Row, "field": d.Field, "reason": d.Reason}
	}
	catMaps := []map[string]interface{}{}
	for _, c := range stats.CategoryCounts() {
		catMaps = append(catMaps, map[string]interface{}{"slug": c.Slug, "count": c.Count})
	}

	out, err := reportEngine.ParseAndRenderString(summaryTemplate, liquid.Bindings{
		"batch_id":       batchID,
		"source":         source,
		"status":         status,
		"total_rows":     stats.TotalRows,
		"processed_rows": stats.ProcessedRows,
		"skipped_rows":   stats.SkippedRows,
		"error_rows":     stats.ErrorRows,
		"created_rows":   stats.CreatedRows,
		"updated_rows":   stats.UpdatedRows,
		"duplicate_rows": stats.DuplicateRows,
		"failed_rows":    stats.FailedRows,
		"warning_count":  stats.WarningCount,
		"categories":     catMaps,
		"error_details":  detailMaps,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
