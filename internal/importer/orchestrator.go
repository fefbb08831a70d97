package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/azlocal/directory/internal/pkg/logger"
	"github.com/azlocal/directory/internal/store"
)

// ErrRunAborted is returned when accumulated failures exceed the
// configured threshold and the run stops early.
var ErrRunAborted = errors.New("import run aborted: error threshold exceeded")

// ErrInvalidMapping is returned when the resolved field mapping is
// missing required columns.
var ErrInvalidMapping = errors.New("invalid field mapping")

// Store is the remote-store contract the orchestrator needs. The
// concrete implementation is the directory API client.
type Store interface {
	CreateImportBatch(ctx context.Context, req store.CreateBatchRequest) (*store.ImportBatch, error)
	UpsertBusinesses(ctx context.Context, req store.UpsertRequest) (*store.UpsertResult, error)
	UpsertReviews(ctx context.Context, req store.ReviewUpsertRequest) (*store.UpsertResult, error)
	FinalizeImportBatch(ctx context.Context, batchID string, req store.FinalizeRequest) error
	ListCategories(ctx context.Context) ([]store.Category, error)
}

// Progress is a point-in-time snapshot published at chunk boundaries.
type Progress struct {
	RunID     string `json:"run_id"`
	Source    string `json:"source"`
	Status    string `json:"status"`
	Total     int    `json:"total"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
}

// ProgressSink receives progress snapshots. A nil sink disables
// progress publishing.
type ProgressSink interface {
	Publish(ctx context.Context, p Progress) error
}

// Options tune one orchestrator. Zero values select defaults.
type Options struct {
	ChunkSize         int  // rows per chunk, default 100
	AbortThresholdPct int  // percent of rows failed before aborting, default 25
	ErrorDetailCap    int  // retained error details, default 50
	SkipDuplicates    bool // duplicates skipped instead of updated
	Delimiter         rune // source delimiter, default comma
}

// Orchestrator owns the end-to-end import run. It is the only pipeline
// component with side effects on the remote store.
type Orchestrator struct {
	store    Store
	opts     Options
	progress ProgressSink
}

// NewOrchestrator builds an orchestrator over a remote store.
func NewOrchestrator(st Store, opts Options, progress ProgressSink) *Orchestrator {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 100
	}
	if opts.AbortThresholdPct <= 0 {
		opts.AbortThresholdPct = 25
	}
	return &Orchestrator{store: st, opts: opts, progress: progress}
}

// Run imports one file. The returned Stats are valid even when err is
// non-nil, so partial counts can still be reported.
func (o *Orchestrator) Run(ctx context.Context, path string) (*Stats, error) {
	src, err := OpenSource(path, o.opts.Delimiter)
	if err != nil {
		return NewStats(o.opts.ErrorDetailCap), err
	}
	defer src.Close()
	return o.RunSource(ctx, src)
}

// RunSource imports from an already-open source. The caller owns the
// source's lifetime.
func (o *Orchestrator) RunSource(ctx context.Context, src *Source) (stats *Stats, err error) {
	stats = NewStats(o.opts.ErrorDetailCap)
	runID := uuid.New().String()
	sourceName := filepath.Base(src.Name())

	importType := DetectImportType(src.Headers())

	// The tracking record is created before any record is written; one
	// terminal transition happens on every exit path below.
	batch, err := o.store.CreateImportBatch(ctx, store.CreateBatchRequest{
		ImportType: importType,
		Source:     sourceName,
		SourceMetadata: map[string]string{
			"run_id": runID,
			"path":   src.Name(),
		},
	})
	if err != nil {
		return stats, fmt.Errorf("create import batch: %w", err)
	}
	stats.BatchID = batch.ID

	logger.Info("import run started",
		"run_id", runID, "batch_id", batch.ID, "source", sourceName, "type", importType)

	// Finalization is a best-effort guarantee: exactly one terminal
	// transition on every exit path, including panics.
	defer func() {
		if r := recover(); r != nil {
			o.finalize(batch.ID, store.BatchFailed, stats, fmt.Sprintf("panic: %v", r))
			panic(r)
		}
		status := store.BatchCompleted
		var summaries []string
		if err != nil {
			status = store.BatchFailed
			summaries = []string{err.Error()}
		}
		o.finalize(batch.ID, status, stats, summaries...)
	}()

	mapping := DetectMapping(src.Headers())
	if v := o.validateMapping(mapping, importType); !v.Valid {
		return stats, fmt.Errorf("%w: missing required fields %v", ErrInvalidMapping, v.Missing)
	}
	logger.Info("field mapping resolved", "source_template", mapping.Source, "fields", len(mapping.Fields))

	categoryIDs := make(map[string]string)
	if importType == ImportTypeBusiness {
		cats, catErr := o.store.ListCategories(ctx)
		if catErr != nil {
			return stats, fmt.Errorf("list categories: %w", catErr)
		}
		for _, c := range cats {
			categoryIDs[c.Slug] = c.ID
		}
	}

	usedSlugs := make(map[string]bool)

	for {
		rows, readErr := o.readChunk(src)
		if len(rows) > 0 {
			chunk := NewStats(o.opts.ErrorDetailCap)
			chunk.TotalRows = len(rows)

			if importType == ImportTypeReview {
				o.processReviewChunk(ctx, batch.ID, rows, mapping, stats.TotalRows, chunk)
			} else {
				o.processBusinessChunk(ctx, batch.ID, rows, mapping, categoryIDs, usedSlugs, stats.TotalRows, chunk)
			}

			stats.Merge(chunk)
			o.publishProgress(ctx, runID, sourceName, "processing", stats)

			if stats.Failures()*100 > o.opts.AbortThresholdPct*stats.TotalRows {
				o.publishProgress(ctx, runID, sourceName, "aborted", stats)
				return stats, fmt.Errorf("%w (%d of %d rows failed)", ErrRunAborted, stats.Failures(), stats.TotalRows)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return stats, readErr
		}
	}

	o.publishProgress(ctx, runID, sourceName, "completed", stats)
	logger.Info("import run completed",
		"run_id", runID, "total", stats.TotalRows, "processed", stats.ProcessedRows,
		"errors", stats.ErrorRows, "skipped", stats.SkippedRows, "duplicates", stats.DuplicateRows)
	return stats, nil
}

// readChunk reads up to ChunkSize rows. Returns io.EOF alongside any
// rows read when the source is exhausted.
func (o *Orchestrator) readChunk(src *Source) ([]RawRow, error) {
	rows := make([]RawRow, 0, o.opts.ChunkSize)
	for len(rows) < o.opts.ChunkSize {
		row, err := src.Next()
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// processBusinessChunk runs every row through classification,
// validation, identifier generation, and defaults before the chunk's
// single persistence call.
func (o *Orchestrator) processBusinessChunk(ctx context.Context, batchID string, rows []RawRow,
	mapping *FieldMapping, categoryIDs map[string]string, usedSlugs map[string]bool,
	rowOffset int, chunk *Stats) {

	var upserts []store.BusinessUpsert
	for i, row := range rows {
		rowNum := rowOffset + i + 2 // 1-based, after the header line

		rec := o.processBusinessRow(row, mapping, categoryIDs, usedSlugs, rowNum, chunk)
		if rec == nil {
			continue
		}
		upserts = append(upserts, *rec)
	}

	o.persistChunk(chunk, len(upserts), func() (*store.UpsertResult, error) {
		if len(upserts) == 0 {
			return &store.UpsertResult{}, nil
		}
		return o.store.UpsertBusinesses(ctx, store.UpsertRequest{
			BatchID:        batchID,
			SkipDuplicates: o.opts.SkipDuplicates,
			Businesses:     upserts,
		})
	})
}

// processBusinessRow converts one raw row to a wire record, updating
// the chunk accumulator for every skip/error outcome. Returns nil when
// the row does not survive.
func (o *Orchestrator) processBusinessRow(row RawRow, mapping *FieldMapping,
	categoryIDs map[string]string, usedSlugs map[string]bool,
	rowNum int, chunk *Stats) *store.BusinessUpsert {

	name := cleanValue(row[mapping.Fields[FieldName]])
	description := cleanValue(row[mapping.Fields[FieldDescription]])
	hint := cleanValue(row[mapping.Fields[FieldCategory]])

	slug, ok := Classify(name, description, hint)
	if !ok {
		chunk.RecordSkip(ErrorDetail{Row: rowNum, Reason: "no category matched", Source: name})
		return nil
	}
	categoryID, known := categoryIDs[slug]
	if !known {
		chunk.RecordSkip(ErrorDetail{Row: rowNum, Field: "category",
			Reason: fmt.Sprintf("category %q not present in store taxonomy", slug), Source: name})
		return nil
	}

	rec, errs := ProcessRow(row, mapping)
	if len(errs) > 0 {
		first := errs[0]
		chunk.RecordError(ErrorDetail{Row: rowNum, Field: first.Field, Reason: first.Message, Source: name})
		return nil
	}

	for _, w := range rec.Warnings {
		chunk.WarningCount++
		logger.Warn("row warning", "row", rowNum, "field", w.Field, "reason", w.Message)
	}

	cat, _ := CategoryBySlug(slug)
	bizSlug := EnsureUnique(Slugify(rec.Name), usedSlugs)
	usedSlugs[bizSlug] = true

	if len(rec.ServicesOffered) == 0 {
		rec.ServicesOffered = DefaultServices(slug)
	}
	if len(rec.Hours) == 0 {
		rec.Hours = DefaultHours(slug)
	}

	chunk.RecordCategory(slug)

	return &store.BusinessUpsert{
		Name:             rec.Name,
		Address:          rec.Address,
		City:             rec.City,
		State:            rec.State,
		Zip:              rec.Zip,
		Phone:            rec.Phone,
		Email:            rec.Email,
		Website:          rec.Website,
		Description:      rec.Description,
		ShortDescription: rec.ShortDescription,
		CategoryID:       categoryID,
		CategorySlug:     slug,
		Rating:           rec.Rating,
		ReviewCount:      rec.ReviewCount,
		Latitude:         rec.Latitude,
		Longitude:        rec.Longitude,
		Hours:            rec.Hours,
		SocialLinks:      rec.SocialLinks,
		Slug:             bizSlug,
		URLPath:          "/" + cat.Slug + "/" + Slugify(rec.City) + "/" + bizSlug,
		ServicesOffered:  rec.ServicesOffered,
	}
}

// processReviewChunk mirrors the business path for review exports.
func (o *Orchestrator) processReviewChunk(ctx context.Context, batchID string, rows []RawRow,
	mapping *FieldMapping, rowOffset int, chunk *Stats) {

	var upserts []store.ReviewUpsert
	for i, row := range rows {
		rowNum := rowOffset + i + 2

		rev, errs := ProcessReviewRow(row, mapping)
		if len(errs) > 0 {
			first := errs[0]
			chunk.RecordError(ErrorDetail{Row: rowNum, Field: first.Field, Reason: first.Message})
			continue
		}
		for range rev.Warnings {
			chunk.WarningCount++
		}
		chunk.ProcessedRows++
		upserts = append(upserts, store.ReviewUpsert{
			BusinessSlug: rev.BusinessSlug,
			Author:       rev.Author,
			Rating:       rev.Rating,
			Text:         rev.Text,
			ReviewedAt:   rev.ReviewedAt,
		})
	}

	o.persistChunk(chunk, len(upserts), func() (*store.UpsertResult, error) {
		if len(upserts) == 0 {
			return &store.UpsertResult{}, nil
		}
		return o.store.UpsertReviews(ctx, store.ReviewUpsertRequest{
			BatchID:        batchID,
			SkipDuplicates: o.opts.SkipDuplicates,
			Reviews:        upserts,
		})
	})
}

// persistChunk issues the chunk's single store call and folds the
// outcome into the accumulator. A call that still fails after retries
// degrades every record in the chunk to failed rather than aborting.
func (o *Orchestrator) persistChunk(chunk *Stats, count int, call func() (*store.UpsertResult, error)) {
	result, err := call()
	if err != nil {
		logger.Error("chunk persistence failed", "records", count, "error", err.Error())
		chunk.FailedRows += count
		for i := 0; i < count; i++ {
			chunk.addDetail(ErrorDetail{Reason: "persistence failed: " + err.Error()})
		}
		return
	}
	chunk.CreatedRows += result.Created
	chunk.UpdatedRows += result.Updated
	chunk.DuplicateRows += result.Skipped
	chunk.FailedRows += result.Failed
	for _, e := range result.Errors {
		chunk.addDetail(ErrorDetail{Field: e.Slug, Reason: e.Message})
	}
}

func (o *Orchestrator) validateMapping(m *FieldMapping, importType string) MappingValidation {
	if importType == ImportTypeReview {
		return m.ValidateReview()
	}
	return m.Validate()
}

// finalize records the terminal batch transition. The remote call is
// best-effort: a failure is logged, never propagated.
func (o *Orchestrator) finalize(batchID string, status store.BatchStatus, stats *Stats, summaries ...string) {
	ctx, cancel := context.WithTimeout(context.Background(), store.DefaultTimeout)
	defer cancel()

	for _, d := range stats.ErrorDetails {
		if len(summaries) >= 10 {
			break
		}
		summaries = append(summaries, d.Reason)
	}

	err := o.store.FinalizeImportBatch(ctx, batchID, store.FinalizeRequest{
		Status: status,
		Counts: store.ResultCounts{
			Total:     stats.TotalRows,
			Processed: stats.ProcessedRows,
			Created:   stats.CreatedRows,
			Updated:   stats.UpdatedRows,
			Skipped:   stats.DuplicateRows,
			Failed:    stats.FailedRows,
		},
		ErrorSummaries: summaries,
	})
	if err != nil {
		logger.Error("finalize batch failed", "batch_id", batchID, "error", err.Error())
	}
}

func (o *Orchestrator) publishProgress(ctx context.Context, runID, source, status string, stats *Stats) {
	if o.progress == nil {
		return
	}
	err := o.progress.Publish(ctx, Progress{
		RunID:     runID,
		Source:    source,
		Status:    status,
		Total:     stats.TotalRows,
		Processed: stats.ProcessedRows,
		Failed:    stats.Failures(),
	})
	if err != nil {
		logger.Warn("progress publish failed", "run_id", runID, "error", err.Error())
	}
}
