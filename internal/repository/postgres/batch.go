package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/azlocal/directory/internal/store"
)

// ErrBatchFinalized is returned on a second terminal transition attempt
// for the same batch.
var ErrBatchFinalized = errors.New("import batch already finalized")

// BatchRepo persists import-batch tracking records.
type BatchRepo struct{ db *sql.DB }

// NewBatchRepo creates a Postgres-backed batch repository.
func NewBatchRepo(db *sql.DB) *BatchRepo { return &BatchRepo{db: db} }

// Create opens a new batch in the running state.
func (r *BatchRepo) Create(ctx context.Context, req store.CreateBatchRequest) (*store.ImportBatch, error) {
	id := uuid.New().String()
	metaJSON, _ := json.Marshal(req.SourceMetadata)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO import_batches
			(id, import_type, source, source_metadata, expected_rows, status, created_at)
		VALUES ($1, $2, $3, $4, $5, 'running', NOW())
		RETURNING id
	`, id, req.ImportType, req.Source, string(metaJSON), req.ExpectedRows).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}

	return &store.ImportBatch{
		ID:             id,
		ImportType:     req.ImportType,
		Source:         req.Source,
		SourceMetadata: req.SourceMetadata,
		Status:         store.BatchRunning,
	}, nil
}

// Finalize records the batch's single terminal transition. The status
// guard makes a second call fail instead of silently overwriting.
func (r *BatchRepo) Finalize(ctx context.Context, batchID string, req store.FinalizeRequest) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE import_batches
		SET status = $1,
			created_rows = $2, updated_rows = $3, skipped_rows = $4, failed_rows = $5,
			total_rows = $6, processed_rows = $7,
			error_summaries = $8,
			finalized_at = NOW()
		WHERE id = $9 AND status = 'running'
	`, string(req.Status),
		req.Counts.Created, req.Counts.Updated, req.Counts.Skipped, req.Counts.Failed,
		req.Counts.Total, req.Counts.Processed,
		pq.Array(req.ErrorSummaries), batchID)
	if err != nil {
		return fmt.Errorf("finalize batch: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrBatchFinalized
	}
	return nil
}
