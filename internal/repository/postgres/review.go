package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/azlocal/directory/internal/store"
)

// ReviewRepo persists review records, attached to businesses by slug.
type ReviewRepo struct{ db *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Upsert writes one chunk of reviews. Each record runs under its own
// savepoint so one bad row does not poison the rest of the chunk.
func (r *ReviewRepo) Upsert(ctx context.Context, batchID string, reviews []store.ReviewUpsert, skipDuplicates bool) (*store.UpsertResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin review upsert: %w", err)
	}
	defer tx.Rollback()

	result := &store.UpsertResult{}
	for i, rev := range reviews {
		if _, err := tx.ExecContext(ctx, "SAVEPOINT record_sp"); err != nil {
			return nil, fmt.Errorf("savepoint: %w", err)
		}
		outcome, err := r.upsertOne(ctx, tx, batchID, rev, skipDuplicates)
		if err != nil {
			if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT record_sp"); rbErr != nil {
				return nil, fmt.Errorf("rollback savepoint: %w", rbErr)
			}
			result.Failed++
			result.Errors = append(result.Errors, store.ItemError{
				Index:   i,
				Slug:    rev.BusinessSlug,
				Message: err.Error(),
			})
			continue
		}
		if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT record_sp"); err != nil {
			return nil, fmt.Errorf("release savepoint: %w", err)
		}
		switch outcome {
		case "created":
			result.Created++
		case "updated":
			result.Updated++
		case "skipped":
			result.Skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit review upsert: %w", err)
	}
	return result, nil
}

func (r *ReviewRepo) upsertOne(ctx context.Context, tx *sql.Tx, batchID string, rev store.ReviewUpsert, skipDuplicates bool) (string, error) {
	var businessID string
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM businesses WHERE slug = $1`, rev.BusinessSlug,
	).Scan(&businessID)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("no business with slug %q", rev.BusinessSlug)
	}
	if err != nil {
		return "", fmt.Errorf("lookup business: %w", err)
	}

	if skipDuplicates {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO reviews (business_id, author, rating, text, reviewed_at, import_batch_id)
			VALUES ($1, $2, $3, $4, NULLIF($5, '')::timestamptz, $6)
			ON CONFLICT (business_id, author, reviewed_at) DO NOTHING
		`, businessID, rev.Author, rev.Rating, rev.Text, rev.ReviewedAt, batchID)
		if err != nil {
			return "", err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return "skipped", nil
		}
		return "created", nil
	}

	var created bool
	err = tx.QueryRowContext(ctx, `
		INSERT INTO reviews (business_id, author, rating, text, reviewed_at, import_batch_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::timestamptz, $6)
		ON CONFLICT (business_id, author, reviewed_at) DO UPDATE
		SET rating = EXCLUDED.rating,
			text = EXCLUDED.text,
			import_batch_id = EXCLUDED.import_batch_id,
			updated_at = NOW()
		RETURNING (xmax = 0)
	`, businessID, rev.Author, rev.Rating, rev.Text, rev.ReviewedAt, batchID).Scan(&created)
	if err != nil {
		return "", err
	}
	if created {
		return "created", nil
	}
	return "updated", nil
}
