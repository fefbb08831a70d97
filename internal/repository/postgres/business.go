// Package postgres implements the directory store against PostgreSQL.
// It backs the directory-api binary; the import pipeline itself only
// ever reaches it through the HTTP contract.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/azlocal/directory/internal/store"
)

// BusinessRepo persists canonical business records with duplicate-aware
// upserts.
type BusinessRepo struct{ db *sql.DB }

// NewBusinessRepo creates a Postgres-backed business repository.
func NewBusinessRepo(db *sql.DB) *BusinessRepo { return &BusinessRepo{db: db} }

// Upsert writes one chunk of records inside a single transaction with a
// savepoint per record, so one bad record fails alone instead of
// poisoning the chunk. Duplicate detection keys on (city_slug, slug).
func (r *BusinessRepo) Upsert(ctx context.Context, batchID string, records []store.BusinessUpsert, skipDuplicates bool) (*store.UpsertResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin upsert tx: %w", err)
	}
	defer tx.Rollback()

	result := &store.UpsertResult{}
	for i, rec := range records {
		if _, err := tx.ExecContext(ctx, "SAVEPOINT record_sp"); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, store.ItemError{Index: i, Slug: rec.Slug, Message: err.Error()})
			continue
		}

		outcome, err := r.upsertOne(ctx, tx, batchID, rec, skipDuplicates)
		if err != nil {
			tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT record_sp")
			result.Failed++
			result.Errors = append(result.Errors, store.ItemError{Index: i, Slug: rec.Slug, Message: err.Error()})
			continue
		}
		tx.ExecContext(ctx, "RELEASE SAVEPOINT record_sp")

		switch outcome {
		case "created":
			result.Created++
		case "updated":
			result.Updated++
		default:
			result.Skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit upsert tx: %w", err)
	}
	return result, nil
}

// upsertOne returns "created", "updated", or "skipped" using the
// xmax=0 trick to distinguish an insert from a conflict-update.
func (r *BusinessRepo) upsertOne(ctx context.Context, tx *sql.Tx, batchID string, rec store.BusinessUpsert, skipDuplicates bool) (string, error) {
	hoursJSON, _ := json.Marshal(rec.Hours)
	socialJSON, _ := json.Marshal(rec.SocialLinks)
	servicesJSON, _ := json.Marshal(rec.ServicesOffered)
	citySlug := rec.URLPath // fallback; real value parsed below
	if parts, ok := splitURLPath(rec.URLPath); ok {
		citySlug = parts[1]
	}

	if skipDuplicates {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO businesses
				(id, name, address, city, city_slug, state, zip, phone, email, website,
				 description, short_description, category_id, rating, review_count,
				 latitude, longitude, hours, social_links, slug, url_path, services,
				 import_batch_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, NOW(), NOW())
			ON CONFLICT (city_slug, slug) DO NOTHING
		`, uuid.New(), rec.Name, rec.Address, rec.City, citySlug, rec.State, rec.Zip,
			rec.Phone, nullable(rec.Email), nullable(rec.Website),
			nullable(rec.Description), nullable(rec.ShortDescription), rec.CategoryID,
			rec.Rating, rec.ReviewCount, rec.Latitude, rec.Longitude,
			string(hoursJSON), string(socialJSON), rec.Slug, rec.URLPath, string(servicesJSON),
			batchID)
		if err != nil {
			return "", err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return "skipped", nil
		}
		return "created", nil
	}

	var inserted bool
	err := tx.QueryRowContext(ctx, `
		INSERT INTO businesses
			(id, name, address, city, city_slug, state, zip, phone, email, website,
			 description, short_description, category_id, rating, review_count,
			 latitude, longitude, hours, social_links, slug, url_path, services,
			 import_batch_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, NOW(), NOW())
		ON CONFLICT (city_slug, slug) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			email = COALESCE(EXCLUDED.email, businesses.email),
			website = COALESCE(EXCLUDED.website, businesses.website),
			description = COALESCE(EXCLUDED.description, businesses.description),
			rating = COALESCE(EXCLUDED.rating, businesses.rating),
			review_count = COALESCE(EXCLUDED.review_count, businesses.review_count),
			hours = EXCLUDED.hours,
			social_links = EXCLUDED.social_links,
			services = EXCLUDED.services,
			updated_at = NOW()
		RETURNING (xmax = 0)
	`, uuid.New(), rec.Name, rec.Address, rec.City, citySlug, rec.State, rec.Zip,
		rec.Phone, nullable(rec.Email), nullable(rec.Website),
		nullable(rec.Description), nullable(rec.ShortDescription), rec.CategoryID,
		rec.Rating, rec.ReviewCount, rec.Latitude, rec.Longitude,
		string(hoursJSON), string(socialJSON), rec.Slug, rec.URLPath, string(servicesJSON),
		batchID).Scan(&inserted)
	if err != nil {
		return "", err
	}
	if inserted {
		return "created", nil
	}
	return "updated", nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// splitURLPath decomposes "/category/city/business" into its parts.
func splitURLPath(path string) ([3]string, bool) {
	var out [3]string
	if !strings.HasPrefix(path, "/") {
		return out, false
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return out, false
	}
	copy(out[:], parts)
	return out, true
}
