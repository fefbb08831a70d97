package store

import "time"

// BatchStatus is the lifecycle state of an import batch.
type BatchStatus string

const (
	BatchRunning   BatchStatus = "running"
	BatchCompleted BatchStatus = "completed"
	BatchFailed    BatchStatus = "failed"
)

// ImportBatch is the tracking record for one import run.
type ImportBatch struct {
	ID             string            `json:"id"`
	ImportType     string            `json:"import_type"`
	Source         string            `json:"source"`
	SourceMetadata map[string]string `json:"source_metadata,omitempty"`
	Status         BatchStatus       `json:"status"`
	CreatedRows    int               `json:"created_rows"`
	UpdatedRows    int               `json:"updated_rows"`
	SkippedRows    int               `json:"skipped_rows"`
	FailedRows     int               `json:"failed_rows"`
	ErrorSummaries []string          `json:"error_summaries,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	FinalizedAt    *time.Time        `json:"finalized_at,omitempty"`
}

// CreateBatchRequest opens a new tracking record before any record is
// written.
type CreateBatchRequest struct {
	ImportType     string            `json:"import_type"`
	Source         string            `json:"source"`
	SourceMetadata map[string]string `json:"source_metadata,omitempty"`
	ExpectedRows   int               `json:"expected_rows,omitempty"`
}

// BusinessUpsert is one canonical business record on the wire.
type BusinessUpsert struct {
	Name             string            `json:"name"`
	Address          string            `json:"address"`
	City             string            `json:"city"`
	State            string            `json:"state"`
	Zip              string            `json:"zip"`
	Phone            string            `json:"phone"`
	Email            string            `json:"email,omitempty"`
	Website          string            `json:"website,omitempty"`
	Description      string            `json:"description,omitempty"`
	ShortDescription string            `json:"short_description,omitempty"`
	CategoryID       string            `json:"category_id"`
	CategorySlug     string            `json:"category_slug"`
	Rating           *float64          `json:"rating,omitempty"`
	ReviewCount      *int              `json:"review_count,omitempty"`
	Latitude         *float64          `json:"latitude,omitempty"`
	Longitude        *float64          `json:"longitude,omitempty"`
	Hours            map[string]string `json:"hours,omitempty"`
	SocialLinks      map[string]string `json:"social_links,omitempty"`
	Slug             string            `json:"slug"`
	URLPath          string            `json:"url_path"`
	ServicesOffered  []string          `json:"services_offered,omitempty"`
}

// UpsertRequest carries one chunk of records to the store.
type UpsertRequest struct {
	BatchID        string           `json:"batch_id"`
	SkipDuplicates bool             `json:"skip_duplicates"`
	Businesses     []BusinessUpsert `json:"businesses"`
}

// ReviewUpsert is one canonical review record on the wire, attached to
// a business by slug.
type ReviewUpsert struct {
	BusinessSlug string   `json:"business_slug"`
	Author       string   `json:"author,omitempty"`
	Rating       *float64 `json:"rating"`
	Text         string   `json:"text,omitempty"`
	ReviewedAt   string   `json:"reviewed_at,omitempty"`
}

// ReviewUpsertRequest carries one chunk of reviews to the store.
type ReviewUpsertRequest struct {
	BatchID        string         `json:"batch_id"`
	SkipDuplicates bool           `json:"skip_duplicates"`
	Reviews        []ReviewUpsert `json:"reviews"`
}

// ItemError is a per-record persistence failure.
type ItemError struct {
	Index   int    `json:"index"`
	Slug    string `json:"slug,omitempty"`
	Message string `json:"message"`
}

// UpsertResult is the store's per-chunk outcome report.
type UpsertResult struct {
	Created int         `json:"created"`
	Updated int         `json:"updated"`
	Skipped int         `json:"skipped"`
	Failed  int         `json:"failed"`
	Errors  []ItemError `json:"errors,omitempty"`
}

// ResultCounts summarizes a finished run for batch finalization.
type ResultCounts struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// FinalizeRequest closes the tracking record with a terminal status.
type FinalizeRequest struct {
	Status         BatchStatus  `json:"status"`
	Counts         ResultCounts `json:"counts"`
	ErrorSummaries []string     `json:"error_summaries,omitempty"`
}

// Category is a taxonomy entry as the store knows it.
type Category struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}
