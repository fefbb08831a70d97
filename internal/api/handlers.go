package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/azlocal/directory/internal/pkg/logger"
	"github.com/azlocal/directory/internal/repository/postgres"
	"github.com/azlocal/directory/internal/store"
)

// Handlers bundles the repositories behind the store's HTTP endpoints.
type Handlers struct {
	batches    *postgres.BatchRepo
	businesses *postgres.BusinessRepo
	reviews    *postgres.ReviewRepo
	categories *postgres.CategoryRepo
	db         *sql.DB
}

func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if err := h.db.PingContext(r.Context()); err != nil {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, map[string]string{"status": status})
}

// HandleCreateBatch opens a tracking record for a new import run.
func (h *Handlers) HandleCreateBatch(w http.ResponseWriter, r *http.Request) {
	var req store.CreateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ImportType == "" {
		req.ImportType = "business"
	}

	batch, err := h.batches.Create(r.Context(), req)
	if err != nil {
		logger.Error("create batch failed", "error", err.Error())
		respondError(w, http.StatusInternalServerError, "failed to create import batch")
		return
	}
	respondJSON(w, http.StatusCreated, batch)
}

// HandleFinalizeBatch records the run's single terminal transition.
func (h *Handlers) HandleFinalizeBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")

	var req store.FinalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != store.BatchCompleted && req.Status != store.BatchFailed {
		respondError(w, http.StatusBadRequest, "status must be completed or failed")
		return
	}

	err := h.batches.Finalize(r.Context(), batchID, req)
	if errors.Is(err, postgres.ErrBatchFinalized) {
		respondError(w, http.StatusConflict, "batch already finalized")
		return
	}
	if err != nil {
		logger.Error("finalize batch failed", "batch_id", batchID, "error", err.Error())
		respondError(w, http.StatusInternalServerError, "failed to finalize import batch")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}

// HandleUpsertBusinesses writes one chunk of business records.
func (h *Handlers) HandleUpsertBusinesses(w http.ResponseWriter, r *http.Request) {
	var req store.UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Businesses) == 0 {
		respondError(w, http.StatusBadRequest, "businesses must not be empty")
		return
	}

	result, err := h.businesses.Upsert(r.Context(), req.BatchID, req.Businesses, req.SkipDuplicates)
	if err != nil {
		logger.Error("business upsert failed", "batch_id", req.BatchID, "error", err.Error())
		respondError(w, http.StatusInternalServerError, "failed to upsert businesses")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleUpsertReviews writes one chunk of review records.
func (h *Handlers) HandleUpsertReviews(w http.ResponseWriter, r *http.Request) {
	var req store.ReviewUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Reviews) == 0 {
		respondError(w, http.StatusBadRequest, "reviews must not be empty")
		return
	}

	result, err := h.reviews.Upsert(r.Context(), req.BatchID, req.Reviews, req.SkipDuplicates)
	if err != nil {
		logger.Error("review upsert failed", "batch_id", req.BatchID, "error", err.Error())
		respondError(w, http.StatusInternalServerError, "failed to upsert reviews")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handlers) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.List(r.Context())
	if err != nil {
		logger.Error("list categories failed", "error", err.Error())
		respondError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	if cats == nil {
		cats = []store.Category{}
	}
	respondJSON(w, http.StatusOK, cats)
}

func respondJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, map[string]string{"error": msg})
}
