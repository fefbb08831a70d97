package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azlocal/directory/internal/repository/postgres"
	"github.com/azlocal/directory/internal/store"
)

func testRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := &Handlers{
		batches:    postgres.NewBatchRepo(db),
		businesses: postgres.NewBusinessRepo(db),
		reviews:    postgres.NewReviewRepo(db),
		categories: postgres.NewCategoryRepo(db),
		db:         db,
	}
	return SetupRoutes(h), mock
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleCreateBatch(t *testing.T) {
	router, mock := testRouter(t)
	mock.ExpectQuery("INSERT INTO import_batches").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("batch-uuid"))

	w := doJSON(t, router, http.MethodPost, "/api/import-batches", store.CreateBatchRequest{
		ImportType: "business",
		Source:     "gmb-export.csv",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var batch store.ImportBatch
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	assert.Equal(t, "batch-uuid", batch.ID)
	assert.Equal(t, store.BatchRunning, batch.Status)
}

func TestHandleCreateBatchBadBody(t *testing.T) {
	router, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/import-batches", bytes.NewBufferString("{nope"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleFinalizeBatch(t *testing.T) {
	router, mock := testRouter(t)
	mock.ExpectExec("UPDATE import_batches").WillReturnResult(sqlmock.NewResult(0, 1))

	w := doJSON(t, router, http.MethodPut, "/api/import-batches/batch-1/finalize", store.FinalizeRequest{
		Status: store.BatchCompleted,
		Counts: store.ResultCounts{Total: 10, Created: 10},
	})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleFinalizeBatchConflict(t *testing.T) {
	router, mock := testRouter(t)
	mock.ExpectExec("UPDATE import_batches").WillReturnResult(sqlmock.NewResult(0, 0))

	w := doJSON(t, router, http.MethodPut, "/api/import-batches/batch-1/finalize", store.FinalizeRequest{
		Status: store.BatchFailed,
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleFinalizeBatchRejectsNonTerminalStatus(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodPut, "/api/import-batches/batch-1/finalize", store.FinalizeRequest{
		Status: store.BatchRunning,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpsertBusinesses(t *testing.T) {
	router, mock := testRouter(t)
	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT record_sp").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO businesses").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(true))
	mock.ExpectExec("RELEASE SAVEPOINT record_sp").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	w := doJSON(t, router, http.MethodPost, "/api/businesses/bulk", store.UpsertRequest{
		BatchID: "batch-1",
		Businesses: []store.BusinessUpsert{{
			Name: "Ace Cooling", Address: "123 E Camelback Rd", City: "Phoenix",
			State: "AZ", Zip: "85014", Phone: "(602) 555-0100",
			CategoryID: "cat-1", Slug: "ace-cooling",
			URLPath: "/hvac-services/phoenix/ace-cooling",
		}},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var result store.UpsertResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Created)
}

func TestHandleUpsertBusinessesEmpty(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/businesses/bulk", store.UpsertRequest{BatchID: "batch-1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleListCategories(t *testing.T) {
	router, mock := testRouter(t)
	mock.ExpectQuery("SELECT id, slug, name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "name"}).
			AddRow("cat-1", "hvac-services", "HVAC Services").
			AddRow("cat-2", "plumbing-services", "Plumbing Services"))

	w := doJSON(t, router, http.MethodGet, "/api/categories", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var cats []store.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cats))
	require.Len(t, cats, 2)
	assert.Equal(t, "hvac-services", cats[0].Slug)
}

func TestHandleHealth(t *testing.T) {
	router, _ := testRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
