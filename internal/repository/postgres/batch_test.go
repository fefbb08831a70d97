package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azlocal/directory/internal/store"
)

func TestBatchCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO import_batches").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("batch-uuid"))

	batch, err := NewBatchRepo(db).Create(context.Background(), store.CreateBatchRequest{
		ImportType: "business",
		Source:     "gmb-export.csv",
	})
	require.NoError(t, err)
	assert.Equal(t, "batch-uuid", batch.ID)
	assert.Equal(t, store.BatchRunning, batch.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchFinalize(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE import_batches").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewBatchRepo(db).Finalize(context.Background(), "batch-1", store.FinalizeRequest{
		Status: store.BatchCompleted,
		Counts: store.ResultCounts{Total: 100, Created: 80},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchFinalizeOnlyOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// The status guard matches no rows when the batch already left the
	// running state.
	mock.ExpectExec("UPDATE import_batches").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewBatchRepo(db).Finalize(context.Background(), "batch-1", store.FinalizeRequest{
		Status: store.BatchFailed,
	})
	require.ErrorIs(t, err, ErrBatchFinalized)
	require.NoError(t, mock.ExpectationsWereMet())
}
