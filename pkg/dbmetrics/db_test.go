package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
)

func TestOperationName(t *testing.T) {
	assert.Equal(t, "select", operationName("SELECT id FROM availability"))
	assert.Equal(t, "insert", operationName("  INSERT INTO availability (id) VALUES ($1)"))
	assert.Equal(t, "with", operationName("WITH x AS (SELECT 1) SELECT * FROM x"))
	assert.Equal(t, "unknown", operationName("   "))
}

func TestGetExecutor(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	assert.False(t, IsInTransaction(ctx))
	assert.Equal(t, DBExecutor(db), GetExecutor(ctx, db))

	wrapped := Wrap(db, nil, "test")
	txCtx := WithTx(ctx, wrapped)
	assert.True(t, IsInTransaction(txCtx))
	assert.Equal(t, DBExecutor(wrapped), GetExecutor(txCtx, db))
}

func TestDB_ObservesQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := metrics.NewWithRegisterer(prometheus.NewRegistry(), "test")
	wrapped := Wrap(db, m, "test")

	mock.ExpectExec("DELETE FROM availability").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE availability").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err = wrapped.ExecContext(context.Background(), "DELETE FROM availability WHERE id = $1", "x")
	require.NoError(t, err)

	tx, err := wrapped.BeginTx(context.Background(), &sql.TxOptions{Isolation: sql.LevelSerializable})
	require.NoError(t, err)
	_, err = tx.ExecContext(context.Background(), "UPDATE availability SET version = 2")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, float64(1), counterValue(t, m.DBQueriesTotal.WithLabelValues("delete", "ok")))
	assert.Equal(t, float64(1), counterValue(t, m.DBQueriesTotal.WithLabelValues("update", "ok")))
	assert.Equal(t, float64(1), counterValue(t, m.DBTransactionsTotal.WithLabelValues("serializable", "commit")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, c.Write(&out))
	return out.GetCounter().GetValue()
}
