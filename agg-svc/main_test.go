package main

import (
	"context"
	"testing"
	"time"

	"qr-menu/agg-svc/internal/domain"
	"qr-menu/logging"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWorkers(t *testing.T) (workers, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return newWorkers(deps{db: db, redis: rdb, log: logging.Discard()}), mock, mr
}

func TestScanIsCountedTwice(t *testing.T) {
	w, mock, mr := setupWorkers(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COALESCE\\(doc->'dailyScans'").
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"daily"}).AddRow([]byte(`[]`)))
	mock.ExpectExec("UPDATE restaurants").
		WithArgs("r1", 1, []byte(`[{"date":"2026-10-15","count":1}]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w.consumer.ProcessScan(context.Background(), domain.ScanEvent{
		Type:         domain.ScanEventType,
		RestaurantID: "r1",
		Source:       "qr",
		Timestamp:    time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
	})

	got, err := mr.Get("scans:daily:2026-10-15:r1")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrimmerRemovesOldDays(t *testing.T) {
	w, mock, _ := setupWorkers(t)
	w.trimmer.Now = func() time.Time { return time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC) }

	mock.ExpectQuery("SELECT id FROM restaurants").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r1"))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COALESCE\\(doc->'dailyScans'.*FOR UPDATE").
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"daily"}).
			AddRow([]byte(`[{"date":"2026-10-15","count":2},{"date":"2026-01-01","count":5}]`)))
	mock.ExpectExec("UPDATE restaurants").
		WithArgs("r1", []byte(`[{"date":"2026-10-15","count":2}]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := w.trimmer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
