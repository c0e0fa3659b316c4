package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"qr-menu/menu-svc/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db, slog.New(slog.NewTextHandler(io.Discard, nil))), mock
}

func docRow(t *testing.T, rest domain.Restaurant) *sqlmock.Rows {
	t.Helper()
	raw, err := json.Marshal(rest)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"doc"}).AddRow(raw)
}

func TestPostgresRepository_Get(t *testing.T) {
	repo, mock := setupRepo(t)
	stored := domain.Restaurant{
		ID:   "owner-1",
		Name: "Cafe",
		MenuSections: []domain.MenuSection{{
			ID:    "s1",
			Name:  "Starters",
			Items: []domain.MenuItem{{ID: "i1", Name: "Soup", Price: domain.Float(4)}},
		}},
	}

	mock.ExpectQuery("SELECT doc FROM restaurants WHERE id").
		WithArgs("owner-1").
		WillReturnRows(docRow(t, stored))

	got, err := repo.Get(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "Cafe", got.Name)
	require.Len(t, got.MenuSections, 1)
	assert.Equal(t, 4.0, *got.MenuSections[0].Items[0].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetNotFound(t *testing.T) {
	repo, mock := setupRepo(t)
	mock.ExpectQuery("SELECT doc FROM restaurants").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
}

func TestPostgresRepository_Create(t *testing.T) {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		execErr error
		wantErr error
	}{
		{name: "inserted"},
		{name: "owner already has a restaurant", execErr: &pq.Error{Code: "23505", Message: "duplicate key value"}, wantErr: domain.ErrRestaurantExists},
		{name: "database error", execErr: assert.AnError, wantErr: assert.AnError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo, mock := setupRepo(t)
			rest := &domain.Restaurant{ID: "owner-1", OwnerID: "owner-1", Name: "Cafe", CreatedAt: created}

			exec := mock.ExpectExec("INSERT INTO restaurants").
				WithArgs("owner-1", sqlmock.AnyArg(), created)
			if testCase.execErr != nil {
				exec.WillReturnError(testCase.execErr)
			} else {
				exec.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.Create(context.Background(), rest)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_CreateNeverOverwrites(t *testing.T) {
	noUpsert := sqlmock.QueryMatcherFunc(func(expected, actual string) error {
		if strings.Contains(actual, "ON CONFLICT") {
			return fmt.Errorf("registration must not upsert: %s", actual)
		}
		return sqlmock.QueryMatcherRegexp.Match(expected, actual)
	})
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(noUpsert))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewPostgresRepository(db, nil)

	mock.ExpectExec("INSERT INTO restaurants").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), &domain.Restaurant{ID: "owner-1"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Update(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		execErr  error
		wantErr  error
	}{
		{name: "merged", affected: 1},
		{name: "missing document", affected: 0, wantErr: domain.ErrRestaurantNotFound},
		{name: "database error", execErr: assert.AnError, wantErr: assert.AnError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo, mock := setupRepo(t)
			exec := mock.ExpectExec(`UPDATE restaurants SET doc = doc \|\| \$2::jsonb`).
				WithArgs("owner-1", []byte(`{"isPublic":true}`))
			if testCase.execErr != nil {
				exec.WillReturnError(testCase.execErr)
			} else {
				exec.WillReturnResult(sqlmock.NewResult(0, testCase.affected))
			}

			err := repo.Update(context.Background(), "owner-1", map[string]any{"isPublic": true})
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_Query(t *testing.T) {
	repo, mock := setupRepo(t)
	blocked := true

	rows := sqlmock.NewRows([]string{"id", "doc"}).
		AddRow("a", []byte(`{"id":"a","name":"Alpha","isBlocked":true}`)).
		AddRow("b", []byte(`{"id":"b","name":"Alphabet","isBlocked":true}`))

	mock.ExpectQuery(`SELECT id, doc FROM restaurants WHERE .*isBlocked.* = \$1 AND lower\(doc->>'name'\) LIKE \$2 ORDER BY created_at DESC LIMIT \$3`).
		WithArgs(true, "%alp%", 10).
		WillReturnRows(rows)

	got, err := repo.Query(context.Background(), domain.RestaurantFilter{Blocked: &blocked, Search: " Alp ", Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_QueryLogsUndecodableDocuments(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var buf bytes.Buffer
	repo := NewPostgresRepository(db, slog.New(slog.NewJSONHandler(&buf, nil)))

	mock.ExpectQuery(`SELECT id, doc FROM restaurants`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).
			AddRow("a", []byte(`{"id":"a","name":"Alpha"}`)).
			AddRow("broken", []byte(`not json`)))

	got, err := repo.Query(context.Background(), domain.RestaurantFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	assert.Contains(t, buf.String(), `"restaurant_id":"broken"`)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestPostgresRepository_QueryAll(t *testing.T) {
	repo, mock := setupRepo(t)
	mock.ExpectQuery(`SELECT id, doc FROM restaurants ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}))

	got, err := repo.Query(context.Background(), domain.RestaurantFilter{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPostgresRepository_Delete(t *testing.T) {
	repo, mock := setupRepo(t)
	mock.ExpectExec("DELETE FROM restaurants WHERE id").
		WithArgs("owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM restaurants WHERE id").
		WithArgs("owner-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "owner-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "owner-1"), domain.ErrRestaurantNotFound)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := Migrations.ReadDir("migrations")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 2)
}
