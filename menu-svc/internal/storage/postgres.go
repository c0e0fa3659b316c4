package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"qr-menu/menu-svc/internal/domain"

	"github.com/lib/pq"
)

//go:embed migrations/*.sql
var Migrations embed.FS

const uniqueViolation = "23505"

// PostgresRepository keeps one JSONB document per restaurant.
type PostgresRepository struct {
	DB  *sql.DB
	Log *slog.Logger
}

func NewPostgresRepository(db *sql.DB, log *slog.Logger) *PostgresRepository {
	if log == nil {
		log = slog.Default()
	}
	return &PostgresRepository{DB: db, Log: log}
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*domain.Restaurant, error) {
	var doc []byte
	err := r.DB.QueryRowContext(ctx, "SELECT doc FROM restaurants WHERE id = $1", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}

	var rest domain.Restaurant
	if err := json.Unmarshal(doc, &rest); err != nil {
		return nil, fmt.Errorf("decode restaurant %s: %w", id, err)
	}
	return &rest, nil
}

// Create inserts a new document. The primary key allows one restaurant per
// owner, so a second insert fails with ErrRestaurantExists.
func (r *PostgresRepository) Create(ctx context.Context, rest *domain.Restaurant) error {
	doc, err := json.Marshal(rest)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO restaurants (id, doc, created_at)
		VALUES ($1, $2, $3)
	`, rest.ID, doc, rest.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrRestaurantExists
	}
	return err
}

// Update merges the given top-level fields into the stored document.
func (r *PostgresRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	result, err := r.DB.ExecContext(ctx,
		"UPDATE restaurants SET doc = doc || $2::jsonb, updated_at = now() WHERE id = $1",
		id, patch)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrRestaurantNotFound
	}
	return nil
}

func (r *PostgresRepository) Query(ctx context.Context, filter domain.RestaurantFilter) ([]domain.Restaurant, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Public != nil {
		where = append(where, "COALESCE((doc->>'isPublic')::boolean, false) = "+arg(*filter.Public))
	}
	if filter.Blocked != nil {
		where = append(where, "COALESCE((doc->>'isBlocked')::boolean, false) = "+arg(*filter.Blocked))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		where = append(where, "lower(doc->>'name') LIKE "+arg("%"+strings.ToLower(s)+"%"))
	}

	query := "SELECT id, doc FROM restaurants"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + arg(filter.Offset)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants := []domain.Restaurant{}
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		var rest domain.Restaurant
		if err := json.Unmarshal(doc, &rest); err != nil {
			r.Log.Error("skipping undecodable restaurant document", "restaurant_id", id, "error", err)
			continue
		}
		restaurants = append(restaurants, rest)
	}
	return restaurants, rows.Err()
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM restaurants WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrRestaurantNotFound
	}
	return nil
}
