package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"qr-menu/agg-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const counterTTL = 7 * 24 * time.Hour

// Store updates scan counters in Redis and in the restaurant documents kept
// by the menu service.
type Store struct {
	DB    *sql.DB
	Redis *redis.Client
}

func NewStore(db *sql.DB, rdb *redis.Client) *Store {
	return &Store{DB: db, Redis: rdb}
}

func DailyCounterKey(date, restaurantID string) string {
	return "scans:daily:" + date + ":" + restaurantID
}

func (s *Store) IncrementDaily(ctx context.Context, restaurantID, date string) (int64, error) {
	key := DailyCounterKey(date, restaurantID)
	pipe := s.Redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, counterTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RecordScan bumps the view counters of one restaurant and folds the scan
// into its daily history. The document row is locked for the update.
func (s *Store) RecordScan(ctx context.Context, restaurantID, date string, fromQR bool) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var raw []byte
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(doc->'dailyScans', '[]'::jsonb) FROM restaurants WHERE id = $1 FOR UPDATE",
		restaurantID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrRestaurantNotFound
	}
	if err != nil {
		return err
	}

	var scans []domain.DailyScan
	if err := json.Unmarshal(raw, &scans); err != nil {
		return fmt.Errorf("decode daily scans of %s: %w", restaurantID, err)
	}
	updated, err := json.Marshal(domain.ApplyDailyScan(scans, date))
	if err != nil {
		return err
	}

	qr := 0
	if fromQR {
		qr = 1
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE restaurants SET doc = doc || jsonb_build_object(
			'qrScans', COALESCE((doc->>'qrScans')::int, 0) + $2,
			'menuViews', COALESCE((doc->>'menuViews')::int, 0) + 1,
			'dailyScans', $3::jsonb
		), updated_at = now()
		WHERE id = $1
	`, restaurantID, qr, updated)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// RestaurantIDs lists every restaurant with a document.
func (s *Store) RestaurantIDs(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT id FROM restaurants ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TrimDailyScans drops the entries of one restaurant that fell out of the
// history window as of today. The row is locked like in RecordScan, so a scan
// recorded concurrently is never overwritten. It reports whether the document
// changed.
func (s *Store) TrimDailyScans(ctx context.Context, restaurantID string, today time.Time) (bool, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var raw []byte
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(doc->'dailyScans', '[]'::jsonb) FROM restaurants WHERE id = $1 FOR UPDATE",
		restaurantID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, domain.ErrRestaurantNotFound
	}
	if err != nil {
		return false, err
	}

	var scans []domain.DailyScan
	if err := json.Unmarshal(raw, &scans); err != nil {
		return false, fmt.Errorf("decode daily scans of %s: %w", restaurantID, err)
	}
	trimmed := domain.TrimDailyScans(scans, today)
	if slices.Equal(trimmed, scans) {
		return false, nil
	}

	payload, err := json.Marshal(trimmed)
	if err != nil {
		return false, err
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE restaurants SET doc = doc || jsonb_build_object('dailyScans', $2::jsonb), updated_at = now() WHERE id = $1",
		restaurantID, payload)
	if err != nil {
		return false, err
	}
	return true, tx.Commit()
}
