package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"qr-menu/analytics-svc/internal/domain"
)

// PostgresStats reads counters from the restaurant documents owned by the
// menu service. It never writes.
type PostgresStats struct {
	DB *sql.DB
}

func NewPostgresStats(db *sql.DB) *PostgresStats {
	return &PostgresStats{DB: db}
}

func (p *PostgresStats) Stats(ctx context.Context, restaurantID string) (*domain.RestaurantStats, error) {
	var (
		s   domain.RestaurantStats
		raw []byte
	)
	err := p.DB.QueryRowContext(ctx, `
		SELECT id, COALESCE(doc->>'ownerId', ''), COALESCE(doc->>'name', ''),
			COALESCE((doc->>'qrScans')::int, 0), COALESCE((doc->>'menuViews')::int, 0),
			COALESCE(doc->'dailyScans', '[]'::jsonb)
		FROM restaurants WHERE id = $1
	`, restaurantID).Scan(&s.ID, &s.OwnerID, &s.Name, &s.QRScans, &s.MenuViews, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.DailyScans); err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *PostgresStats) TopScanned(ctx context.Context, limit int) ([]domain.TopRestaurant, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT id, COALESCE(doc->>'name', ''),
			COALESCE((doc->>'qrScans')::int, 0) AS qr_scans,
			COALESCE((doc->>'menuViews')::int, 0)
		FROM restaurants
		ORDER BY qr_scans DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	top := []domain.TopRestaurant{}
	for rows.Next() {
		var t domain.TopRestaurant
		if err := rows.Scan(&t.ID, &t.Name, &t.QRScans, &t.MenuViews); err != nil {
			return nil, err
		}
		top = append(top, t)
	}
	return top, rows.Err()
}
