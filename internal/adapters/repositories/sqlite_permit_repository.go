package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"haul-quote-service/internal/ports"
	"strings"
	"time"
)

// SQLite backed store for computed permit pricing.
type SqlitePermitRepository struct {
	DB *sql.DB
}

func NewSqlitePermitRepository(db *sql.DB) *SqlitePermitRepository {
	return &SqlitePermitRepository{DB: db}
}

// Persist one permit's pricing block, replacing any previous values.
func (s *SqlitePermitRepository) UpdatePricing(ctx context.Context, p ports.PermitPricing) error {
	if s.DB == nil {
		return errors.New("permit repository: db is nil")
	}

	if strings.TrimSpace(p.SiteNumber) == "" {
		return errors.New("update permit pricing: site number must not be empty")
	}

	q := `
	INSERT OR REPLACE INTO permits (
		site_number, roundtrip_minutes, added_minutes,
		trucking_price_per_load, total_price_per_load, updated_at
	)
	VALUES (?, ?, ?, ?, ?, ?);
	`

	_, err := s.DB.ExecContext(ctx, q,
		p.SiteNumber, p.RoundtripMinutes, p.AddedMinutes,
		p.TruckingPricePerLoad, p.TotalPricePerLoad, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("update permit pricing site=%q: %w", p.SiteNumber, err)
	}

	return nil
}
