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

// Postgres backed store for computed permit pricing.
type SQLPermitRepository struct {
	DB *sql.DB
}

func NewSQLPermitRepository(db *sql.DB) *SQLPermitRepository {
	return &SQLPermitRepository{DB: db}
}

// Persist one permit's pricing block, replacing any previous values.
func (s *SQLPermitRepository) UpdatePricing(ctx context.Context, p ports.PermitPricing) error {
	if s.DB == nil {
		return errors.New("permit repository: db is nil")
	}

	if strings.TrimSpace(p.SiteNumber) == "" {
		return errors.New("update permit pricing: site number must not be empty")
	}

	q := `
	INSERT INTO permits (
		site_number, roundtrip_minutes, added_minutes,
		trucking_price_per_load, total_price_per_load, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (site_number) DO UPDATE
	SET roundtrip_minutes = EXCLUDED.roundtrip_minutes,
		added_minutes = EXCLUDED.added_minutes,
		trucking_price_per_load = EXCLUDED.trucking_price_per_load,
		total_price_per_load = EXCLUDED.total_price_per_load,
		updated_at = EXCLUDED.updated_at;
	`

	_, err := s.DB.ExecContext(ctx, q,
		p.SiteNumber, p.RoundtripMinutes, p.AddedMinutes,
		p.TruckingPricePerLoad, p.TotalPricePerLoad, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update permit pricing site=%q: %w", p.SiteNumber, err)
	}

	return nil
}
