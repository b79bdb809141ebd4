package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"FishCast/internal/domain/models"
	domrepo "FishCast/internal/domain/repository"
	pkgch "FishCast/pkg/clickhouse"
	applogger "FishCast/pkg/logger"
)

// OceanSchema creates the observations table read by CHOceanStore.
const OceanSchema = `
CREATE TABLE IF NOT EXISTS %s (
    date        Date,
    lat         Float64,
    lon         Float64,
    sst         Nullable(Float64),
    chlorophyll Nullable(Float64)
) ENGINE = MergeTree
ORDER BY (date, lat, lon)`

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// CHOceanStore reads gridded observations from ClickHouse and averages every
// cell inside the bounding box into one record per day. Days with no rows in
// the box are absent from the result.
type CHOceanStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

var _ domrepo.OceanSource = (*CHOceanStore)(nil)

func NewCHOceanStore(ch *pkgch.Client, table string, l *applogger.Logger) (*CHOceanStore, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid clickhouse table name %q", table)
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &CHOceanStore{db: ch.DB(), table: table, l: l}, nil
}

// Init creates the observations table if missing.
func (s *CHOceanStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(OceanSchema, s.table)); err != nil {
		return fmt.Errorf("init ocean schema: %w", err)
	}
	return nil
}

func (s *CHOceanStore) Fetch(ctx context.Context, dr models.DateRange, bbox models.BoundingBox) ([]models.OceanRecord, error) {
	start := time.Now()
	q, args := oceanQuery(s.table, dr, bbox)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.l.Error("clickhouse ocean query error",
			applogger.String("table", s.table),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("fetch ocean records: %w", err)
	}
	defer rows.Close()

	out := make([]models.OceanRecord, 0, dr.Days())
	for rows.Next() {
		var (
			day      time.Time
			sst, chl sql.NullFloat64
		)
		if err := rows.Scan(&day, &sst, &chl); err != nil {
			return nil, fmt.Errorf("scan ocean record: %w", err)
		}
		out = append(out, models.OceanRecord{
			Date:        day,
			SST:         nullable(sst),
			Chlorophyll: nullable(chl),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	s.l.Debug("clickhouse ocean fetch ok",
		applogger.String("table", s.table),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

func oceanQuery(table string, dr models.DateRange, bbox models.BoundingBox) (string, []any) {
	const qtpl = `
        SELECT date, avgOrNull(sst) AS sst, avgOrNull(chlorophyll) AS chlorophyll
        FROM %s
        WHERE date >= ? AND date <= ?
          AND lat >= ? AND lat <= ?
          AND lon >= ? AND lon <= ?
        GROUP BY date
        ORDER BY date ASC
    `
	return fmt.Sprintf(qtpl, table), []any{
		dr.Start, dr.End,
		bbox.LatMin, bbox.LatMax,
		bbox.LonMin, bbox.LonMax,
	}
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return models.Float(v.Float64)
}
