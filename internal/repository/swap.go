package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arijitroy667/uniswap-holesky/internal/models"
)

type SwapRepo struct {
	pool *pgxpool.Pool
}

func NewSwapRepo(pool *pgxpool.Pool) *SwapRepo {
	return &SwapRepo{pool: pool}
}

func (r *SwapRepo) Record(ctx context.Context, s *models.Swap) (*models.Swap, error) {
	ts := s.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	td := TradingDay(ts)

	row := r.pool.QueryRow(ctx,
		`INSERT INTO swap_history
		 (timestamp, trading_day, direction, status, caller, recipient, pair,
		  amount_in, amount_out, amount_out_min, is_simulated)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 RETURNING *`,
		ts, td, s.Direction, s.Status, s.Caller, s.Recipient, s.Pair,
		s.AmountIn, s.AmountOut, s.AmountOutMin, s.IsSimulated,
	)
	return scanSwap(row)
}

// GetByDay returns swaps for a given trading day.
// If direction is non-nil, filters by swap direction.
func (r *SwapRepo) GetByDay(ctx context.Context, tradingDay string, direction *string) ([]models.Swap, error) {
	query, args := buildFilteredQuery(
		`SELECT * FROM swap_history WHERE trading_day = $1`,
		[]any{tradingDay},
		direction,
	)
	query += " ORDER BY timestamp ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSwaps(rows)
}

// GetAll returns the most recent swaps.
// If direction is non-nil, filters by swap direction.
func (r *SwapRepo) GetAll(ctx context.Context, limit int, direction *string) ([]models.Swap, error) {
	query, args := buildFilteredQuery(
		`SELECT * FROM swap_history WHERE 1=1`,
		nil,
		direction,
	)
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY timestamp DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSwaps(rows)
}

// GetStats returns aggregate swap statistics.
func (r *SwapRepo) GetStats(ctx context.Context) (*models.SwapStats, error) {
	var s models.SwapStats
	err := r.pool.QueryRow(ctx,
		`SELECT
			COUNT(*),
			COUNT(CASE WHEN direction = 'eth_to_usdc' THEN 1 END),
			COUNT(CASE WHEN direction = 'usdc_to_eth' THEN 1 END),
			COUNT(CASE WHEN status = 'refunded' THEN 1 END),
			MIN(timestamp),
			MAX(timestamp)
		 FROM swap_history`,
	).Scan(
		&s.TotalSwaps, &s.EthToUsdcCount, &s.UsdcToEthCount,
		&s.RefundedCount, &s.FirstSwap, &s.LastSwap,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SwapRepo) CountToday(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM swap_history WHERE trading_day = $1`,
		TradingDayNow(),
	).Scan(&count)
	return count, err
}

// buildFilteredQuery appends a direction clause when direction is non-nil.
func buildFilteredQuery(baseQuery string, baseArgs []any, direction *string) (string, []any) {
	if direction == nil {
		return baseQuery, baseArgs
	}
	args := append(baseArgs, *direction)
	return baseQuery + fmt.Sprintf(" AND direction = $%d", len(args)), args
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

type rowsIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanSwap(row scannable) (*models.Swap, error) {
	var s models.Swap
	var td time.Time
	err := row.Scan(
		&s.ID, &s.Timestamp, &td, &s.Direction, &s.Status, &s.Caller,
		&s.Recipient, &s.Pair, &s.AmountIn, &s.AmountOut, &s.AmountOutMin,
		&s.IsSimulated, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.TradingDay = td.Format("2006-01-02")
	return &s, nil
}

func collectSwaps(rows rowsIter) ([]models.Swap, error) {
	var out []models.Swap
	for rows.Next() {
		var s models.Swap
		var td time.Time
		if err := rows.Scan(
			&s.ID, &s.Timestamp, &td, &s.Direction, &s.Status, &s.Caller,
			&s.Recipient, &s.Pair, &s.AmountIn, &s.AmountOut, &s.AmountOutMin,
			&s.IsSimulated, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		s.TradingDay = td.Format("2006-01-02")
		out = append(out, s)
	}
	return out, rows.Err()
}
