package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/arijitroy667/uniswap-holesky/internal/models"
	"github.com/arijitroy667/uniswap-holesky/internal/repository"
	"github.com/arijitroy667/uniswap-holesky/internal/testutil"
)

// ---------- SwapRepo ----------

func TestSwapRepo(t *testing.T) {
	pool := testutil.SetupPool(t)
	repo := repository.NewSwapRepo(pool)
	ctx := context.Background()

	out := "498003490519951608"
	swap := &models.Swap{
		Timestamp:    time.Now(),
		Direction:    "usdc_to_eth",
		Status:       "executed",
		Caller:       "0x00000000000000000000000000000000000000D4",
		Recipient:    "0x00000000000000000000000000000000000000E5",
		Pair:         "0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc",
		AmountIn:     "1000000000",
		AmountOut:    &out,
		AmountOutMin: "1",
		IsSimulated:  true,
	}

	// Record
	saved, err := repo.Record(ctx, swap)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if saved.ID == 0 {
		t.Fatal("expected non-zero ID")
	}
	if saved.AmountIn != "1000000000" {
		t.Fatalf("amountIn mismatch: got %s", saved.AmountIn)
	}
	if saved.AmountOut == nil || *saved.AmountOut != out {
		t.Fatalf("amountOut mismatch: got %v", saved.AmountOut)
	}
	t.Logf("Recorded swap: id=%d direction=%s day=%s", saved.ID, saved.Direction, saved.TradingDay)

	// A refunded swap carries no output amount
	refunded := &models.Swap{
		Timestamp:    time.Now(),
		Direction:    "usdc_to_eth",
		Status:       "refunded",
		Caller:       swap.Caller,
		Recipient:    swap.Recipient,
		Pair:         swap.Pair,
		AmountIn:     "1000000000",
		AmountOutMin: "999999999999999999999",
		IsSimulated:  true,
	}
	savedRefund, err := repo.Record(ctx, refunded)
	if err != nil {
		t.Fatalf("Record refunded: %v", err)
	}
	if savedRefund.AmountOut != nil {
		t.Fatalf("refunded swap should have nil amountOut, got %v", *savedRefund.AmountOut)
	}

	// GetByDay
	swaps, err := repo.GetByDay(ctx, saved.TradingDay, nil)
	if err != nil {
		t.Fatalf("GetByDay: %v", err)
	}
	if len(swaps) < 2 {
		t.Fatalf("expected at least 2 swaps for %s, got %d", saved.TradingDay, len(swaps))
	}
	t.Logf("GetByDay(%s): %d rows", saved.TradingDay, len(swaps))

	// GetByDay with direction filter
	dir := "eth_to_usdc"
	filtered, err := repo.GetByDay(ctx, saved.TradingDay, &dir)
	if err != nil {
		t.Fatalf("GetByDay filtered: %v", err)
	}
	for _, s := range filtered {
		if s.Direction != dir {
			t.Fatalf("filter leaked direction %s", s.Direction)
		}
	}

	// GetAll
	recent, err := repo.GetAll(ctx, 10, nil)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(recent) == 0 {
		t.Fatal("expected recent swaps")
	}
	if len(recent) > 10 {
		t.Fatalf("limit not applied: %d rows", len(recent))
	}
	t.Logf("GetAll: %d rows", len(recent))

	// GetStats
	stats, err := repo.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalSwaps < 2 {
		t.Fatalf("expected at least 2 total swaps, got %d", stats.TotalSwaps)
	}
	if stats.RefundedCount < 1 {
		t.Fatalf("expected at least 1 refunded swap, got %d", stats.RefundedCount)
	}
	t.Logf("Stats: total=%d eth_to_usdc=%d usdc_to_eth=%d refunded=%d",
		stats.TotalSwaps, stats.EthToUsdcCount, stats.UsdcToEthCount, stats.RefundedCount)

	// CountToday
	count, err := repo.CountToday(ctx)
	if err != nil {
		t.Fatalf("CountToday: %v", err)
	}
	t.Logf("CountToday: %d", count)
}

// ---------- TradingDay ----------

func TestTradingDay(t *testing.T) {
	// 2024-01-15 at 16:00 UTC (before 17:00 cutoff) => trading day = Jan 14
	ts := time.Date(2024, 1, 15, 16, 0, 0, 0, time.UTC)
	got := repository.TradingDay(ts)
	if got != "2024-01-14" {
		t.Fatalf("expected 2024-01-14, got %s", got)
	}

	// 2024-01-15 at 18:00 UTC (after 17:00 cutoff) => trading day = Jan 15
	ts2 := time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)
	got2 := repository.TradingDay(ts2)
	if got2 != "2024-01-15" {
		t.Fatalf("expected 2024-01-15, got %s", got2)
	}

	t.Logf("TradingDay tests passed")
}
