package risk

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
)

// DailySwapCounter abstracts the swap-counting dependency so Guard can be
// tested without a real database.
type DailySwapCounter interface {
	CountToday(ctx context.Context) (int, error)
}

// Limits holds the service-level swap thresholds from config.
// A zero value (or nil amount) for any field means that check is disabled.
type Limits struct {
	MaxDailySwaps int
	MaxETHIn      *uint256.Int
	MaxUSDCIn     *uint256.Int
}

type Guard struct {
	limits  Limits
	counter DailySwapCounter
}

func NewGuard(limits Limits, counter DailySwapCounter) *Guard {
	return &Guard{limits: limits, counter: counter}
}

// PreSwapCheck validates the per-swap constraints before the router is
// invoked. direction is "eth_to_usdc" or "usdc_to_eth"; amountIn is in the
// input asset's base units. Returns nil if the swap is allowed, a descriptive
// error if blocked.
func (g *Guard) PreSwapCheck(ctx context.Context, direction string, amountIn *uint256.Int) error {
	max := g.limits.MaxUSDCIn
	if direction == "eth_to_usdc" {
		max = g.limits.MaxETHIn
	}
	if max != nil && !max.IsZero() && amountIn.Cmp(max) > 0 {
		return fmt.Errorf("swap blocked: amount %s exceeds max %s for %s",
			amountIn, max, direction)
	}

	if g.limits.MaxDailySwaps > 0 && g.counter != nil {
		count, err := g.counter.CountToday(ctx)
		if err != nil {
			return fmt.Errorf("swap blocked: unable to verify daily swap count: %w", err)
		}
		if count >= g.limits.MaxDailySwaps {
			return fmt.Errorf("swap blocked: daily limit of %d swaps reached (%d executed today)",
				g.limits.MaxDailySwaps, count)
		}
	}

	return nil
}
