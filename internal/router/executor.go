package router

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/arijitroy667/uniswap-holesky/internal/amm"
	"github.com/arijitroy667/uniswap-holesky/internal/ledger"
)

// executeHop performs one pairwise swap: it maps amountOut onto the pair's
// canonical output slot (the other slot stays zero) and invokes the pair's
// swap. The input token must already sit in the pair; the pair enforces its
// own invariant, this side only presents correctly ordered arguments.
func executeHop(book *ledger.Ledger, resolver amm.PairResolver, input, output common.Address, amountOut *uint256.Int, to common.Address) error {
	token0, _, err := amm.SortTokens(input, output)
	if err != nil {
		return err
	}
	pair, err := resolver.PairFor(input, output)
	if err != nil {
		return err
	}
	amount0Out, amount1Out := uint256.NewInt(0), amountOut
	if output == token0 {
		amount0Out, amount1Out = amountOut, uint256.NewInt(0)
	}
	if err := book.PairSwap(pair, amount0Out, amount1Out, to); err != nil {
		return fmt.Errorf("%w: %w", ErrSwapFailed, err)
	}
	return nil
}
