package amm

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Uniswap V2 fee: 0.3% = 997/1000.
var (
	feeMul = uint256.NewInt(997)
	feeDen = uint256.NewInt(1000)
)

// ReserveReader supplies a pair's live reserves, ordered to the caller's trade
// direction: reserveIn belongs to tokenIn, reserveOut to tokenOut. The two
// implementations are the simulated ledger and the on-chain reserve source.
type ReserveReader interface {
	Reserves(ctx context.Context, pair, tokenIn, tokenOut common.Address) (reserveIn, reserveOut *uint256.Int, err error)
}

// GetAmountOut applies the constant-product formula with the 0.3% fee:
//
//	amountOut = floor(amountIn*997*reserveOut / (reserveIn*1000 + amountIn*997))
//
// Floor division at every step means rounding always favors the pool, never
// the trader, so the computed output can never violate the pair's invariant.
func GetAmountOut(amountIn, reserveIn, reserveOut *uint256.Int) (*uint256.Int, error) {
	if amountIn == nil || amountIn.IsZero() {
		return nil, ErrInsufficientInputAmount
	}
	if reserveIn == nil || reserveOut == nil || reserveIn.IsZero() || reserveOut.IsZero() {
		return nil, ErrInsufficientLiquidity
	}
	amountInWithFee, err := Mul(amountIn, feeMul)
	if err != nil {
		return nil, err
	}
	numerator, err := Mul(amountInWithFee, reserveOut)
	if err != nil {
		return nil, err
	}
	denominator, err := Mul(reserveIn, feeDen)
	if err != nil {
		return nil, err
	}
	denominator, err = Add(denominator, amountInWithFee)
	if err != nil {
		return nil, err
	}
	return Div(numerator, denominator)
}

// GetAmountIn is the inverse quote: the minimum input that yields amountOut.
// The +1 rounds up, again in the pool's favor.
func GetAmountIn(amountOut, reserveIn, reserveOut *uint256.Int) (*uint256.Int, error) {
	if amountOut == nil || amountOut.IsZero() {
		return nil, ErrInsufficientOutputAmount
	}
	if reserveIn == nil || reserveOut == nil || reserveIn.IsZero() || reserveOut.IsZero() {
		return nil, ErrInsufficientLiquidity
	}
	if amountOut.Cmp(reserveOut) >= 0 {
		return nil, ErrInsufficientLiquidity
	}
	numerator, err := Mul(reserveIn, amountOut)
	if err != nil {
		return nil, err
	}
	numerator, err = Mul(numerator, feeDen)
	if err != nil {
		return nil, err
	}
	remaining, err := Sub(reserveOut, amountOut)
	if err != nil {
		return nil, err
	}
	denominator, err := Mul(remaining, feeMul)
	if err != nil {
		return nil, err
	}
	amountIn, err := Div(numerator, denominator)
	if err != nil {
		return nil, err
	}
	return Add(amountIn, uint256.NewInt(1))
}

// GetAmountsOut chains GetAmountOut along the path, each hop's output feeding
// the next hop's input. amounts[0] is the fixed input; len(amounts) == len(path).
func GetAmountsOut(ctx context.Context, reserves ReserveReader, resolver PairResolver, amountIn *uint256.Int, path []common.Address) ([]*uint256.Int, error) {
	if len(path) < 2 {
		return nil, ErrInvalidPath
	}
	amounts := make([]*uint256.Int, len(path))
	amounts[0] = amountIn
	for i := 0; i < len(path)-1; i++ {
		pair, err := resolver.PairFor(path[i], path[i+1])
		if err != nil {
			return nil, err
		}
		reserveIn, reserveOut, err := reserves.Reserves(ctx, pair, path[i], path[i+1])
		if err != nil {
			return nil, err
		}
		amounts[i+1], err = GetAmountOut(amounts[i], reserveIn, reserveOut)
		if err != nil {
			return nil, err
		}
	}
	return amounts, nil
}

// GetAmountsIn walks the path backwards from a fixed output.
func GetAmountsIn(ctx context.Context, reserves ReserveReader, resolver PairResolver, amountOut *uint256.Int, path []common.Address) ([]*uint256.Int, error) {
	if len(path) < 2 {
		return nil, ErrInvalidPath
	}
	amounts := make([]*uint256.Int, len(path))
	amounts[len(amounts)-1] = amountOut
	for i := len(path) - 1; i > 0; i-- {
		pair, err := resolver.PairFor(path[i-1], path[i])
		if err != nil {
			return nil, err
		}
		reserveIn, reserveOut, err := reserves.Reserves(ctx, pair, path[i-1], path[i])
		if err != nil {
			return nil, err
		}
		amounts[i-1], err = GetAmountIn(amounts[i], reserveIn, reserveOut)
		if err != nil {
			return nil, err
		}
	}
	return amounts, nil
}
