package ledger

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/arijitroy667/uniswap-holesky/internal/amm"
)

// Pair mirrors a UniswapV2Pair: canonical token slots plus tracked reserves.
// Token balances for the pair live in the ledger's token books under the
// pair's own address; reserves are the pair's last-synced view of them.
type Pair struct {
	Address  common.Address
	Token0   common.Address
	Token1   common.Address
	Reserve0 *uint256.Int
	Reserve1 *uint256.Int
}

// RegisterPair creates an empty pair at the address the resolver derives for
// the token set, so PairFor lookups and the registry always agree.
func (l *Ledger) RegisterPair(resolver amm.PairResolver, tokenA, tokenB common.Address) (common.Address, error) {
	token0, token1, err := amm.SortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	addr, err := resolver.PairFor(token0, token1)
	if err != nil {
		return common.Address{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.pairs[addr]; ok {
		return common.Address{}, fmt.Errorf("pair %s: %w", addr.Hex(), ErrPairExists)
	}
	l.pairs[addr] = &Pair{
		Address:  addr,
		Token0:   token0,
		Token1:   token1,
		Reserve0: uint256.NewInt(0),
		Reserve1: uint256.NewInt(0),
	}
	return addr, nil
}

// ProvideLiquidity mints both tokens directly into the pair and syncs its
// reserves. Bootstrap only; liquidity management is outside the router's
// scope, but the simulated pair needs funded reserves to trade against.
func (l *Ledger) ProvideLiquidity(pairAddr common.Address, amount0, amount1 *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.pairs[pairAddr]
	if !ok {
		return fmt.Errorf("pair %s: %w", pairAddr.Hex(), ErrUnknownPair)
	}
	if err := l.credit(p.Token0, pairAddr, amount0); err != nil {
		return err
	}
	if err := l.credit(p.Token1, pairAddr, amount1); err != nil {
		return err
	}
	r0, err := amm.Add(p.Reserve0, amount0)
	if err != nil {
		return err
	}
	r1, err := amm.Add(p.Reserve1, amount1)
	if err != nil {
		return err
	}
	next := *p
	next.Reserve0, next.Reserve1 = r0, r1
	l.pairs[pairAddr] = &next
	return nil
}

// PairSwap is the pair's swap(amount0Out, amount1Out, to) entrypoint. The
// caller must already have transferred the input token into the pair; the
// swap pays out the requested amounts, infers the inputs from the balance
// deltas, and rejects the trade unless the fee-adjusted product of balances
// covers the old reserve product:
//
//	(balance0*1000 - amount0In*3) * (balance1*1000 - amount1In*3)
//	    >= reserve0 * reserve1 * 1000^2
func (l *Ledger) PairSwap(pairAddr common.Address, amount0Out, amount1Out *uint256.Int, to common.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.pairs[pairAddr]
	if !ok {
		return fmt.Errorf("pair %s: %w", pairAddr.Hex(), ErrUnknownPair)
	}
	if amount0Out.IsZero() && amount1Out.IsZero() {
		return fmt.Errorf("pair %s swap: %w", pairAddr.Hex(), ErrZeroAmount)
	}
	if amount0Out.Cmp(p.Reserve0) >= 0 || amount1Out.Cmp(p.Reserve1) >= 0 {
		return fmt.Errorf("pair %s swap: %w", pairAddr.Hex(), amm.ErrInsufficientLiquidity)
	}

	if !amount0Out.IsZero() {
		if err := l.transfer(p.Token0, pairAddr, to, amount0Out); err != nil {
			return err
		}
	}
	if !amount1Out.IsZero() {
		if err := l.transfer(p.Token1, pairAddr, to, amount1Out); err != nil {
			return err
		}
	}

	balance0 := l.balanceOf(p.Token0, pairAddr)
	balance1 := l.balanceOf(p.Token1, pairAddr)
	amount0In, err := inferAmountIn(balance0, p.Reserve0, amount0Out)
	if err != nil {
		return err
	}
	amount1In, err := inferAmountIn(balance1, p.Reserve1, amount1Out)
	if err != nil {
		return err
	}
	if amount0In.IsZero() && amount1In.IsZero() {
		return fmt.Errorf("pair %s swap: %w", pairAddr.Hex(), ErrInsufficientInput)
	}

	adjusted0, err := feeAdjusted(balance0, amount0In)
	if err != nil {
		return err
	}
	adjusted1, err := feeAdjusted(balance1, amount1In)
	if err != nil {
		return err
	}
	left, err := amm.Mul(adjusted0, adjusted1)
	if err != nil {
		return err
	}
	right, err := amm.Mul(p.Reserve0, p.Reserve1)
	if err != nil {
		return err
	}
	right, err = amm.Mul(right, uint256.NewInt(1000*1000))
	if err != nil {
		return err
	}
	if left.Cmp(right) < 0 {
		return fmt.Errorf("pair %s swap: %w", pairAddr.Hex(), ErrKInvariant)
	}

	next := *p
	next.Reserve0, next.Reserve1 = balance0, balance1
	l.pairs[pairAddr] = &next
	return nil
}

// inferAmountIn derives the input amount from the pair's balance delta:
// anything above (reserve - amountOut) was sent in by the caller.
func inferAmountIn(balance, reserve, amountOut *uint256.Int) (*uint256.Int, error) {
	floor, err := amm.Sub(reserve, amountOut)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(floor) <= 0 {
		return uint256.NewInt(0), nil
	}
	return amm.Sub(balance, floor)
}

// feeAdjusted computes balance*1000 - amountIn*3 (the 0.3% fee charged on the
// input side).
func feeAdjusted(balance, amountIn *uint256.Int) (*uint256.Int, error) {
	scaled, err := amm.Mul(balance, uint256.NewInt(1000))
	if err != nil {
		return nil, err
	}
	fee, err := amm.Mul(amountIn, uint256.NewInt(3))
	if err != nil {
		return nil, err
	}
	return amm.Sub(scaled, fee)
}
