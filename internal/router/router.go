package router

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/arijitroy667/uniswap-holesky/internal/amm"
	"github.com/arijitroy667/uniswap-holesky/internal/ledger"
)

// Router is the public-facing facade: anyone may swap ETH<->USDC through the
// factory-resolved pair, with deadline and slippage protection. Output goes
// wherever the caller points it.
//
// Each entrypoint runs as one atomic call: a ledger snapshot is taken on
// entry and every asset movement is reverted if any later step fails. A
// mutex serializes entrypoints, standing in for the chain's total ordering
// of transactions.
type Router struct {
	mu       sync.Mutex
	book     *ledger.Ledger
	resolver amm.PairResolver
	weth     common.Address
	usdc     common.Address
	addr     common.Address
	now      func() int64
}

// NewRouter wires the facade. addr is the router's own custody account in the
// ledger. clock may be nil, defaulting to wall time.
func NewRouter(book *ledger.Ledger, resolver amm.PairResolver, weth, usdc, addr common.Address, clock func() int64) *Router {
	if clock == nil {
		clock = func() int64 { return time.Now().Unix() }
	}
	return &Router{
		book:     book,
		resolver: resolver,
		weth:     weth,
		usdc:     usdc,
		addr:     addr,
		now:      clock,
	}
}

func (r *Router) Address() common.Address { return r.addr }

// SwapExactETHForUSDC wraps the caller's attached ETH, trades it through the
// pair and sends the USDC to `to`. Returns the USDC amount actually paid out.
func (r *Router) SwapExactETHForUSDC(ctx context.Context, caller common.Address, amountIn, amountOutMin *uint256.Int, to common.Address, deadline int64) (*uint256.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkDeadline(deadline); err != nil {
		return nil, err
	}
	if amountIn == nil || amountIn.IsZero() {
		return nil, ErrZeroAmount
	}

	snap := r.book.Snapshot()
	out, err := r.swapETHForUSDC(ctx, caller, amountIn, amountOutMin, to)
	if err != nil {
		r.book.Revert(snap)
		return nil, err
	}
	return out, nil
}

func (r *Router) swapETHForUSDC(ctx context.Context, caller common.Address, amountIn, amountOutMin *uint256.Int, to common.Address) (*uint256.Int, error) {
	path := []common.Address{r.weth, r.usdc}
	amounts, err := amm.GetAmountsOut(ctx, r.book, r.resolver, amountIn, path)
	if err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}
	amountOut := amounts[len(amounts)-1]
	if amountOutMin != nil && amountOut.Cmp(amountOutMin) < 0 {
		return nil, fmt.Errorf("%w: got %s, want at least %s", ErrSlippageExceeded, amountOut, amountOutMin)
	}

	// Wrap before the swap and push the WETH into the pair; the pair pays
	// out against the balance it observes.
	if err := r.book.NativeTransfer(caller, r.addr, amountIn); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	if err := r.book.Deposit(r.addr, amountIn); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	pair, err := r.resolver.PairFor(r.weth, r.usdc)
	if err != nil {
		return nil, err
	}
	if err := r.book.Transfer(r.weth, r.addr, pair, amountIn); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	if err := executeHop(r.book, r.resolver, r.weth, r.usdc, amountOut, to); err != nil {
		return nil, err
	}
	return amountOut, nil
}

// SwapExactUSDCForETH pulls amountIn USDC from the caller (allowance
// required), trades it, unwraps the WETH and sends native ETH to `to`.
func (r *Router) SwapExactUSDCForETH(ctx context.Context, caller common.Address, amountIn, amountOutMin *uint256.Int, to common.Address, deadline int64) (*uint256.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkDeadline(deadline); err != nil {
		return nil, err
	}
	if amountIn == nil || amountIn.IsZero() {
		return nil, ErrZeroAmount
	}

	snap := r.book.Snapshot()
	out, err := r.swapUSDCForETH(ctx, caller, amountIn, amountOutMin, to)
	if err != nil {
		r.book.Revert(snap)
		return nil, err
	}
	return out, nil
}

func (r *Router) swapUSDCForETH(ctx context.Context, caller common.Address, amountIn, amountOutMin *uint256.Int, to common.Address) (*uint256.Int, error) {
	path := []common.Address{r.usdc, r.weth}
	amounts, err := amm.GetAmountsOut(ctx, r.book, r.resolver, amountIn, path)
	if err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}
	amountOut := amounts[len(amounts)-1]
	if amountOutMin != nil && amountOut.Cmp(amountOutMin) < 0 {
		return nil, fmt.Errorf("%w: got %s, want at least %s", ErrSlippageExceeded, amountOut, amountOutMin)
	}

	pair, err := r.resolver.PairFor(r.usdc, r.weth)
	if err != nil {
		return nil, err
	}
	if err := r.book.TransferFrom(r.usdc, r.addr, caller, pair, amountIn); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	// Swap lands WETH at the router, then unwrap strictly after the swap and
	// forward native ETH. Unwrapping earlier would leave the pair unpaid.
	if err := executeHop(r.book, r.resolver, r.usdc, r.weth, amountOut, r.addr); err != nil {
		return nil, err
	}
	if err := r.book.Withdraw(r.addr, amountOut); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	if err := r.book.NativeTransfer(r.addr, to, amountOut); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	return amountOut, nil
}

// GetAmountOut quotes the USDC output for an ETH input at current reserves.
func (r *Router) GetAmountOut(ctx context.Context, amountIn *uint256.Int) (*uint256.Int, error) {
	amounts, err := amm.GetAmountsOut(ctx, r.book, r.resolver, amountIn, []common.Address{r.weth, r.usdc})
	if err != nil {
		return nil, err
	}
	return amounts[len(amounts)-1], nil
}

// A request is valid while the execution timestamp is <= deadline.
func (r *Router) checkDeadline(deadline int64) error {
	if r.now() > deadline {
		return fmt.Errorf("%w: deadline %d, now %d", ErrExpired, deadline, r.now())
	}
	return nil
}
