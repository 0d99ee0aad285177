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

// SwapStatus distinguishes the two terminal states of a vault swap: the trade
// went through, or it failed and the pulled funds went back where they came
// from. Both are completed flows, not partial states.
type SwapStatus string

const (
	StatusExecuted SwapStatus = "executed"
	StatusRefunded SwapStatus = "refunded"
)

// SwapOutcome is the typed result of the vault router's two-phase swap.
type SwapOutcome struct {
	Status    SwapStatus
	AmountIn  *uint256.Int
	AmountOut *uint256.Int // nil when refunded
	SwapErr   error        // the failure that triggered the refund, nil when executed
}

// VaultRouter is the privileged facade. Exactly two principals may call it:
// the vault initiates USDC-to-ETH swaps whose output lands at the receiver,
// and the receiver initiates ETH-to-USDC swaps whose output lands at the
// vault. Two recovery entrypoints let the vault reclaim balances stranded in
// the router outside a normal flow.
type VaultRouter struct {
	mu       sync.Mutex
	book     *ledger.Ledger
	resolver amm.PairResolver
	weth     common.Address
	usdc     common.Address
	addr     common.Address
	vault    common.Address
	receiver common.Address
	now      func() int64
}

func NewVaultRouter(book *ledger.Ledger, resolver amm.PairResolver, weth, usdc, addr, vault, receiver common.Address, clock func() int64) *VaultRouter {
	if clock == nil {
		clock = func() int64 { return time.Now().Unix() }
	}
	return &VaultRouter{
		book:     book,
		resolver: resolver,
		weth:     weth,
		usdc:     usdc,
		addr:     addr,
		vault:    vault,
		receiver: receiver,
		now:      clock,
	}
}

func (v *VaultRouter) Address() common.Address { return v.addr }

// TakeAndSwapUSDC pulls usdcAmount from the vault (allowance required), swaps
// it for ETH and forwards the ETH to the receiver. The flow is two-phase: the
// custody pull commits first, then the swap attempt runs under a nested
// snapshot. If the swap fails for any reason the attempt is rolled back and
// the pulled USDC is transferred back to the vault, so the vault's net
// balance is unchanged; the outcome reports StatusRefunded and a SwapFailed
// error is surfaced. If the refund itself cannot complete, the entire call
// reverts instead of stranding funds in the router.
func (v *VaultRouter) TakeAndSwapUSDC(ctx context.Context, caller common.Address, usdcAmount, amountOutMin *uint256.Int, deadline int64) (*SwapOutcome, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if caller != v.vault {
		return nil, fmt.Errorf("%w: only the vault may take and swap", ErrUnauthorized)
	}
	if usdcAmount == nil || usdcAmount.IsZero() {
		return nil, ErrZeroAmount
	}
	if err := v.checkDeadline(deadline); err != nil {
		return nil, err
	}

	entry := v.book.Snapshot()

	// Phase 1: custody. A failed pull reverts the whole call outright.
	if err := v.book.TransferFrom(v.usdc, v.addr, v.vault, v.addr, usdcAmount); err != nil {
		v.book.Revert(entry)
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	// Phase 2: the swap attempt, isolated so it can be undone without
	// undoing the pull.
	attempt := v.book.Snapshot()
	amountOut, swapErr := v.trySwapUSDCForETH(ctx, usdcAmount, amountOutMin)
	if swapErr == nil {
		return &SwapOutcome{
			Status:    StatusExecuted,
			AmountIn:  usdcAmount,
			AmountOut: amountOut,
		}, nil
	}

	// Compensating action: put the vault back where it started.
	v.book.Revert(attempt)
	if err := v.book.Transfer(v.usdc, v.addr, v.vault, usdcAmount); err != nil {
		v.book.Revert(entry)
		return nil, fmt.Errorf("refund after failed swap: %w (swap error: %w)", err, swapErr)
	}
	return &SwapOutcome{
			Status:   StatusRefunded,
			AmountIn: usdcAmount,
			SwapErr:  swapErr,
		}, fmt.Errorf("%w: funds returned to vault: %w", ErrSwapFailed, swapErr)
}

func (v *VaultRouter) trySwapUSDCForETH(ctx context.Context, amountIn, amountOutMin *uint256.Int) (*uint256.Int, error) {
	path := []common.Address{v.usdc, v.weth}
	amounts, err := amm.GetAmountsOut(ctx, v.book, v.resolver, amountIn, path)
	if err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}
	amountOut := amounts[len(amounts)-1]
	if amountOutMin != nil && amountOut.Cmp(amountOutMin) < 0 {
		return nil, fmt.Errorf("%w: got %s, want at least %s", ErrSlippageExceeded, amountOut, amountOutMin)
	}

	pair, err := v.resolver.PairFor(v.usdc, v.weth)
	if err != nil {
		return nil, err
	}
	if err := v.book.Transfer(v.usdc, v.addr, pair, amountIn); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	if err := executeHop(v.book, v.resolver, v.usdc, v.weth, amountOut, v.addr); err != nil {
		return nil, err
	}
	if err := v.book.Withdraw(v.addr, amountOut); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	if err := v.book.NativeTransfer(v.addr, v.receiver, amountOut); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	return amountOut, nil
}

// SwapAllETHForUSDC wraps the receiver's attached ETH, swaps it and sends the
// USDC to the vault.
func (v *VaultRouter) SwapAllETHForUSDC(ctx context.Context, caller common.Address, value, amountOutMin *uint256.Int, deadline int64) (*uint256.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if caller != v.receiver {
		return nil, fmt.Errorf("%w: only the receiver may swap ETH in", ErrUnauthorized)
	}
	if value == nil || value.IsZero() {
		return nil, ErrZeroAmount
	}
	if err := v.checkDeadline(deadline); err != nil {
		return nil, err
	}

	snap := v.book.Snapshot()
	out, err := v.swapETHForUSDC(ctx, value, amountOutMin)
	if err != nil {
		v.book.Revert(snap)
		return nil, err
	}
	return out, nil
}

func (v *VaultRouter) swapETHForUSDC(ctx context.Context, value, amountOutMin *uint256.Int) (*uint256.Int, error) {
	path := []common.Address{v.weth, v.usdc}
	amounts, err := amm.GetAmountsOut(ctx, v.book, v.resolver, value, path)
	if err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}
	amountOut := amounts[len(amounts)-1]
	if amountOutMin != nil && amountOut.Cmp(amountOutMin) < 0 {
		return nil, fmt.Errorf("%w: got %s, want at least %s", ErrSlippageExceeded, amountOut, amountOutMin)
	}

	if err := v.book.NativeTransfer(v.receiver, v.addr, value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	if err := v.book.Deposit(v.addr, value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	pair, err := v.resolver.PairFor(v.weth, v.usdc)
	if err != nil {
		return nil, err
	}
	if err := v.book.Transfer(v.weth, v.addr, pair, value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	if err := executeHop(v.book, v.resolver, v.weth, v.usdc, amountOut, v.vault); err != nil {
		return nil, err
	}
	return amountOut, nil
}

// RecoverUSDC sweeps any USDC sitting in the router back to the vault.
// Vault-only; normal flows leave nothing behind, so a balance here means a
// failed or foreign transfer stranded funds.
func (v *VaultRouter) RecoverUSDC(caller common.Address) (*uint256.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if caller != v.vault {
		return nil, fmt.Errorf("%w: only the vault may recover", ErrUnauthorized)
	}
	bal := v.book.BalanceOf(v.usdc, v.addr)
	if bal.IsZero() {
		return nil, ErrNothingToRecover
	}
	if err := v.book.Transfer(v.usdc, v.addr, v.vault, bal); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	return bal, nil
}

// RecoverETH sweeps any native balance in the router back to the vault.
func (v *VaultRouter) RecoverETH(caller common.Address) (*uint256.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if caller != v.vault {
		return nil, fmt.Errorf("%w: only the vault may recover", ErrUnauthorized)
	}
	bal := v.book.NativeBalanceOf(v.addr)
	if bal.IsZero() {
		return nil, ErrNothingToRecover
	}
	if err := v.book.NativeTransfer(v.addr, v.vault, bal); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	return bal, nil
}

// GetExpectedETHForUSDC quotes the ETH output for a USDC input.
func (v *VaultRouter) GetExpectedETHForUSDC(ctx context.Context, usdcAmount *uint256.Int) (*uint256.Int, error) {
	amounts, err := amm.GetAmountsOut(ctx, v.book, v.resolver, usdcAmount, []common.Address{v.usdc, v.weth})
	if err != nil {
		return nil, err
	}
	return amounts[len(amounts)-1], nil
}

// GetExpectedUSDCForETH quotes the USDC output for an ETH input.
func (v *VaultRouter) GetExpectedUSDCForETH(ctx context.Context, ethAmount *uint256.Int) (*uint256.Int, error) {
	amounts, err := amm.GetAmountsOut(ctx, v.book, v.resolver, ethAmount, []common.Address{v.weth, v.usdc})
	if err != nil {
		return nil, err
	}
	return amounts[len(amounts)-1], nil
}

func (v *VaultRouter) checkDeadline(deadline int64) error {
	if v.now() > deadline {
		return fmt.Errorf("%w: deadline %d, now %d", ErrExpired, deadline, v.now())
	}
	return nil
}
