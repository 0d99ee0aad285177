package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/arijitroy667/uniswap-holesky/internal/amm"
)

// Ledger is an in-process stand-in for the chain's asset state: native ETH
// balances, ERC20-style token books with allowances, a WETH wrapper bound to
// one token address, and registered constant-product pairs. It backs sim
// mode, standing in for the contracts the live quote path reads from mainnet,
// and gives tests a deterministic execution environment.
//
// Stored amounts are never mutated in place: every update replaces the map
// entry with a freshly computed value. Snapshot relies on that: it copies the
// maps but shares the immutable amount values.
//
// A single mutex serializes all calls, mirroring the execution environment's
// total ordering of transactions.
type Ledger struct {
	mu         sync.Mutex
	weth       common.Address
	native     map[common.Address]*uint256.Int
	tokens     map[common.Address]map[common.Address]*uint256.Int
	allowances map[common.Address]map[common.Address]map[common.Address]*uint256.Int
	pairs      map[common.Address]*Pair
}

func New(weth common.Address) *Ledger {
	return &Ledger{
		weth:       weth,
		native:     make(map[common.Address]*uint256.Int),
		tokens:     make(map[common.Address]map[common.Address]*uint256.Int),
		allowances: make(map[common.Address]map[common.Address]map[common.Address]*uint256.Int),
		pairs:      make(map[common.Address]*Pair),
	}
}

func (l *Ledger) WETH() common.Address { return l.weth }

// --- native asset ---

// CreditNative mints native balance. Bootstrap/faucet only; the swap paths
// never create value.
func (l *Ledger) CreditNative(holder common.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next, err := amm.Add(l.nativeOf(holder), amount)
	if err != nil {
		return err
	}
	l.native[holder] = next
	return nil
}

func (l *Ledger) NativeBalanceOf(holder common.Address) *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nativeOf(holder)
}

func (l *Ledger) NativeTransfer(from, to common.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nativeTransfer(from, to, amount)
}

func (l *Ledger) nativeOf(holder common.Address) *uint256.Int {
	if b, ok := l.native[holder]; ok {
		return b
	}
	return uint256.NewInt(0)
}

func (l *Ledger) nativeTransfer(from, to common.Address, amount *uint256.Int) error {
	fromNext, err := amm.Sub(l.nativeOf(from), amount)
	if err != nil {
		return fmt.Errorf("native transfer from %s: %w", from.Hex(), ErrInsufficientBalance)
	}
	toNext, err := amm.Add(l.nativeOf(to), amount)
	if err != nil {
		return err
	}
	l.native[from] = fromNext
	l.native[to] = toNext
	return nil
}

// --- ERC20 semantics ---

// Mint credits token balance out of thin air. Bootstrap/faucet only.
func (l *Ledger) Mint(token, holder common.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.credit(token, holder, amount)
}

func (l *Ledger) BalanceOf(token, holder common.Address) *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceOf(token, holder)
}

func (l *Ledger) Transfer(token, from, to common.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transfer(token, from, to, amount)
}

func (l *Ledger) Approve(token, owner, spender common.Address, amount *uint256.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	byOwner, ok := l.allowances[token]
	if !ok {
		byOwner = make(map[common.Address]map[common.Address]*uint256.Int)
		l.allowances[token] = byOwner
	}
	bySpender, ok := byOwner[owner]
	if !ok {
		bySpender = make(map[common.Address]*uint256.Int)
		byOwner[owner] = bySpender
	}
	bySpender[spender] = amount.Clone()
}

func (l *Ledger) Allowance(token, owner, spender common.Address) *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allowance(token, owner, spender)
}

// TransferFrom moves tokens on behalf of spender, consuming allowance the way
// an ERC20 does.
func (l *Ledger) TransferFrom(token, spender, from, to common.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	current := l.allowance(token, from, spender)
	remaining, err := amm.Sub(current, amount)
	if err != nil {
		return fmt.Errorf("transferFrom %s by %s: %w", token.Hex(), spender.Hex(), ErrInsufficientAllowance)
	}
	if err := l.transfer(token, from, to, amount); err != nil {
		return err
	}
	l.allowances[token][from][spender] = remaining
	return nil
}

func (l *Ledger) balanceOf(token, holder common.Address) *uint256.Int {
	if holders, ok := l.tokens[token]; ok {
		if b, ok := holders[holder]; ok {
			return b
		}
	}
	return uint256.NewInt(0)
}

func (l *Ledger) allowance(token, owner, spender common.Address) *uint256.Int {
	if byOwner, ok := l.allowances[token]; ok {
		if bySpender, ok := byOwner[owner]; ok {
			if a, ok := bySpender[spender]; ok {
				return a
			}
		}
	}
	return uint256.NewInt(0)
}

func (l *Ledger) credit(token, holder common.Address, amount *uint256.Int) error {
	next, err := amm.Add(l.balanceOf(token, holder), amount)
	if err != nil {
		return err
	}
	holders, ok := l.tokens[token]
	if !ok {
		holders = make(map[common.Address]*uint256.Int)
		l.tokens[token] = holders
	}
	holders[holder] = next
	return nil
}

func (l *Ledger) transfer(token, from, to common.Address, amount *uint256.Int) error {
	fromNext, err := amm.Sub(l.balanceOf(token, from), amount)
	if err != nil {
		return fmt.Errorf("transfer %s from %s: %w", token.Hex(), from.Hex(), ErrInsufficientBalance)
	}
	l.tokens[token][from] = fromNext
	return l.credit(token, to, amount)
}

// --- WETH wrapper ---

// Deposit wraps native balance into WETH for the holder.
func (l *Ledger) Deposit(holder common.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next, err := amm.Sub(l.nativeOf(holder), amount)
	if err != nil {
		return fmt.Errorf("weth deposit by %s: %w", holder.Hex(), ErrInsufficientBalance)
	}
	l.native[holder] = next
	return l.credit(l.weth, holder, amount)
}

// Withdraw unwraps WETH back into native balance.
func (l *Ledger) Withdraw(holder common.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.transferWETHOut(holder, amount); err != nil {
		return err
	}
	next, err := amm.Add(l.nativeOf(holder), amount)
	if err != nil {
		return err
	}
	l.native[holder] = next
	return nil
}

func (l *Ledger) transferWETHOut(holder common.Address, amount *uint256.Int) error {
	next, err := amm.Sub(l.balanceOf(l.weth, holder), amount)
	if err != nil {
		return fmt.Errorf("weth withdraw by %s: %w", holder.Hex(), ErrInsufficientBalance)
	}
	if _, ok := l.tokens[l.weth]; !ok {
		l.tokens[l.weth] = make(map[common.Address]*uint256.Int)
	}
	l.tokens[l.weth][holder] = next
	return nil
}

// --- reserve reads ---

// Reserves implements amm.ReserveReader over registered pairs, ordering the
// result to the requested trade direction.
func (l *Ledger) Reserves(_ context.Context, pair, tokenIn, tokenOut common.Address) (*uint256.Int, *uint256.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.pairs[pair]
	if !ok {
		return nil, nil, fmt.Errorf("pair %s: %w", pair.Hex(), ErrUnknownPair)
	}
	switch {
	case tokenIn == p.Token0 && tokenOut == p.Token1:
		return p.Reserve0, p.Reserve1, nil
	case tokenIn == p.Token1 && tokenOut == p.Token0:
		return p.Reserve1, p.Reserve0, nil
	default:
		return nil, nil, fmt.Errorf("pair %s does not trade %s/%s: %w",
			pair.Hex(), tokenIn.Hex(), tokenOut.Hex(), ErrUnknownPair)
	}
}

// PairAt returns a copy of a registered pair's state.
func (l *Ledger) PairAt(addr common.Address) (Pair, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.pairs[addr]
	if !ok {
		return Pair{}, false
	}
	return *p, true
}

// --- snapshots ---

// Snapshot captures the full asset state. Cheap map copies only: amount values
// are immutable by convention.
type Snapshot struct {
	native     map[common.Address]*uint256.Int
	tokens     map[common.Address]map[common.Address]*uint256.Int
	allowances map[common.Address]map[common.Address]map[common.Address]*uint256.Int
	pairs      map[common.Address]Pair
}

func (l *Ledger) Snapshot() *Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := &Snapshot{
		native:     make(map[common.Address]*uint256.Int, len(l.native)),
		tokens:     make(map[common.Address]map[common.Address]*uint256.Int, len(l.tokens)),
		allowances: make(map[common.Address]map[common.Address]map[common.Address]*uint256.Int, len(l.allowances)),
		pairs:      make(map[common.Address]Pair, len(l.pairs)),
	}
	for k, v := range l.native {
		s.native[k] = v
	}
	for token, holders := range l.tokens {
		m := make(map[common.Address]*uint256.Int, len(holders))
		for k, v := range holders {
			m[k] = v
		}
		s.tokens[token] = m
	}
	for token, byOwner := range l.allowances {
		om := make(map[common.Address]map[common.Address]*uint256.Int, len(byOwner))
		for owner, bySpender := range byOwner {
			sm := make(map[common.Address]*uint256.Int, len(bySpender))
			for k, v := range bySpender {
				sm[k] = v
			}
			om[owner] = sm
		}
		s.allowances[token] = om
	}
	for addr, p := range l.pairs {
		s.pairs[addr] = *p
	}
	return s
}

// Revert restores the state captured by a snapshot, discarding every mutation
// made since. This is the all-or-nothing execution contract: a failing router
// call reverts all of its asset movements.
func (l *Ledger) Revert(s *Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.native = make(map[common.Address]*uint256.Int, len(s.native))
	for k, v := range s.native {
		l.native[k] = v
	}
	l.tokens = make(map[common.Address]map[common.Address]*uint256.Int, len(s.tokens))
	for token, holders := range s.tokens {
		m := make(map[common.Address]*uint256.Int, len(holders))
		for k, v := range holders {
			m[k] = v
		}
		l.tokens[token] = m
	}
	l.allowances = make(map[common.Address]map[common.Address]map[common.Address]*uint256.Int, len(s.allowances))
	for token, byOwner := range s.allowances {
		om := make(map[common.Address]map[common.Address]*uint256.Int, len(byOwner))
		for owner, bySpender := range byOwner {
			sm := make(map[common.Address]*uint256.Int, len(bySpender))
			for k, v := range bySpender {
				sm[k] = v
			}
			om[owner] = sm
		}
		l.allowances[token] = om
	}
	l.pairs = make(map[common.Address]*Pair, len(s.pairs))
	for addr, p := range s.pairs {
		cp := p
		l.pairs[addr] = &cp
	}
}
