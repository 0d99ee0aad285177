package risk

import (
	"context"
	"fmt"
	"testing"

	"github.com/holiman/uint256"
)

type mockCounter struct {
	count int
	err   error
}

func (m *mockCounter) CountToday(_ context.Context) (int, error) {
	return m.count, m.err
}

func TestPreSwapCheck_ETHAmount_Allowed(t *testing.T) {
	g := NewGuard(Limits{MaxETHIn: uint256.NewInt(1000)}, &mockCounter{})
	if err := g.PreSwapCheck(context.Background(), "eth_to_usdc", uint256.NewInt(1000)); err != nil {
		t.Fatalf("expected swap at the limit to be allowed, got: %v", err)
	}
}

func TestPreSwapCheck_ETHAmount_Blocked(t *testing.T) {
	g := NewGuard(Limits{MaxETHIn: uint256.NewInt(1000)}, &mockCounter{})
	err := g.PreSwapCheck(context.Background(), "eth_to_usdc", uint256.NewInt(1001))
	if err == nil {
		t.Fatal("expected swap to be blocked")
	}
	t.Logf("Correctly blocked: %v", err)
}

func TestPreSwapCheck_USDCAmount_Blocked(t *testing.T) {
	g := NewGuard(Limits{MaxUSDCIn: uint256.NewInt(500)}, &mockCounter{})
	err := g.PreSwapCheck(context.Background(), "usdc_to_eth", uint256.NewInt(501))
	if err == nil {
		t.Fatal("expected swap to be blocked")
	}
	t.Logf("Correctly blocked: %v", err)
}

func TestPreSwapCheck_DirectionSelectsLimit(t *testing.T) {
	g := NewGuard(Limits{
		MaxETHIn:  uint256.NewInt(10),
		MaxUSDCIn: uint256.NewInt(1000),
	}, &mockCounter{})
	// 500 exceeds the ETH limit but not the USDC limit.
	if err := g.PreSwapCheck(context.Background(), "usdc_to_eth", uint256.NewInt(500)); err != nil {
		t.Fatalf("USDC direction should use the USDC limit, got: %v", err)
	}
	if err := g.PreSwapCheck(context.Background(), "eth_to_usdc", uint256.NewInt(500)); err == nil {
		t.Fatal("ETH direction should use the ETH limit")
	}
}

func TestPreSwapCheck_AmountLimit_DisabledWhenNil(t *testing.T) {
	g := NewGuard(Limits{}, &mockCounter{})
	huge := new(uint256.Int).Lsh(uint256.NewInt(1), 200)
	if err := g.PreSwapCheck(context.Background(), "eth_to_usdc", huge); err != nil {
		t.Fatalf("nil limit should disable check, got: %v", err)
	}
}

func TestPreSwapCheck_AmountLimit_DisabledWhenZero(t *testing.T) {
	g := NewGuard(Limits{MaxETHIn: uint256.NewInt(0)}, &mockCounter{})
	if err := g.PreSwapCheck(context.Background(), "eth_to_usdc", uint256.NewInt(999999)); err != nil {
		t.Fatalf("zero limit should disable check, got: %v", err)
	}
}

func TestPreSwapCheck_DailySwaps_Allowed(t *testing.T) {
	g := NewGuard(Limits{MaxDailySwaps: 50}, &mockCounter{count: 49})
	if err := g.PreSwapCheck(context.Background(), "eth_to_usdc", uint256.NewInt(1)); err != nil {
		t.Fatalf("expected swap to be allowed (49/50), got: %v", err)
	}
}

func TestPreSwapCheck_DailySwaps_Blocked(t *testing.T) {
	g := NewGuard(Limits{MaxDailySwaps: 50}, &mockCounter{count: 50})
	err := g.PreSwapCheck(context.Background(), "eth_to_usdc", uint256.NewInt(1))
	if err == nil {
		t.Fatal("expected swap to be blocked (50/50)")
	}
	t.Logf("Correctly blocked: %v", err)
}

func TestPreSwapCheck_DailySwaps_CounterError(t *testing.T) {
	g := NewGuard(Limits{MaxDailySwaps: 50}, &mockCounter{err: fmt.Errorf("db down")})
	err := g.PreSwapCheck(context.Background(), "usdc_to_eth", uint256.NewInt(1))
	if err == nil {
		t.Fatal("expected error when counter fails")
	}
	t.Logf("Correctly blocked on counter error: %v", err)
}

func TestPreSwapCheck_DailySwaps_DisabledWhenZero(t *testing.T) {
	g := NewGuard(Limits{MaxDailySwaps: 0}, &mockCounter{count: 9999})
	if err := g.PreSwapCheck(context.Background(), "eth_to_usdc", uint256.NewInt(1)); err != nil {
		t.Fatalf("zero limit should disable check, got: %v", err)
	}
}

func TestPreSwapCheck_AmountFailsBeforeCounter(t *testing.T) {
	g := NewGuard(Limits{
		MaxETHIn:      uint256.NewInt(100),
		MaxDailySwaps: 50,
	}, &mockCounter{err: fmt.Errorf("db down")})

	err := g.PreSwapCheck(context.Background(), "eth_to_usdc", uint256.NewInt(200))
	if err == nil {
		t.Fatal("expected swap to be blocked by amount limit")
	}
	t.Logf("Correctly blocked: %v", err)
}

func TestPreSwapCheck_AllDisabled(t *testing.T) {
	g := NewGuard(Limits{}, &mockCounter{count: 9999})
	if err := g.PreSwapCheck(context.Background(), "usdc_to_eth", uint256.NewInt(999999)); err != nil {
		t.Fatalf("all-zero limits should allow everything, got: %v", err)
	}
}
