package amm

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

func maxUint256() *uint256.Int {
	max := new(uint256.Int)
	max.SetAllOne()
	return max
}

func TestAdd_Overflow(t *testing.T) {
	_, err := Add(maxUint256(), uint256.NewInt(1))
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got: %v", err)
	}
	t.Logf("Correctly rejected: %v", err)
}

func TestAdd_MaxBoundary(t *testing.T) {
	// max + 0 is fine, max-1 + 1 is fine
	sum, err := Add(maxUint256(), uint256.NewInt(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.Eq(maxUint256()) {
		t.Fatalf("max + 0 mismatch: got %s", sum)
	}

	almost := new(uint256.Int).Sub(maxUint256(), uint256.NewInt(1))
	sum, err = Add(almost, uint256.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.Eq(maxUint256()) {
		t.Fatalf("(max-1) + 1 mismatch: got %s", sum)
	}
}

func TestSub_Underflow(t *testing.T) {
	_, err := Sub(uint256.NewInt(5), uint256.NewInt(6))
	if !errors.Is(err, ErrUnderflow) {
		t.Fatalf("expected ErrUnderflow, got: %v", err)
	}
	t.Logf("Correctly rejected: %v", err)
}

func TestSub_ZeroBoundary(t *testing.T) {
	diff, err := Sub(uint256.NewInt(5), uint256.NewInt(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !diff.IsZero() {
		t.Fatalf("5 - 5 should be zero, got %s", diff)
	}
}

func TestMul_Overflow(t *testing.T) {
	_, err := Mul(maxUint256(), uint256.NewInt(2))
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got: %v", err)
	}
}

func TestMul_ByZero(t *testing.T) {
	prod, err := Mul(maxUint256(), uint256.NewInt(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !prod.IsZero() {
		t.Fatalf("max * 0 should be zero, got %s", prod)
	}
}

func TestDiv_ByZero(t *testing.T) {
	_, err := Div(uint256.NewInt(100), uint256.NewInt(0))
	if !errors.Is(err, ErrDivideByZero) {
		t.Fatalf("expected ErrDivideByZero, got: %v", err)
	}
}

func TestDiv_Floors(t *testing.T) {
	q, err := Div(uint256.NewInt(7), uint256.NewInt(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.Eq(uint256.NewInt(3)) {
		t.Fatalf("7 / 2 should floor to 3, got %s", q)
	}
}
