package amm

import "errors"

var (
	// Checked arithmetic guards. Every amount computation in the repo goes
	// through math.go, so these are the only ways a 256-bit wraparound can
	// surface.
	ErrOverflow     = errors.New("arithmetic overflow")
	ErrUnderflow    = errors.New("arithmetic underflow")
	ErrDivideByZero = errors.New("division by zero")

	// Routing input validation.
	ErrIdenticalTokens = errors.New("identical token addresses")
	ErrZeroAddress     = errors.New("zero token address")
	ErrInvalidPath     = errors.New("path must contain at least two tokens")

	// Quote validation.
	ErrInsufficientInputAmount  = errors.New("insufficient input amount")
	ErrInsufficientOutputAmount = errors.New("insufficient output amount")
	ErrInsufficientLiquidity    = errors.New("insufficient liquidity")
)
