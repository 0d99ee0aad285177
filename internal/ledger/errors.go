package ledger

import "errors"

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrUnknownPair           = errors.New("unknown pair")
	ErrPairExists            = errors.New("pair already registered")
	ErrZeroAmount            = errors.New("zero amount")
	ErrInsufficientInput     = errors.New("insufficient input sent to pair")
	ErrKInvariant            = errors.New("constant-product invariant violated")
)
