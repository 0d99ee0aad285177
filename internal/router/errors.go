package router

import "errors"

var (
	ErrExpired           = errors.New("deadline expired")
	ErrUnauthorized      = errors.New("caller not authorized")
	ErrZeroAmount        = errors.New("amount must be positive")
	ErrSlippageExceeded  = errors.New("output below minimum")
	ErrTransferFailed    = errors.New("asset transfer failed")
	ErrSwapFailed        = errors.New("swap failed")
	ErrNothingToRecover  = errors.New("no stranded balance to recover")
)
