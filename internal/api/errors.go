package api

import (
	"errors"
	"net/http"

	"github.com/arijitroy667/uniswap-holesky/internal/amm"
	"github.com/arijitroy667/uniswap-holesky/internal/router"
)

// isBadQuoteInput reports whether a quote failure was caused by the request
// rather than the service.
func isBadQuoteInput(err error) bool {
	return errors.Is(err, amm.ErrInsufficientInputAmount) ||
		errors.Is(err, amm.ErrInsufficientOutputAmount) ||
		errors.Is(err, amm.ErrInsufficientLiquidity) ||
		errors.Is(err, amm.ErrInvalidPath) ||
		errors.Is(err, amm.ErrIdenticalTokens) ||
		errors.Is(err, amm.ErrZeroAddress)
}

// swapErrorStatus maps router failures to HTTP statuses: caller mistakes are
// 4xx, pair rejections are 409 (the trade conflicted with current reserves),
// anything else is a 500.
func swapErrorStatus(err error) int {
	switch {
	case errors.Is(err, router.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, router.ErrExpired),
		errors.Is(err, router.ErrZeroAmount),
		errors.Is(err, router.ErrNothingToRecover),
		isBadQuoteInput(err):
		return http.StatusBadRequest
	case errors.Is(err, router.ErrSlippageExceeded),
		errors.Is(err, router.ErrSwapFailed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
