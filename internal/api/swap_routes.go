package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/holiman/uint256"

	"github.com/arijitroy667/uniswap-holesky/internal/models"
	"github.com/arijitroy667/uniswap-holesky/internal/repository"
	"github.com/arijitroy667/uniswap-holesky/internal/router"
)

// defaultDeadlineWindow applies when a swap request omits the deadline.
const defaultDeadlineWindow = 20 * time.Minute

type swapRequest struct {
	Caller       string `json:"caller"`
	To           string `json:"to"`
	AmountIn     string `json:"amountIn"`
	AmountOutMin string `json:"amountOutMin"`
	Deadline     int64  `json:"deadline"`
}

type swapResponse struct {
	Status    string `json:"status"`
	AmountIn  string `json:"amountIn"`
	AmountOut string `json:"amountOut,omitempty"`
	Pair      string `json:"pair"`
}

func (s *Server) decodeSwapRequest(r *http.Request) (*swapRequest, error) {
	var req swapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if req.Deadline == 0 {
		req.Deadline = time.Now().Add(defaultDeadlineWindow).Unix()
	}
	return &req, nil
}

func (s *Server) handleSwapETHForUSDC(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeSwapRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	caller, err := parseAddress(req.Caller, "caller")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to := caller
	if req.To != "" {
		if to, err = parseAddress(req.To, "to"); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	amountIn, err := parseAmount(req.AmountIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	amountOutMin, err := parseMinAmount(req.AmountOutMin)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.deps.Guard.PreSwapCheck(r.Context(), "eth_to_usdc", amountIn); err != nil {
		writeError(w, http.StatusTooManyRequests, err.Error())
		return
	}

	out, err := s.deps.Router.SwapExactETHForUSDC(r.Context(), caller, amountIn, amountOutMin, to, req.Deadline)
	if err != nil {
		writeError(w, swapErrorStatus(err), err.Error())
		return
	}

	s.recordSwap(r, "eth_to_usdc", string(router.StatusExecuted),
		caller.Hex(), to.Hex(), amountIn, out, req.AmountOutMin)
	writeJSON(w, http.StatusOK, swapResponse{
		Status:    string(router.StatusExecuted),
		AmountIn:  amountIn.Dec(),
		AmountOut: out.Dec(),
		Pair:      s.pairHex(),
	})
}

func (s *Server) handleSwapUSDCForETH(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeSwapRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	caller, err := parseAddress(req.Caller, "caller")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to := caller
	if req.To != "" {
		if to, err = parseAddress(req.To, "to"); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	amountIn, err := parseAmount(req.AmountIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	amountOutMin, err := parseMinAmount(req.AmountOutMin)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.deps.Guard.PreSwapCheck(r.Context(), "usdc_to_eth", amountIn); err != nil {
		writeError(w, http.StatusTooManyRequests, err.Error())
		return
	}

	out, err := s.deps.Router.SwapExactUSDCForETH(r.Context(), caller, amountIn, amountOutMin, to, req.Deadline)
	if err != nil {
		writeError(w, swapErrorStatus(err), err.Error())
		return
	}

	s.recordSwap(r, "usdc_to_eth", string(router.StatusExecuted),
		caller.Hex(), to.Hex(), amountIn, out, req.AmountOutMin)
	writeJSON(w, http.StatusOK, swapResponse{
		Status:    string(router.StatusExecuted),
		AmountIn:  amountIn.Dec(),
		AmountOut: out.Dec(),
		Pair:      s.pairHex(),
	})
}

// parseMinAmount treats an empty minimum as zero (no slippage floor).
func parseMinAmount(v string) (*uint256.Int, error) {
	if v == "" {
		return uint256.NewInt(0), nil
	}
	return parseAmount(v)
}

func (s *Server) pairHex() string {
	addr, err := s.deps.Resolver.PairFor(s.deps.WETH, s.deps.USDC)
	if err != nil {
		return ""
	}
	return addr.Hex()
}

// recordSwap persists the outcome and announces it. Persistence failures are
// logged, not surfaced: the swap itself already settled.
func (s *Server) recordSwap(r *http.Request, direction, status, caller, recipient string, amountIn, amountOut *uint256.Int, amountOutMin string) {
	if amountOutMin == "" {
		amountOutMin = "0"
	}
	swap := &models.Swap{
		Timestamp:    time.Now(),
		Direction:    direction,
		Status:       status,
		Caller:       caller,
		Recipient:    recipient,
		Pair:         s.pairHex(),
		AmountIn:     amountIn.Dec(),
		AmountOutMin: amountOutMin,
		IsSimulated:  true,
	}
	if amountOut != nil {
		dec := amountOut.Dec()
		swap.AmountOut = &dec
	}
	if _, err := s.swapRepo.Record(r.Context(), swap); err != nil {
		fmt.Printf("[API] Failed to record swap: %v\n", err)
	}
	if s.deps.Notify != nil && s.deps.Notify.Enabled() {
		outStr := "-"
		if amountOut != nil {
			outStr = amountOut.Dec()
		}
		s.deps.Notify.Send(fmt.Sprintf("Swap %s: %s in=%s out=%s", status, direction, amountIn.Dec(), outStr))
	}
}

// --- history ---

func (s *Server) handleSwapsToday(w http.ResponseWriter, r *http.Request) {
	direction, err := parseDirection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	swaps, err := s.swapRepo.GetByDay(r.Context(), repository.TradingDayNow(), direction)
	if err != nil {
		fmt.Printf("Error fetching today's swaps: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch swaps")
		return
	}
	writeJSON(w, http.StatusOK, swaps)
}

func (s *Server) handleSwapsByDay(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !validateDate(date) {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	direction, err := parseDirection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	swaps, err := s.swapRepo.GetByDay(r.Context(), date, direction)
	if err != nil {
		fmt.Printf("Error fetching swaps for %s: %v\n", date, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch swaps")
		return
	}
	writeJSON(w, http.StatusOK, swaps)
}

func (s *Server) handleRecentSwaps(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 100)

	direction, err := parseDirection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	swaps, err := s.swapRepo.GetAll(r.Context(), limit, direction)
	if err != nil {
		fmt.Printf("Error fetching recent swaps: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch swaps")
		return
	}
	writeJSON(w, http.StatusOK, swaps)
}

func (s *Server) handleSwapStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.swapRepo.GetStats(r.Context())
	if err != nil {
		fmt.Printf("Error fetching swap stats: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch swap stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
