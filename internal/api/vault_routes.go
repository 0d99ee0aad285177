package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/arijitroy667/uniswap-holesky/internal/router"
)

type vaultSwapRequest struct {
	Caller       string `json:"caller"`
	Amount       string `json:"amount"`
	AmountOutMin string `json:"amountOutMin"`
	Deadline     int64  `json:"deadline"`
}

type vaultSwapResponse struct {
	Status    string `json:"status"`
	AmountIn  string `json:"amountIn"`
	AmountOut string `json:"amountOut,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) decodeVaultRequest(r *http.Request) (*vaultSwapRequest, error) {
	var req vaultSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if req.Deadline == 0 {
		req.Deadline = time.Now().Add(defaultDeadlineWindow).Unix()
	}
	return &req, nil
}

// handleTakeAndSwap drives the vault's two-phase USDC-to-ETH flow. A refunded
// swap is a completed flow, not a transport error, so it returns 200 with
// status "refunded" and the swap failure attached.
func (s *Server) handleTakeAndSwap(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeVaultRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	caller, err := parseAddress(req.Caller, "caller")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	amountOutMin, err := parseMinAmount(req.AmountOutMin)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.deps.Guard.PreSwapCheck(r.Context(), "usdc_to_eth", amount); err != nil {
		writeError(w, http.StatusTooManyRequests, err.Error())
		return
	}

	outcome, err := s.deps.Vault.TakeAndSwapUSDC(r.Context(), caller, amount, amountOutMin, req.Deadline)
	if outcome == nil {
		writeError(w, swapErrorStatus(err), err.Error())
		return
	}

	resp := vaultSwapResponse{
		Status:   string(outcome.Status),
		AmountIn: outcome.AmountIn.Dec(),
	}
	switch outcome.Status {
	case router.StatusExecuted:
		resp.AmountOut = outcome.AmountOut.Dec()
		s.recordSwap(r, "usdc_to_eth", string(outcome.Status),
			caller.Hex(), s.deps.Vault.Address().Hex(), outcome.AmountIn, outcome.AmountOut, req.AmountOutMin)
	case router.StatusRefunded:
		resp.Error = outcome.SwapErr.Error()
		s.recordSwap(r, "usdc_to_eth", string(outcome.Status),
			caller.Hex(), caller.Hex(), outcome.AmountIn, nil, req.AmountOutMin)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSwapAllETH(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeVaultRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	caller, err := parseAddress(req.Caller, "caller")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	amountOutMin, err := parseMinAmount(req.AmountOutMin)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.deps.Guard.PreSwapCheck(r.Context(), "eth_to_usdc", amount); err != nil {
		writeError(w, http.StatusTooManyRequests, err.Error())
		return
	}

	out, err := s.deps.Vault.SwapAllETHForUSDC(r.Context(), caller, amount, amountOutMin, req.Deadline)
	if err != nil {
		writeError(w, swapErrorStatus(err), err.Error())
		return
	}

	s.recordSwap(r, "eth_to_usdc", string(router.StatusExecuted),
		caller.Hex(), s.deps.Vault.Address().Hex(), amount, out, req.AmountOutMin)
	writeJSON(w, http.StatusOK, vaultSwapResponse{
		Status:    string(router.StatusExecuted),
		AmountIn:  amount.Dec(),
		AmountOut: out.Dec(),
	})
}

type recoverRequest struct {
	Caller string `json:"caller"`
}

func (s *Server) handleRecoverUSDC(w http.ResponseWriter, r *http.Request) {
	s.handleRecover(w, r, s.deps.Vault.RecoverUSDC)
}

func (s *Server) handleRecoverETH(w http.ResponseWriter, r *http.Request) {
	s.handleRecover(w, r, s.deps.Vault.RecoverETH)
}

func (s *Server) handleRecover(w http.ResponseWriter, r *http.Request, sweep func(caller common.Address) (*uint256.Int, error)) {
	var req recoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	caller, err := parseAddress(req.Caller, "caller")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := sweep(caller)
	if err != nil {
		writeError(w, swapErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"recovered": amount.Dec()})
}
