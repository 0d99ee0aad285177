package api

import (
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arijitroy667/uniswap-holesky/internal/amm"
)

type quoteJSON struct {
	AmountIn  string `json:"amountIn"`
	AmountOut string `json:"amountOut"`
	Pair      string `json:"pair"`
}

func (s *Server) handleQuoteETHToUSDC(w http.ResponseWriter, r *http.Request) {
	s.handleQuote(w, r, s.deps.WETH, s.deps.USDC)
}

func (s *Server) handleQuoteUSDCToETH(w http.ResponseWriter, r *http.Request) {
	s.handleQuote(w, r, s.deps.USDC, s.deps.WETH)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request, tokenIn, tokenOut common.Address) {
	amountIn, err := parseAmount(r.URL.Query().Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	path := []common.Address{tokenIn, tokenOut}
	amounts, err := amm.GetAmountsOut(r.Context(), s.deps.Reserves, s.deps.Resolver, amountIn, path)
	if err != nil {
		writeError(w, quoteErrorStatus(err), err.Error())
		return
	}

	pair, _ := s.deps.Resolver.PairFor(tokenIn, tokenOut)
	writeJSON(w, http.StatusOK, quoteJSON{
		AmountIn:  amounts[0].Dec(),
		AmountOut: amounts[len(amounts)-1].Dec(),
		Pair:      pair.Hex(),
	})
}

type pairJSON struct {
	Address  string `json:"address"`
	Token0   string `json:"token0"`
	Token1   string `json:"token1"`
	Reserve0 string `json:"reserve0"`
	Reserve1 string `json:"reserve1"`
}

// handlePair reports the resolved WETH/USDC pair address and, when the pair
// is registered in the simulated book, its reserves.
func (s *Server) handlePair(w http.ResponseWriter, r *http.Request) {
	addr, err := s.deps.Resolver.PairFor(s.deps.WETH, s.deps.USDC)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := pairJSON{Address: addr.Hex()}
	if p, ok := s.deps.Book.PairAt(addr); ok {
		out.Token0 = p.Token0.Hex()
		out.Token1 = p.Token1.Hex()
		out.Reserve0 = p.Reserve0.Dec()
		out.Reserve1 = p.Reserve1.Dec()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleExpectedETH(w http.ResponseWriter, r *http.Request) {
	amount, err := parseAmount(r.URL.Query().Get("usdc"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.deps.Vault.GetExpectedETHForUSDC(r.Context(), amount)
	if err != nil {
		writeError(w, quoteErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"expectedEth": out.Dec()})
}

func (s *Server) handleExpectedUSDC(w http.ResponseWriter, r *http.Request) {
	amount, err := parseAmount(r.URL.Query().Get("eth"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.deps.Vault.GetExpectedUSDCForETH(r.Context(), amount)
	if err != nil {
		writeError(w, quoteErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"expectedUsdc": out.Dec()})
}

func quoteErrorStatus(err error) int {
	switch {
	case isBadQuoteInput(err):
		return http.StatusBadRequest
	default:
		fmt.Printf("[API] Quote error: %v\n", err)
		return http.StatusInternalServerError
	}
}
