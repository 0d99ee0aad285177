package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arijitroy667/uniswap-holesky/internal/amm"
	"github.com/arijitroy667/uniswap-holesky/internal/ledger"
	"github.com/arijitroy667/uniswap-holesky/internal/notifications"
	"github.com/arijitroy667/uniswap-holesky/internal/repository"
	"github.com/arijitroy667/uniswap-holesky/internal/risk"
	"github.com/arijitroy667/uniswap-holesky/internal/router"
)

const maxQueryLimit = 1000

var dateRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Deps bundles everything the HTTP surface orchestrates: the two router
// facades, the asset book, a reserve source for quotes, persistence and
// notifications.
type Deps struct {
	Pool     *pgxpool.Pool
	Router   *router.Router
	Vault    *router.VaultRouter
	Book     *ledger.Ledger
	Reserves amm.ReserveReader
	Resolver amm.PairResolver
	WETH     common.Address
	USDC     common.Address
	Guard    *risk.Guard
	Notify   *notifications.Sender
}

type Server struct {
	deps       Deps
	swapRepo   *repository.SwapRepo
	httpServer *http.Server
	apiKey     string
}

func NewServer(deps Deps, port int, apiKey, corsOrigin string) *Server {
	s := &Server{
		deps:     deps,
		swapRepo: repository.NewSwapRepo(deps.Pool),
		apiKey:   apiKey,
	}

	mux := http.NewServeMux()

	// Quote routes
	mux.HandleFunc("GET /v1/quote/eth-to-usdc", s.handleQuoteETHToUSDC)
	mux.HandleFunc("GET /v1/quote/usdc-to-eth", s.handleQuoteUSDCToETH)
	mux.HandleFunc("GET /v1/pair", s.handlePair)

	// Swap execution (public router)
	mux.HandleFunc("POST /v1/swaps/eth-to-usdc", s.handleSwapETHForUSDC)
	mux.HandleFunc("POST /v1/swaps/usdc-to-eth", s.handleSwapUSDCForETH)

	// Vault router
	mux.HandleFunc("POST /v1/vault/take-and-swap", s.handleTakeAndSwap)
	mux.HandleFunc("POST /v1/vault/swap-all-eth", s.handleSwapAllETH)
	mux.HandleFunc("POST /v1/vault/recover-usdc", s.handleRecoverUSDC)
	mux.HandleFunc("POST /v1/vault/recover-eth", s.handleRecoverETH)
	mux.HandleFunc("GET /v1/vault/expected-eth", s.handleExpectedETH)
	mux.HandleFunc("GET /v1/vault/expected-usdc", s.handleExpectedUSDC)

	// Swap history
	mux.HandleFunc("GET /v1/swaps/today", s.handleSwapsToday)
	mux.HandleFunc("GET /v1/swaps/day/{date}", s.handleSwapsByDay)
	mux.HandleFunc("GET /v1/swaps/recent", s.handleRecentSwaps)
	mux.HandleFunc("GET /v1/swaps/stats", s.handleSwapStats)

	// Health check (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)

	handler := s.authMiddleware(corsMiddleware(mux, corsOrigin))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	fmt.Printf("[API] REST API server started on http://localhost%s\n", s.httpServer.Addr)
	fmt.Printf("[API] Health check: http://localhost%s/health\n", s.httpServer.Addr)
	if s.apiKey != "" {
		fmt.Println("[API] Authentication: enabled (Bearer token)")
	} else {
		fmt.Println("[API] Authentication: disabled (no API_KEY configured)")
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- validation helpers ---

func validateDate(date string) bool {
	if !dateRegexp.MatchString(date) {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func parseLimit(r *http.Request, defaultLimit int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultLimit
	}
	if n > maxQueryLimit {
		return maxQueryLimit
	}
	return n
}

// parseAmount parses a base-unit decimal amount from a query or body field.
func parseAmount(v string) (*uint256.Int, error) {
	if v == "" {
		return nil, fmt.Errorf("amount is required")
	}
	n, err := uint256.FromDecimal(v)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", v, err)
	}
	return n, nil
}

func parseAddress(v, field string) (common.Address, error) {
	if !common.IsHexAddress(v) {
		return common.Address{}, fmt.Errorf("invalid %s address %q", field, v)
	}
	return common.HexToAddress(v), nil
}

// parseDirection extracts the ?direction= query parameter.
// Returns a *string: nil = all.
func parseDirection(r *http.Request) (*string, error) {
	v := r.URL.Query().Get("direction")
	switch v {
	case "", "all":
		return nil, nil
	case "eth_to_usdc", "usdc_to_eth":
		return &v, nil
	default:
		return nil, fmt.Errorf("invalid direction %q, expected eth_to_usdc|usdc_to_eth|all", v)
	}
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
