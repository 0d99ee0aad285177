package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/arijitroy667/uniswap-holesky/internal/amm"
	"github.com/arijitroy667/uniswap-holesky/internal/api"
	"github.com/arijitroy667/uniswap-holesky/internal/config"
	"github.com/arijitroy667/uniswap-holesky/internal/db"
	"github.com/arijitroy667/uniswap-holesky/internal/ethereum"
	"github.com/arijitroy667/uniswap-holesky/internal/ledger"
	"github.com/arijitroy667/uniswap-holesky/internal/notifications"
	"github.com/arijitroy667/uniswap-holesky/internal/repository"
	"github.com/arijitroy667/uniswap-holesky/internal/risk"
	"github.com/arijitroy667/uniswap-holesky/internal/router"
)

const banner = `
╔══════════════════════════════════════╗
║    Uniswap-Holesky Router v0.2       ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	// Database
	fmt.Printf("\n[DB] Connecting to %s:%d/%s ...\n", cfg.DBHost, cfg.DBPort, cfg.DBName)
	pool, err := db.Connect(cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Connection failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		pool.Close()
		fmt.Println("[DB] Connection pool closed")
	}()

	if err := db.TestConnection(pool); err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Test query failed: %v\n", err)
		os.Exit(1)
	}

	swapRepo := repository.NewSwapRepo(pool)

	// Addresses
	weth := common.HexToAddress(cfg.WETHAddress)
	usdc := common.HexToAddress(cfg.USDCAddress)
	factory := common.HexToAddress(cfg.FactoryAddress)
	vault := common.HexToAddress(cfg.VaultAddress)
	receiver := common.HexToAddress(cfg.ReceiverAddress)
	routerAddr := common.HexToAddress(cfg.RouterAddress)
	vaultRouterAddr := common.HexToAddress(cfg.VaultRouterAddr)

	resolver := amm.NewPairResolver(factory, common.HexToHash(cfg.InitCodeHash))

	// Simulated asset book: seed the pair and fund the two principals.
	book := ledger.New(weth)
	pairAddr, err := book.RegisterPair(resolver, weth, usdc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[LEDGER] Register pair failed: %v\n", err)
		os.Exit(1)
	}
	if err := seedBook(book, cfg, pairAddr, weth, usdc, vault, receiver, vaultRouterAddr); err != nil {
		fmt.Fprintf(os.Stderr, "[LEDGER] Seed failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[LEDGER] Pair %s registered and seeded\n", pairAddr.Hex())

	// Quote reserve source: the sim book, or live chain reserves.
	var reserves amm.ReserveReader = book
	if cfg.QuoteSource == "chain" {
		client, err := ethereum.NewClient(cfg.EthereumAPIEndpoint)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[ETH] Dial failed: %v\n", err)
			os.Exit(1)
		}
		defer client.Close()
		src, err := ethereum.NewReserveSource(client)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[ETH] Reserve source failed: %v\n", err)
			os.Exit(1)
		}
		reserves = src
		fmt.Println("[ETH] Live reserve source connected")
	}

	// Router facades
	pub := router.NewRouter(book, resolver, weth, usdc, routerAddr, nil)
	vrt := router.NewVaultRouter(book, resolver, weth, usdc, vaultRouterAddr, vault, receiver, nil)

	// Swap guard
	limits, err := guardLimits(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[GUARD] Invalid limits: %v\n", err)
		os.Exit(1)
	}
	guard := risk.NewGuard(limits, swapRepo)

	// Notifications
	notify := notifications.NewSender(cfg.WebhookURL, cfg.ServiceName)

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(api.Deps{
		Pool:     pool,
		Router:   pub,
		Vault:    vrt,
		Book:     book,
		Reserves: reserves,
		Resolver: resolver,
		WETH:     weth,
		USDC:     usdc,
		Guard:    guard,
		Notify:   notify,
	}, cfg.APIPort, cfg.APIKey, cfg.CORSAllowOrigin)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "[API] Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	fmt.Println("\nAll services started successfully")

	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "[API] Shutdown error: %v\n", err)
	}
	fmt.Println("[API] Server closed")
	fmt.Println("Shutdown complete")
}

// seedBook funds the simulated pair and principals from config. Reserves go
// into canonical slot order; the vault pre-approves the vault router so
// takeAndSwap custody pulls succeed.
func seedBook(book *ledger.Ledger, cfg *config.Config, pairAddr common.Address, weth, usdc, vault, receiver, vaultRouterAddr common.Address) error {
	reserveUSDC, err := parseAmount(cfg.SimReserveUSDC, "SIM_RESERVE_USDC")
	if err != nil {
		return err
	}
	reserveWETH, err := parseAmount(cfg.SimReserveWETH, "SIM_RESERVE_WETH")
	if err != nil {
		return err
	}
	vaultUSDC, err := parseAmount(cfg.SimVaultUSDC, "SIM_VAULT_USDC")
	if err != nil {
		return err
	}
	receiverETH, err := parseAmount(cfg.SimReceiverETH, "SIM_RECEIVER_ETH")
	if err != nil {
		return err
	}

	token0, _, err := amm.SortTokens(weth, usdc)
	if err != nil {
		return err
	}
	amount0, amount1 := reserveWETH, reserveUSDC
	if token0 == usdc {
		amount0, amount1 = reserveUSDC, reserveWETH
	}
	if err := book.ProvideLiquidity(pairAddr, amount0, amount1); err != nil {
		return err
	}

	if err := book.Mint(usdc, vault, vaultUSDC); err != nil {
		return err
	}
	if err := book.CreditNative(receiver, receiverETH); err != nil {
		return err
	}
	book.Approve(usdc, vault, vaultRouterAddr, vaultUSDC)
	return nil
}

func guardLimits(cfg *config.Config) (risk.Limits, error) {
	maxETH, err := parseAmount(cfg.MaxETHIn, "MAX_ETH_IN")
	if err != nil {
		return risk.Limits{}, err
	}
	maxUSDC, err := parseAmount(cfg.MaxUSDCIn, "MAX_USDC_IN")
	if err != nil {
		return risk.Limits{}, err
	}
	return risk.Limits{
		MaxDailySwaps: cfg.MaxDailySwaps,
		MaxETHIn:      maxETH,
		MaxUSDCIn:     maxUSDC,
	}, nil
}

func parseAmount(v, key string) (*uint256.Int, error) {
	n, err := uint256.FromDecimal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid amount %q: %w", key, v, err)
	}
	return n, nil
}
