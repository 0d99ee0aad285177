package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Secrets (from .env)
	EthereumAPIEndpoint string
	WebhookURL          string
	ServiceName         string
	APIKey              string
	CORSAllowOrigin     string

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Chain addresses
	ChainID         int
	FactoryAddress  string
	InitCodeHash    string
	WETHAddress     string
	USDCAddress     string
	USDCDecimals    int
	RouterAddress   string
	VaultRouterAddr string
	VaultAddress    string
	ReceiverAddress string

	// Quote source: "sim" serves quotes from the in-process ledger,
	// "chain" reads live pair reserves over RPC.
	QuoteSource string

	// Simulation seeds (wei-scale decimal strings)
	SimReserveUSDC string
	SimReserveWETH string
	SimVaultUSDC   string
	SimReceiverETH string

	// Swap guard
	MaxDailySwaps int
	MaxETHIn      string
	MaxUSDCIn     string

	// API
	APIPort int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Secrets
		EthereumAPIEndpoint: envStr("ETHEREUM_API_ENDPOINT", ""),
		WebhookURL:          envStr("WEBHOOK_URL", ""),
		ServiceName:         envStr("SERVICE_NAME", "UniswapHoleskyRouter"),
		APIKey:              envStr("API_KEY", ""),
		CORSAllowOrigin:     envStr("CORS_ALLOW_ORIGIN", "*"),

		// Database
		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", "uniswap_holesky_router"),
		DBUser:     envStr("DB_USER", ""),
		DBPassword: envStr("DB_PASSWORD", ""),

		// Chain addresses (mainnet Uniswap V2 defaults)
		ChainID:         envInt("CHAIN_ID", 1),
		FactoryAddress:  envStr("FACTORY_ADDRESS", "0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"),
		InitCodeHash:    envStr("PAIR_INIT_CODE_HASH", "0x96e8ac4277198ff8b6f785478aa9a39f403cb768dd02cbee326c3e7da348845f"),
		WETHAddress:     envStr("WETH_ADDRESS", "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
		USDCAddress:     envStr("USDC_ADDRESS", "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
		USDCDecimals:    envInt("USDC_DECIMALS", 6),
		RouterAddress:   envStr("ROUTER_ADDRESS", "0x0000000000000000000000000000000000000A01"),
		VaultRouterAddr: envStr("VAULT_ROUTER_ADDRESS", "0x0000000000000000000000000000000000000A02"),
		VaultAddress:    envStr("VAULT_ADDRESS", ""),
		ReceiverAddress: envStr("RECEIVER_ADDRESS", ""),

		QuoteSource: envStr("QUOTE_SOURCE", "sim"),

		// Simulation seeds: 1,000,000 USDC against 500 WETH, a funded vault
		// and receiver.
		SimReserveUSDC: envStr("SIM_RESERVE_USDC", "1000000000000"),
		SimReserveWETH: envStr("SIM_RESERVE_WETH", "500000000000000000000"),
		SimVaultUSDC:   envStr("SIM_VAULT_USDC", "100000000000"),
		SimReceiverETH: envStr("SIM_RECEIVER_ETH", "10000000000000000000"),

		// Swap guard (zero disables a limit)
		MaxDailySwaps: envInt("MAX_DAILY_SWAPS", 200),
		MaxETHIn:      envStr("MAX_ETH_IN", "0"),
		MaxUSDCIn:     envStr("MAX_USDC_IN", "0"),

		APIPort: envInt("API_PORT", 3001),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.VaultAddress == "" {
		errs = append(errs, "VAULT_ADDRESS is required")
	}
	if c.ReceiverAddress == "" {
		errs = append(errs, "RECEIVER_ADDRESS is required")
	}
	if c.QuoteSource != "sim" && c.QuoteSource != "chain" {
		errs = append(errs, "QUOTE_SOURCE must be 'sim' or 'chain'")
	}
	if c.QuoteSource == "chain" && c.EthereumAPIEndpoint == "" {
		errs = append(errs, "ETHEREUM_API_ENDPOINT is required when QUOTE_SOURCE=chain")
	}
	if c.APIKey == "" {
		fmt.Println("[WARN] API_KEY not set — REST API has no authentication")
	}
	if c.MaxDailySwaps == 0 && c.MaxETHIn == "0" && c.MaxUSDCIn == "0" {
		fmt.Println("[WARN] MAX_DAILY_SWAPS, MAX_ETH_IN and MAX_USDC_IN are all unset — no swap limits active")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Uniswap-Holesky Router Configuration ===")

	if c.QuoteSource == "sim" {
		fmt.Println("════════════════════════════════════════")
		fmt.Println("  SIMULATED LEDGER MODE")
		fmt.Println("  Swaps execute against the in-process pair")
		fmt.Println("════════════════════════════════════════")
		fmt.Printf("Seed Reserves: %s USDC / %s WETH (wei)\n", c.SimReserveUSDC, c.SimReserveWETH)
	} else {
		fmt.Println("  LIVE RESERVE MODE (quotes read from chain)")
	}

	fmt.Println("--------------------------------------")
	fmt.Printf("Chain ID: %d\n", c.ChainID)
	fmt.Printf("Factory: %s\n", truncAddr(c.FactoryAddress))
	fmt.Printf("WETH: %s  USDC: %s\n", truncAddr(c.WETHAddress), truncAddr(c.USDCAddress))
	fmt.Printf("Vault: %s  Receiver: %s\n", truncAddr(c.VaultAddress), truncAddr(c.ReceiverAddress))
	fmt.Println("--------------------------------------")
	fmt.Println("Swap Guard:")
	fmt.Printf("  Max Daily Swaps: %d\n", c.MaxDailySwaps)
	fmt.Printf("  Max ETH In: %s wei\n", c.MaxETHIn)
	fmt.Printf("  Max USDC In: %s units\n", c.MaxUSDCIn)
	fmt.Println("======================================")
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func truncAddr(addr string) string {
	if len(addr) > 10 {
		return addr[:10]
	}
	return addr
}
