package ethereum

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/arijitroy667/uniswap-holesky/internal/amm"
)

// ReserveSource reads live pair reserves over RPC. It implements
// amm.ReserveReader, so quotes can be served from on-chain state instead of
// the simulated ledger.
type ReserveSource struct {
	client  *Client
	pairABI abi.ABI
}

func NewReserveSource(client *Client) (*ReserveSource, error) {
	pABI, err := abi.JSON(mustPairABI())
	if err != nil {
		return nil, fmt.Errorf("parse pair ABI: %w", err)
	}
	return &ReserveSource{client: client, pairABI: pABI}, nil
}

// Reserves calls getReserves on the pair and orders the result to the
// requested trade direction. Slot order follows the canonical token sort, the
// same order the factory used at deployment.
func (s *ReserveSource) Reserves(ctx context.Context, pair, tokenIn, tokenOut common.Address) (*uint256.Int, *uint256.Int, error) {
	data, err := s.pairABI.Pack("getReserves")
	if err != nil {
		return nil, nil, fmt.Errorf("pack getReserves: %w", err)
	}
	raw, err := s.client.CallContract(ctx, pair, data)
	if err != nil {
		return nil, nil, fmt.Errorf("getReserves call (pair %s): %w", pair.Hex(), err)
	}
	vals, err := s.pairABI.Unpack("getReserves", raw)
	if err != nil {
		return nil, nil, fmt.Errorf("unpack getReserves: %w", err)
	}

	r0, ok0 := vals[0].(*big.Int)
	r1, ok1 := vals[1].(*big.Int)
	if !ok0 || !ok1 {
		return nil, nil, fmt.Errorf("unexpected getReserves result types")
	}
	reserve0, overflow := uint256.FromBig(r0)
	if overflow {
		return nil, nil, amm.ErrOverflow
	}
	reserve1, overflow := uint256.FromBig(r1)
	if overflow {
		return nil, nil, amm.ErrOverflow
	}

	token0, _, err := amm.SortTokens(tokenIn, tokenOut)
	if err != nil {
		return nil, nil, err
	}
	if tokenIn == token0 {
		return reserve0, reserve1, nil
	}
	return reserve1, reserve0, nil
}
