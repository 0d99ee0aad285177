package amm

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Uniswap V2 mainnet deployment. Forks ship different init code hashes, so the
// resolver keeps the hash configurable.
var (
	UniswapV2Factory      = common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f")
	UniswapV2InitCodeHash = common.HexToHash("0x96e8ac4277198ff8b6f785478aa9a39f403cb768dd02cbee326c3e7da348845f")
)

// SortTokens returns the two addresses in the canonical pair order (ascending
// byte order), the same total order the factory uses for token0/token1 slots.
func SortTokens(tokenA, tokenB common.Address) (common.Address, common.Address, error) {
	if tokenA == tokenB {
		return common.Address{}, common.Address{}, ErrIdenticalTokens
	}
	token0, token1 := tokenA, tokenB
	if bytes.Compare(tokenB.Bytes(), tokenA.Bytes()) < 0 {
		token0, token1 = tokenB, tokenA
	}
	if token0 == (common.Address{}) {
		return common.Address{}, common.Address{}, ErrZeroAddress
	}
	return token0, token1, nil
}

// PairResolver derives pair addresses for one factory deployment without any
// on-chain lookup. The address is a pure function of the sorted token pair and
// the factory's pair init code hash (CREATE2), so it is valid for any pair
// the factory has deployed or ever will deploy for that token set.
type PairResolver struct {
	Factory      common.Address
	InitCodeHash common.Hash
}

// NewPairResolver builds a resolver, defaulting to the mainnet Uniswap V2
// init code hash when none is given.
func NewPairResolver(factory common.Address, initCodeHash common.Hash) PairResolver {
	if initCodeHash == (common.Hash{}) {
		initCodeHash = UniswapV2InitCodeHash
	}
	return PairResolver{Factory: factory, InitCodeHash: initCodeHash}
}

// PairFor computes the pair address for two tokens. Argument order does not
// matter: the salt is built from the sorted pair.
func (r PairResolver) PairFor(tokenA, tokenB common.Address) (common.Address, error) {
	token0, token1, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	var salt [32]byte
	copy(salt[:], crypto.Keccak256(token0.Bytes(), token1.Bytes()))
	return crypto.CreateAddress2(r.Factory, salt, r.InitCodeHash.Bytes()), nil
}
