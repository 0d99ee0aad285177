package ethereum

import (
	"io"
	"strings"
)

// Minimal ABI for a Uniswap V2 pair; only getReserves is ever called.

func mustPairABI() io.Reader {
	return strings.NewReader(`[
		{
			"name": "getReserves",
			"type": "function",
			"stateMutability": "view",
			"inputs": [],
			"outputs": [
				{"name": "reserve0",           "type": "uint112"},
				{"name": "reserve1",           "type": "uint112"},
				{"name": "blockTimestampLast", "type": "uint32"}
			]
		}
	]`)
}
