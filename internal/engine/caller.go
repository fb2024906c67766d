package engine

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// evmCallerAdapter adapts Engine to the exitprecompiles.EVMCaller seam, so
// the refund-on-error callback can re-enter the EVM through the same
// gas-charging path as any other call.
type evmCallerAdapter struct{ e *Engine }

// AsEVMCaller exposes e as an exitprecompiles.EVMCaller.
func (e *Engine) AsEVMCaller() evmCallerAdapter { return evmCallerAdapter{e: e} }

func (a evmCallerAdapter) Call(to common.Address, data []byte, value *big.Int) ([]byte, error) {
	result, err := a.e.Call(common.Address{}, to, data, value, 1_000_000)
	if err != nil {
		return nil, err
	}
	return result.Output, nil
}
