// Package precompile defines the minimal call-context abstraction the
// engine's stateful precompiles (exit-precompiles, XCC) are invoked
// through. The EVM interpreter proper is an out-of-scope external
// collaborator (spec §1); this is the narrow seam the engine needs
// from it — static-call awareness and the attached value — modeled on
// the teacher's precompiles/common.Precompile envelope (readOnly bool
// parameter, snapshot/revert responsibility left to the caller).
package precompile

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// CallContext is what the interpreter hands a stateful precompile for
// one invocation.
type CallContext struct {
	Caller   common.Address
	Input    []byte
	Value    *big.Int
	ReadOnly bool
}

// Contract is implemented by every stateful precompile in the engine.
type Contract interface {
	Address() common.Address
	RequiredGas(input []byte) uint64
	Run(ctx CallContext) ([]byte, error)
}
