package cmd

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/aurora-is-near/aurora-engine-go/internal/engine"
	"github.com/aurora-is-near/aurora-engine-go/internal/evmadapter"
)

// valueTransferInterpreter is the engine.Interpreter enginecli links
// in for replay: it moves value between the two basic accounts and
// refuses anything that carries call data or targets contract code,
// since bytecode execution is outside this engine's scope (spec §1,
// "Deliberately out of scope: ... EVM opcode interpreter"). Standalone
// replay of a value-only transfer is still useful for exercising
// engine-submit's gas/nonce bookkeeping without a full interpreter.
type valueTransferInterpreter struct {
	adapter *evmadapter.Adapter
}

func newValueTransferInterpreter(adapter *evmadapter.Adapter) *valueTransferInterpreter {
	return &valueTransferInterpreter{adapter: adapter}
}

func (v *valueTransferInterpreter) Run(sender, to common.Address, isCreate bool, data []byte, value *big.Int, gasLimit uint64) (engine.ExecutionResult, error) {
	if isCreate || len(data) > 0 || len(v.adapter.Code(to)) > 0 {
		return engine.ExecutionResult{Reverted: true, GasUsed: gasLimit}, nil
	}

	var apply []evmadapter.ApplyEntry
	if value != nil && value.Sign() > 0 {
		senderBal, senderNonce := v.adapter.Basic(sender)
		recvBal, recvNonce := v.adapter.Basic(to)
		amount := uint256.MustFromBig(value)
		if senderBal.Cmp(amount) < 0 {
			return engine.ExecutionResult{Reverted: true, GasUsed: 21000}, nil
		}
		apply = []evmadapter.ApplyEntry{
			{Kind: evmadapter.ApplyModify, Address: sender, Balance: new(uint256.Int).Sub(senderBal, amount), Nonce: senderNonce},
			{Kind: evmadapter.ApplyModify, Address: to, Balance: new(uint256.Int).Add(recvBal, amount), Nonce: recvNonce},
		}
	}

	return engine.ExecutionResult{GasUsed: 21000, Apply: apply}, nil
}
