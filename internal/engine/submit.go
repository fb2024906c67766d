// Package engine implements the engine-submit entry points: submit,
// call and deploy_code. It charges gas against the sender's balance,
// delegates execution to the (out-of-scope) EVM interpreter, applies
// the resulting state-diff through internal/evmadapter, refunds unused
// gas, and produces the SubmitResult the host receipt returns (spec §2
// "engine-submit").
package engine

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/aurora-is-near/aurora-engine-go/internal/engineerr"
	"github.com/aurora-is-near/aurora-engine-go/internal/evmadapter"
	"github.com/aurora-is-near/aurora-engine-go/internal/txncodec"
)

// Status is the outcome discriminant of a SubmitResult (spec §8
// scenario 6 "Result status == OutOfFund").
type Status int

const (
	StatusSucceed Status = iota
	StatusRevert
	StatusOutOfGas
	StatusOutOfFund
	StatusOutOfOffset
	StatusCallTooDeep
)

func (s Status) String() string {
	switch s {
	case StatusSucceed:
		return "Succeed"
	case StatusRevert:
		return "Revert"
	case StatusOutOfGas:
		return "OutOfGas"
	case StatusOutOfFund:
		return "OutOfFund"
	case StatusOutOfOffset:
		return "OutOfOffset"
	case StatusCallTooDeep:
		return "CallTooDeep"
	default:
		return "Unknown"
	}
}

// SubmitResult is what an engine-submit entry point returns to the
// host receipt.
type SubmitResult struct {
	Status      Status
	GasUsed     uint64
	Output      []byte
	ContractAddress *common.Address
	Logs        []Log

	// StorageGasUsed is the cosmos-sdk-priced KV access cost the
	// adapter charged while running this transaction, separate from
	// the interpreter's own opcode gas metering (evmadapter.DefaultKVGasConfig).
	StorageGasUsed uint64
}

// Log is a minimal EVM log record, enough for the host's event bridge
// to re-emit it as a NEAR receipt log line.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// ExecutionResult is what the (external) interpreter hands back after
// running one call frame.
type ExecutionResult struct {
	Reverted        bool
	OutOfGas        bool
	OutOfOffset     bool
	CallTooDeep     bool
	GasUsed         uint64
	Output          []byte
	ContractAddress *common.Address
	Logs            []Log
	Apply           []evmadapter.ApplyEntry
}

// Interpreter is the EVM execution seam: entirely out of scope for
// this engine (spec §1), supplied by whatever bytecode interpreter the
// production binary links in.
type Interpreter interface {
	Run(sender, to common.Address, isCreate bool, data []byte, value *big.Int, gasLimit uint64) (ExecutionResult, error)
}

// Engine ties together the pieces engine-submit needs: the state
// adapter, a gas-price oracle and the interpreter seam.
type Engine struct {
	adapter     *evmadapter.Adapter
	interpreter Interpreter
	gasPrice    *big.Int
}

// New constructs an Engine.
func New(adapter *evmadapter.Adapter, interpreter Interpreter, gasPrice *big.Int) *Engine {
	return &Engine{adapter: adapter, interpreter: interpreter, gasPrice: gasPrice}
}

// Submit runs a fully decoded, signature-verified Ethereum transaction
// (spec §4.1 txn-codec feeds this entry point).
func (e *Engine) Submit(tx txncodec.NormalizedEthTransaction) (SubmitResult, error) {
	return e.run(tx.Address, tx.To, tx.IsCreate(), tx.Data, tx.Value, tx.GasLimit, tx.Nonce)
}

// Call runs a direct, already-authorized EVM call with no nonce bump
// (used for the engine's own internally synthesized calls, e.g. the
// XCC precompile's withdrawToNear step).
func (e *Engine) Call(from, to common.Address, data []byte, value *big.Int, gasLimit uint64) (SubmitResult, error) {
	r, _, err := e.execute(from, &to, false, data, value, gasLimit)
	return r, err
}

// DeployCode deploys raw bytecode as a contract-creation call.
func (e *Engine) DeployCode(from common.Address, code []byte, nonce uint64, gasLimit uint64) (SubmitResult, error) {
	return e.run(from, nil, true, code, big.NewInt(0), gasLimit, nonce)
}

func (e *Engine) run(from common.Address, to *common.Address, isCreate bool, data []byte, value *big.Int, gasLimit, _ uint64) (SubmitResult, error) {
	result, _, err := e.execute(from, to, isCreate, data, value, gasLimit)
	if err != nil {
		return SubmitResult{}, err
	}

	// Nonce increments regardless of outcome, including OutOfFund —
	// the only state change that scenario permits (spec §8 scenario 6:
	// "nonce incremented, no other state change").
	e.adapter.BumpNonce(from)
	return result, nil
}

// execute charges gas up front, runs the interpreter, applies its
// effects and refunds unused gas. If the sender cannot cover
// gas_price*gas_limit, execution never reaches the interpreter at all
// and the second return value is true (spec §8 scenario 6).
func (e *Engine) execute(from common.Address, to *common.Address, isCreate bool, data []byte, value *big.Int, gasLimit uint64) (SubmitResult, bool, error) {
	e.adapter.ResetGasUsed()

	upfrontCost := new(big.Int).Mul(e.gasPrice, new(big.Int).SetUint64(gasLimit))

	balance, _ := e.adapter.Basic(from)
	balanceBig := balance.ToBig()
	if balanceBig.Cmp(upfrontCost) < 0 {
		return SubmitResult{Status: StatusOutOfFund, GasUsed: 0, StorageGasUsed: e.adapter.GasUsed()}, true, nil
	}

	e.chargeGas(from, upfrontCost)

	var toAddr common.Address
	if to != nil {
		toAddr = *to
	}
	execResult, err := e.interpreter.Run(from, toAddr, isCreate, data, value, gasLimit)
	if err != nil {
		return SubmitResult{}, false, fmt.Errorf("engine: interpreter: %w", err)
	}

	refund := new(big.Int).Mul(e.gasPrice, new(big.Int).SetUint64(gasLimit-execResult.GasUsed))
	e.refundGas(from, refund)

	status := StatusSucceed
	switch {
	case execResult.Reverted:
		status = StatusRevert
	case execResult.OutOfGas:
		status = StatusOutOfGas
	case execResult.OutOfOffset:
		status = StatusOutOfOffset
	case execResult.CallTooDeep:
		status = StatusCallTooDeep
	}

	if status == StatusSucceed || status == StatusRevert {
		if err := e.adapter.Apply(execResult.Apply, true); err != nil {
			return SubmitResult{}, false, fmt.Errorf("engine: %w: %v", engineerr.ErrStateNotFound, err)
		}
	}

	return SubmitResult{
		Status:          status,
		GasUsed:         execResult.GasUsed,
		Output:          execResult.Output,
		ContractAddress: execResult.ContractAddress,
		Logs:            execResult.Logs,
		StorageGasUsed:  e.adapter.GasUsed(),
	}, false, nil
}

func (e *Engine) chargeGas(addr common.Address, amount *big.Int) {
	balance, nonce := e.adapter.Basic(addr)
	newBalance := new(uint256.Int).Sub(balance, uint256.MustFromBig(amount))
	e.adapter.Apply([]evmadapter.ApplyEntry{{
		Kind:    evmadapter.ApplyModify,
		Address: addr,
		Balance: newBalance,
		Nonce:   nonce,
	}}, false)
}

func (e *Engine) refundGas(addr common.Address, amount *big.Int) {
	if amount.Sign() <= 0 {
		return
	}
	balance, nonce := e.adapter.Basic(addr)
	newBalance := new(uint256.Int).Add(balance, uint256.MustFromBig(amount))
	e.adapter.Apply([]evmadapter.ApplyEntry{{
		Kind:    evmadapter.ApplyModify,
		Address: addr,
		Balance: newBalance,
		Nonce:   nonce,
	}}, false)
}
