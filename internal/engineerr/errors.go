// Package engineerr registers the engine's stable error taxonomy.
//
// Every error the engine can surface to the host is registered here so
// that it carries a stable string tag (spec §6 "Error exit") alongside
// the richer Go error chain used for internal debugging.
package engineerr

import (
	errorsmod "cosmossdk.io/errors"
)

// ModuleName is the errorsmod codespace for all engine errors.
const ModuleName = "engine"

// Stable error tags surfaced to the host runtime as UTF-8 panic
// messages (spec §6).
var (
	ErrStateNotFound          = errorsmod.Register(ModuleName, 1, "ERR_STATE_NOT_FOUND")
	ErrInvalidChainID         = errorsmod.Register(ModuleName, 2, "ERR_INVALID_CHAIN_ID")
	ErrIntrinsicGas           = errorsmod.Register(ModuleName, 3, "ERR_INTRINSIC_GAS")
	ErrMaxPriorityFeeGreater  = errorsmod.Register(ModuleName, 4, "ERR_MAX_PRIORITY_FEE_GREATER")
	ErrRefundFailure          = errorsmod.Register(ModuleName, 5, "ERR_REFUND_FAILURE")
	ErrPromiseCount           = errorsmod.Register(ModuleName, 6, "ERR_PROMISE_COUNT")
	ErrPromiseFailed          = errorsmod.Register(ModuleName, 7, "ERR_PROMISE_FAILED")
	ErrVerifyProof            = errorsmod.Register(ModuleName, 8, "ERR_VERIFY_PROOF")
	ErrProofExist             = errorsmod.Register(ModuleName, 9, "ERR_PROOF_EXIST")
	ErrNotEnoughBalance       = errorsmod.Register(ModuleName, 10, "ERR_NOT_ENOUGH_BALANCE")
	ErrBalanceOverflow        = errorsmod.Register(ModuleName, 11, "ERR_BALANCE_OVERFLOW")
	ErrNotAllowed             = errorsmod.Register(ModuleName, 12, "ERR_NOT_ALLOWED")
	ErrContractInitialized    = errorsmod.Register(ModuleName, 13, "ERR_CONTRACT_INITIALIZED")
	ErrInvalidEcRecoverSig    = errorsmod.Register(ModuleName, 14, "ERR_INVALID_EC_RECOVER_SIGNATURE")
	ErrInvalidFunctionArg     = errorsmod.Register(ModuleName, 15, "ERR_INVALID_FUNCTION_ARG")
	ErrInvalidInStatic        = errorsmod.Register(ModuleName, 16, "ERR_INVALID_IN_STATIC")
	ErrBorshDecode            = errorsmod.Register(ModuleName, 17, "ERR_BORSH_DESERIALIZE")
	ErrRlpDecode              = errorsmod.Register(ModuleName, 18, "ERR_RLP_DESERIALIZE")
	ErrInvalidAccountID       = errorsmod.Register(ModuleName, 19, "ERR_INVALID_ACCOUNT_ID")
	ErrInvalidAddress         = errorsmod.Register(ModuleName, 20, "ERR_INVALID_ADDRESS")
	ErrUnregistered           = errorsmod.Register(ModuleName, 21, "ERR_ACCOUNT_NOT_REGISTERED")
	ErrInsufficientStorage    = errorsmod.Register(ModuleName, 22, "ERR_INSUFFICIENT_STORAGE_DEPOSIT")
)

// Fatal reports whether an error must panic the whole receipt and
// discard state changes (spec §7 "Propagation"). Non-fatal conditions
// are handled explicitly by callers (e.g. OutOfFund at charge-gas
// time) and never reach this taxonomy as a hard error.
func Fatal(err error) bool {
	return err != nil
}
