// Package keeper wires every internal/... domain package onto a single
// host key-value store, the way the teacher's x/vm/keeper grants
// access to EVM module state and implements go-ethereum's StateDB
// contract over a Cosmos SDK-backed store. Here there is no Cosmos SDK
// store layer: a single NEAR-side hostio.KVStore is the only
// persistence primitive, so Keeper's job is purely component wiring
// and logging, not schema/prefix management (that lives in
// internal/storagekey).
package keeper

import (
	"math/big"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/common"

	"github.com/aurora-is-near/aurora-engine-go/internal/connector"
	"github.com/aurora-is-near/aurora-engine-go/internal/engine"
	"github.com/aurora-is-near/aurora-engine-go/internal/ethconnector"
	"github.com/aurora-is-near/aurora-engine-go/internal/evmadapter"
	"github.com/aurora-is-near/aurora-engine-go/internal/exitprecompiles"
	"github.com/aurora-is-near/aurora-engine-go/internal/ft"
	"github.com/aurora-is-near/aurora-engine-go/internal/hostio"
	"github.com/aurora-is-near/aurora-engine-go/internal/xcc"
)

// Keeper grants access to the engine's state and ties every component
// together behind one host key-value store.
type Keeper struct {
	logger log.Logger

	kv            hostio.KVStore
	chainID       *big.Int
	engineAccount string

	Adapter        *evmadapter.Adapter
	Ledger         *ft.Ledger
	Bridge         *connector.Bridge
	Proofs         *ethconnector.Verifier
	Withdrawals    *ethconnector.WithdrawLedger
	RouterRegistry *xcc.Registry
	ExitToNear     *exitprecompiles.ExitToNear
	ExitToEthereum *exitprecompiles.ExitToEthereum
	XCC            *xcc.Precompile
	Engine         *engine.Engine
}

// Options configures the pieces of Keeper construction that depend on
// deployment-specific values rather than on the KV store's contents.
type Options struct {
	ChainID       *big.Int
	EngineAccount string
	GasPrice      *big.Int
	WnearAddress  common.Address
	MustRegister  bool
	Scheduler     hostio.PromiseScheduler
	Interpreter   engine.Interpreter
}

// New constructs a Keeper with every internal component bound to kv.
func New(logger log.Logger, kv hostio.KVStore, opts Options) *Keeper {
	adapter := evmadapter.New(kv, opts.ChainID, opts.EngineAccount)
	ledger := ft.New(kv)
	bridge := connector.New(kv)
	proofs := ethconnector.NewVerifier(kv)
	withdrawals := ethconnector.NewWithdrawLedger(kv)
	registry := xcc.NewRegistry(kv)

	eng := engine.New(adapter, opts.Interpreter, opts.GasPrice)

	k := &Keeper{
		logger:         logger.With("module", "engine"),
		kv:             kv,
		chainID:        opts.ChainID,
		engineAccount:  opts.EngineAccount,
		Adapter:        adapter,
		Ledger:         ledger,
		Bridge:         bridge,
		Proofs:         proofs,
		Withdrawals:    withdrawals,
		RouterRegistry: registry,
		Engine:         eng,
		XCC:            xcc.NewPrecompile(registry, opts.EngineAccount, opts.WnearAddress, opts.MustRegister),
	}

	if opts.Scheduler != nil {
		k.ExitToNear = exitprecompiles.NewExitToNear(bridge, opts.Scheduler, opts.EngineAccount)
		k.ExitToEthereum = exitprecompiles.NewExitToEthereum(bridge, opts.Scheduler)
	}

	return k
}

// Logger returns the keeper's scoped logger.
func (k *Keeper) Logger() log.Logger { return k.logger }
