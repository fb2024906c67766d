package xcc

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/aurora-is-near/aurora-engine-go/internal/engineerr"
	"github.com/aurora-is-near/aurora-engine-go/internal/hostio"
	"github.com/aurora-is-near/aurora-engine-go/internal/precompile"
)

// Address is keccak("xcc")[12:], the precompile's EVM address.
var Address = common.BytesToAddress(crypto.Keccak256([]byte("xcc"))[12:])

// withdrawToNearSelector is wNEAR's withdrawToNear(bytes,uint256)
// selector, fixed by spec §4.6 rather than derived, since the wNEAR
// contract is an external ERC-20 the engine does not own the source of.
var withdrawToNearSelector = [4]byte{0x6b, 0x35, 0x18, 0x48}

// Precompile synthesizes the multi-step promise graph described in
// spec §4.6 for a single XCC sub-promise call.
type Precompile struct {
	registry      *Registry
	engineAccount string
	wnearAddress  common.Address
	mustRegister  bool
}

// NewPrecompile constructs the XCC precompile.
func NewPrecompile(registry *Registry, engineAccount string, wnearAddress common.Address, mustRegister bool) *Precompile {
	return &Precompile{registry: registry, engineAccount: engineAccount, wnearAddress: wnearAddress, mustRegister: mustRegister}
}

// ContractAddress returns the precompile's EVM address. Named
// distinctly from the package-level Address constant since Run here
// returns a Promise rather than raw output bytes — XCC needs scheduler
// access the plain precompile.Contract seam doesn't provide, so it is
// wired into the interpreter directly rather than through that
// interface.
func (p *Precompile) ContractAddress() common.Address { return Address }

func (p *Precompile) RequiredGas(input []byte) uint64 {
	return 67000 + uint64(len(input))*10
}

// Run builds the promise chain for a sub-promise call. The returned
// chain is the Promise the caller must schedule; Run itself never
// touches the host scheduler so it stays a pure function of
// (sender, registry state, input) — easing testing of the decision
// tree in isolation (spec §4.6).
func (p *Precompile) Run(ctx precompile.CallContext) (hostio.Promise, error) {
	if ctx.Value != nil && ctx.Value.Sign() != 0 {
		return hostio.Promise{}, fmt.Errorf("xcc: %w: nonzero attached_balance on the EVM call itself", engineerr.ErrNotAllowed)
	}

	in, err := DecodeSubPromise(ctx.Input)
	if err != nil {
		return hostio.Promise{}, err
	}
	if in.AttachedBalance != 0 {
		return hostio.Promise{}, fmt.Errorf("xcc: %w: sub-promise attached_balance must be zero", engineerr.ErrNotAllowed)
	}

	sender := ctx.Caller
	target := RouterAccount(sender, p.engineAccount)

	userCall := hostio.Promise{
		Receiver: target,
		Actions: []hostio.Action{{
			Kind:   hostio.ActionFunctionCall,
			Method: in.Method,
			Args:   in.Args,
			Gas:    in.AttachedGas,
		}},
	}

	needsDeploy := p.registry.NeedsDeploy(sender)

	chain := &userCall
	if in.RequiredNear > 0 {
		chain = p.prependUnwrap(sender, target, in.RequiredNear, needsDeploy, chain)
	}
	if needsDeploy {
		chain = p.prependDeploy(sender, target, chain)
	}

	return *chain, nil
}

// prependDeploy builds the batch(create_account?, transfer, deploy,
// initialize) -> factory_update_address_version -> rest chain (spec
// §4.6 step 2).
func (p *Precompile) prependDeploy(sender common.Address, target string, rest *hostio.Promise) *hostio.Promise {
	callback := hostio.Promise{
		Receiver: p.engineAccount,
		Actions: []hostio.Action{{
			Kind:   hostio.ActionFunctionCall,
			Method: "factory_update_address_version",
			Args:   factoryUpdateAddressVersionArgs(sender, p.registry.LatestCodeVersion()),
		}},
		Then: rest,
	}

	code, _ := p.registry.LatestCode()

	deploy := hostio.Promise{
		Receiver: target,
		Actions: []hostio.Action{
			{Kind: hostio.ActionCreateAccount},
			{Kind: hostio.ActionTransfer, Amount: &StorageAmount},
			{Kind: hostio.ActionDeployContract, Code: code},
			{
				Kind:   hostio.ActionFunctionCall,
				Method: "initialize",
				Args:   initializeArgs(p.wnearAddress, p.mustRegister),
			},
		},
		Then: &callback,
	}
	return &deploy
}

// prependUnwrap builds the withdrawToNear(EVM call) -> unwrap_and_refund_storage
// -> rest chain (spec §4.6 step 3). The withdrawToNear step is an EVM
// call against the wNEAR ERC-20, so it is represented as a FunctionCall
// Action with an empty Method, whose Args already carry the full ABI
// calldata (selector + encoded args), addressed to p.wnearAddress in
// hex. Nothing in this package executes that step; it is the head of
// the returned chain like any other promise.
func (p *Precompile) prependUnwrap(sender common.Address, target string, amount uint64, refundNeeded bool, rest *hostio.Promise) *hostio.Promise {
	unwrap := hostio.Promise{
		Receiver: target,
		Actions: []hostio.Action{{
			Kind:   hostio.ActionFunctionCall,
			Method: "unwrap_and_refund_storage",
			Args:   unwrapArgs(amount, refundNeeded),
		}},
		Then: rest,
	}
	withdraw := hostio.Promise{
		Receiver: p.wnearAddress.Hex(),
		Actions: []hostio.Action{{
			Kind: hostio.ActionFunctionCall,
			Args: withdrawToNearCalldata(target, amount),
		}},
		Then: &unwrap,
	}
	return &withdraw
}

func factoryUpdateAddressVersionArgs(sender common.Address, version uint32) []byte {
	return []byte(fmt.Sprintf(`{"address":%q,"version":%d}`, sender.Hex(), version))
}

func initializeArgs(wnear common.Address, mustRegister bool) []byte {
	return []byte(fmt.Sprintf(`{"wnear_account":%q,"must_register":%t}`, wnear.Hex(), mustRegister))
}

func unwrapArgs(amount uint64, refundNeeded bool) []byte {
	return []byte(fmt.Sprintf(`{"amount":"%d","refund_needed":%t}`, amount, refundNeeded))
}

// withdrawToNearCalldata ABI-encodes the recipient account as a
// `string` (whose ABI encoding is byte-identical to `bytes`) and the
// amount as a uint256, prefixed with the fixed selector 0x6b351848 of
// wNEAR's withdrawToNear(bytes,uint256); wNEAR is an external contract
// this engine does not own the source of.
func withdrawToNearCalldata(recipientAccount string, amount uint64) []byte {
	strTy, _ := abi.NewType("string", "", nil)
	uint256Ty, _ := abi.NewType("uint256", "", nil)
	args := abi.Arguments{{Type: strTy}, {Type: uint256Ty}}
	packed, err := args.Pack(recipientAccount, new(big.Int).SetUint64(amount))
	if err != nil {
		// Only fails if the fixed types above are malformed, which
		// would be a programmer error caught immediately by any test.
		panic(err)
	}
	out := make([]byte, 0, 4+len(packed))
	out = append(out, withdrawToNearSelector[:]...)
	out = append(out, packed...)
	return out
}
