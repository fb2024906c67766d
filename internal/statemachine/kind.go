// Package statemachine implements the TransactionKind sum type used
// for standalone replay: every externally-triggered receipt shape
// projects onto a NormalizedEthTransaction for downstream indexers,
// and is archived behind a versioned envelope so historical data stays
// readable across engine upgrades (spec §4.7).
package statemachine

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/aurora-is-near/aurora-engine-go/internal/txncodec"
)

// Tag identifies a TransactionKind variant inside its persisted
// envelope. Numbering is append-only: a tag's meaning never changes
// once shipped.
type Tag uint8

const (
	TagSubmit Tag = iota
	TagCall
	TagDeployCode
	TagDeployErc20Token
	TagFtOnTransfer
	TagFtTransfer
	TagDeposit
	TagFinishDeposit
	TagWithdraw
	TagExitToNear
	TagFactoryUpdate
	TagFactoryUpdateAddressVersion
	TagSetOwner
	TagRegisterRelayer
	TagRawMethodCall

	// TagUnknown is the sentinel for a receipt the host dispatched with
	// a method name the engine does not recognize at all (spec §4.7
	// "sentinel Unknown").
	TagUnknown Tag = 255
)

// TransactionKind enumerates every receipt shape the engine can be
// invoked with (spec §4.7: "≈ 50 variants"; the full admin/silo tail is
// represented generically via RawMethodCall rather than one Go type
// per entry point, since none of it touches EVM execution semantics).
type TransactionKind interface {
	Tag() Tag
	// EthRepr projects this variant onto a NormalizedEthTransaction for
	// downstream indexers. EVM-executing variants (Submit, Call,
	// DeployCode) map to the real transaction; everything else projects
	// to the sentinel (zero, zero, data=method_name_utf8) shape (spec
	// §4.7).
	EthRepr() txncodec.NormalizedEthTransaction
}

// Submit carries an Ethereum transaction already decoded by
// internal/txncodec into its NormalizedEthTransaction form.
type Submit struct {
	Normalized txncodec.NormalizedEthTransaction
}

func (s Submit) Tag() Tag                               { return TagSubmit }
func (s Submit) EthRepr() txncodec.NormalizedEthTransaction { return s.Normalized }

// Call is a direct (non-RLP) EVM call from From to To.
type Call struct {
	From common.Address
	To   common.Address
	Data []byte
	Value *big.Int
}

func (c Call) Tag() Tag { return TagCall }
func (c Call) EthRepr() txncodec.NormalizedEthTransaction {
	to := c.To
	return txncodec.NormalizedEthTransaction{Address: c.From, To: &to, Value: c.Value, Data: c.Data}
}

// DeployCode deploys raw EVM bytecode with no constructor arguments
// beyond what is embedded in the code itself.
type DeployCode struct {
	From common.Address
	Code []byte
}

func (d DeployCode) Tag() Tag { return TagDeployCode }
func (d DeployCode) EthRepr() txncodec.NormalizedEthTransaction {
	return txncodec.NormalizedEthTransaction{Address: d.From, Data: d.Code}
}

// nonEVMSentinel is the eth_repr projection shared by every variant
// that never touches the interpreter (spec §4.7: "non-EVM variants
// project to a sentinel (zero, zero, data=method_name_utf8)").
func nonEVMSentinel(methodName string) txncodec.NormalizedEthTransaction {
	return txncodec.NormalizedEthTransaction{Data: []byte(methodName)}
}

// DeployErc20Token deploys the canned ERC-20 and records its NEP-141
// bijection.
type DeployErc20Token struct {
	Nep141Account string
}

func (d DeployErc20Token) Tag() Tag                               { return TagDeployErc20Token }
func (d DeployErc20Token) EthRepr() txncodec.NormalizedEthTransaction { return nonEVMSentinel("deploy_erc20_token") }

// FtOnTransfer is the NEP-141 transfer_call callback that mints a
// paired ERC-20 balance.
type FtOnTransfer struct {
	Sender string
	Amount *big.Int
	Msg    string
}

func (f FtOnTransfer) Tag() Tag                               { return TagFtOnTransfer }
func (f FtOnTransfer) EthRepr() txncodec.NormalizedEthTransaction { return nonEVMSentinel("ft_on_transfer") }

// Deposit records an incoming light-client proof of an Ethereum-side
// Deposited event.
type Deposit struct {
	ProofKey string
}

func (d Deposit) Tag() Tag                               { return TagDeposit }
func (d Deposit) EthRepr() txncodec.NormalizedEthTransaction { return nonEVMSentinel("deposit") }

// ExitToNear carries the optional refund arguments recorded for the
// refund-on-error callback (spec §4.7: "ExitToNear(refund-args?)").
type ExitToNear struct {
	RefundRecipient common.Address
	RefundAmount    *big.Int // nil unless a refund was scheduled
}

func (e ExitToNear) Tag() Tag                               { return TagExitToNear }
func (e ExitToNear) EthRepr() txncodec.NormalizedEthTransaction { return nonEVMSentinel("exit_to_near") }

// FactoryUpdateAddressVersion is the XCC post-deploy callback.
type FactoryUpdateAddressVersion struct {
	Address common.Address
	Version uint32
}

func (f FactoryUpdateAddressVersion) Tag() Tag { return TagFactoryUpdateAddressVersion }
func (f FactoryUpdateAddressVersion) EthRepr() txncodec.NormalizedEthTransaction {
	return nonEVMSentinel("factory_update_address_version")
}

// RawMethodCall is the generic fallback for every admin, silo and
// whitelist entry point that carries no EVM-execution semantics (spec
// §4.7: "admin mutations, silo/whitelist mutations").
type RawMethodCall struct {
	Method string
	Args   []byte
}

func (r RawMethodCall) Tag() Tag                               { return TagRawMethodCall }
func (r RawMethodCall) EthRepr() txncodec.NormalizedEthTransaction { return nonEVMSentinel(r.Method) }

// FtTransfer is a NEP-141 ft_transfer between two host accounts,
// recorded for replay even though it never touches the EVM side
// (internal/ft.Ledger.Transfer).
type FtTransfer struct {
	Sender   string
	Receiver string
	Amount   *big.Int
}

func (f FtTransfer) Tag() Tag                               { return TagFtTransfer }
func (f FtTransfer) EthRepr() txncodec.NormalizedEthTransaction { return nonEVMSentinel("ft_transfer") }

// FinishDeposit is the proof-verification callback that mints nETH on
// the NEP-141 side for a completed Ethereum-side deposit (spec §4.7;
// original_source's connector.rs Engine::finish_deposit,
// FinishDepositCallArgs).
type FinishDeposit struct {
	ProofKey   string
	NewOwnerID string
	Amount     *big.Int
	Fee        *big.Int
	RelayerID  string
}

func (f FinishDeposit) Tag() Tag { return TagFinishDeposit }
func (f FinishDeposit) EthRepr() txncodec.NormalizedEthTransaction {
	return nonEVMSentinel("finish_deposit")
}

// Withdraw burns nETH and emits the Ethereum-side Withdraw event
// consumed by the custodian contract (internal/ethconnector.WithdrawRecord).
type Withdraw struct {
	Recipient           common.Address
	Amount              *big.Int
	EthCustodianAddress common.Address
}

func (w Withdraw) Tag() Tag                               { return TagWithdraw }
func (w Withdraw) EthRepr() txncodec.NormalizedEthTransaction { return nonEVMSentinel("withdraw") }

// FactoryUpdate installs new router bytecode and bumps
// latest_code_version (spec §4.6; internal/xcc.Registry.SetLatestCode).
type FactoryUpdate struct {
	RouterCode []byte
	Version    uint32
}

func (f FactoryUpdate) Tag() Tag { return TagFactoryUpdate }
func (f FactoryUpdate) EthRepr() txncodec.NormalizedEthTransaction {
	return nonEVMSentinel("factory_update")
}

// SetOwner transfers engine ownership to a new host account
// (original_source's parameters.rs SetOwnerArgs).
type SetOwner struct {
	NewOwner string
}

func (s SetOwner) Tag() Tag                               { return TagSetOwner }
func (s SetOwner) EthRepr() txncodec.NormalizedEthTransaction { return nonEVMSentinel("set_owner") }

// RegisterRelayer associates a host account with the EVM address that
// collects its relayed transactions' priority fee (original_source's
// lib.rs register_relayer: "relayer_address = io.read_input_arr20()").
type RegisterRelayer struct {
	RelayerAddress common.Address
}

func (r RegisterRelayer) Tag() Tag { return TagRegisterRelayer }
func (r RegisterRelayer) EthRepr() txncodec.NormalizedEthTransaction {
	return nonEVMSentinel("register_relayer")
}
