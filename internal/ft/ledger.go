// Package ft implements the fungible-token ledger: the NEP-141-side
// deposit/withdraw/transfer bookkeeping and its reconciliation against
// the EVM-side "nETH" balance (spec §4.4 "Fungible-token ledger").
package ft

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/tidwall/sjson"

	"github.com/aurora-is-near/aurora-engine-go/internal/evmtypes"
	"github.com/aurora-is-near/aurora-engine-go/internal/hostio"
	"github.com/aurora-is-near/aurora-engine-go/internal/storagekey"
)

// Gas figures for the ft_transfer_call two-step promise, carried over
// unchanged from original_source/engine/src/fungible_token.rs's
// GAS_FOR_FT_ON_TRANSFER / GAS_FOR_RESOLVE_TRANSFER constants.
const (
	gasForFtOnTransfer     = 10_000_000_000_000
	gasForResolveTransfer  = 5_000_000_000_000
)

// Sentinel errors corresponding to the accounting error taxonomy
// (spec §7 "Accounting").
var (
	ErrBalanceOverflow     = errors.New("ft: balance overflow")
	ErrInsufficientBalance = errors.New("ft: insufficient balance")
	ErrUnregistered        = errors.New("ft: account not registered")
	ErrSameAccount         = errors.New("ft: sender and receiver must differ")
	ErrZeroAmount          = errors.New("ft: amount must be greater than zero")
)

// Ledger operates the two scalars (total_near, total_aurora) plus the
// per-account map, maintaining the invariant
// Σ per_account == total_near at every observation point (spec §3
// "FtLedger", §8 "Invariants").
type Ledger struct {
	kv hostio.KVStore
}

// New constructs a Ledger bound to the given host key-value store.
func New(kv hostio.KVStore) *Ledger {
	return &Ledger{kv: kv}
}

func accountBalanceKey(account string) []byte {
	k := storagekey.EthConnector(storagekey.SubKeyFungibleToken)
	return append(append(k, 0xff), []byte(account)...)
}

func totalsKey() []byte {
	return storagekey.EthConnector(storagekey.SubKeyFungibleToken)
}

type totals struct {
	TotalNear       sdkmath.Uint
	TotalAurora     evmtypes.Wei
	AccountsCounter uint64
}

// totals is laid out as [TotalNear 16 bytes][AccountsCounter 8
// bytes][TotalAurora 32 bytes]. TotalAurora was added after the first
// 24-byte layout shipped, so loadTotals treats a shorter record as
// TotalAurora == 0 rather than rejecting it.
func (l *Ledger) loadTotals() totals {
	raw, found := l.kv.Get(totalsKey())
	if !found {
		return totals{TotalNear: sdkmath.ZeroUint()}
	}
	t := totals{}
	t.TotalNear = sdkmath.NewUintFromBigInt(new(big.Int).SetBytes(raw[:16]))
	t.AccountsCounter = binary.BigEndian.Uint64(raw[16:24])
	if len(raw) >= 56 {
		var word [32]byte
		copy(word[:], raw[24:56])
		t.TotalAurora = evmtypes.WeiFromUint256(new(uint256.Int).SetBytes32(word[:]))
	}
	return t
}

func (l *Ledger) saveTotals(t totals) {
	buf := make([]byte, 56)
	b := t.TotalNear.BigInt().Bytes()
	copy(buf[16-len(b):16], b)
	binary.BigEndian.PutUint64(buf[16:24], t.AccountsCounter)
	word := t.TotalAurora.Uint256().Bytes32()
	copy(buf[24:56], word[:])
	l.kv.Set(totalsKey(), buf)
}

func (l *Ledger) loadBalance(account string) (sdkmath.Uint, bool) {
	raw, found := l.kv.Get(accountBalanceKey(account))
	if !found {
		return sdkmath.ZeroUint(), false
	}
	return sdkmath.NewUintFromBigInt(new(big.Int).SetBytes(raw)), true
}

func (l *Ledger) saveBalance(account string, bal sdkmath.Uint) {
	l.kv.Set(accountBalanceKey(account), bal.BigInt().Bytes())
}

// TotalNear returns the current Σ per_account scalar.
func (l *Ledger) TotalNear() sdkmath.Uint {
	return l.loadTotals().TotalNear
}

// TotalAurora returns total_aurora, the Σ balance(addr) scalar over
// every EVM address with a non-empty record (spec §8 "Invariants":
// "total_aurora == Σ balance(addr)"; backs the ft_total_eth_supply_on_aurora
// view method).
func (l *Ledger) TotalAurora() evmtypes.Wei {
	return l.loadTotals().TotalAurora
}

// BalanceOf returns an account's NEP-141-side balance, or zero if the
// account has never been registered.
func (l *Ledger) BalanceOf(account string) sdkmath.Uint {
	bal, _ := l.loadBalance(account)
	return bal
}

// register ensures account has a zero-balance entry, bumping
// accounts_counter on first registration (storage-deposit semantics,
// spec §4.4).
func (l *Ledger) register(account string) {
	if _, found := l.loadBalance(account); found {
		return
	}
	t := l.loadTotals()
	t.AccountsCounter++
	l.saveTotals(t)
	l.saveBalance(account, sdkmath.ZeroUint())
}

// Deposit credits account by amount and increases total_near,
// auto-registering the account if unseen.
func (l *Ledger) Deposit(account string, amount sdkmath.Uint) error {
	l.register(account)
	bal, _ := l.loadBalance(account)
	newBal := bal.Add(amount)
	t := l.loadTotals()
	t.TotalNear = t.TotalNear.Add(amount)
	l.saveBalance(account, newBal)
	l.saveTotals(t)
	return nil
}

// Withdraw debits account by amount and decreases total_near,
// failing with ErrInsufficientBalance if amount > balance.
func (l *Ledger) Withdraw(account string, amount sdkmath.Uint) error {
	bal, found := l.loadBalance(account)
	if !found {
		return fmt.Errorf("%w: %s", ErrUnregistered, account)
	}
	if bal.LT(amount) {
		return ErrInsufficientBalance
	}
	t := l.loadTotals()
	l.saveBalance(account, bal.Sub(amount))
	t.TotalNear = t.TotalNear.Sub(amount)
	l.saveTotals(t)
	return nil
}

// Transfer implements ft_transfer: sender != receiver, amount > 0,
// auto-registers receiver (spec §4.4).
func (l *Ledger) Transfer(sender, receiver string, amount sdkmath.Uint) error {
	if sender == receiver {
		return ErrSameAccount
	}
	if amount.IsZero() {
		return ErrZeroAmount
	}
	if err := l.Withdraw(sender, amount); err != nil {
		return err
	}
	return l.Deposit(receiver, amount)
}

// SetEthBalance reconciles the ledger's total_aurora (and the
// receiving/paying account's NEP-141-side balance, since "aurora" here
// is the engine's own pooled account) after an EVM-side balance
// mutation, choosing deposit or withdraw based on the sign of
// new-current (spec §4.4).
func (l *Ledger) SetEthBalance(engineAccount string, current, next evmtypes.Wei) error {
	switch current.Cmp(next) {
	case -1: // next > current: credit
		diff, err := next.Sub(current)
		if err != nil {
			return err
		}
		if err := l.Deposit(engineAccount, sdkmath.NewUintFromBigInt(diff.Uint256().ToBig())); err != nil {
			return err
		}
		return l.adjustTotalAurora(diff, true)
	case 1: // next < current: debit
		diff, err := current.Sub(next)
		if err != nil {
			return err
		}
		if err := l.Withdraw(engineAccount, sdkmath.NewUintFromBigInt(diff.Uint256().ToBig())); err != nil {
			return err
		}
		return l.adjustTotalAurora(diff, false)
	default:
		return nil
	}
}

// adjustTotalAurora credits (or debits) total_aurora by diff,
// keeping it in lock-step with the per-address EVM balance mutation
// that SetEthBalance was called for.
func (l *Ledger) adjustTotalAurora(diff evmtypes.Wei, credit bool) error {
	t := l.loadTotals()
	var (
		updated evmtypes.Wei
		err     error
	)
	if credit {
		updated, err = t.TotalAurora.Add(diff)
	} else {
		updated, err = t.TotalAurora.Sub(diff)
	}
	if err != nil {
		return err
	}
	t.TotalAurora = updated
	l.saveTotals(t)
	return nil
}

// StorageUnregister burns a registered account's balance and removes
// its registration. With force=false it fails if balance != 0; with
// force=true it always succeeds, decreasing total_near by exactly the
// burned amount (spec §8 "Boundary cases").
func (l *Ledger) StorageUnregister(account string, force bool) (burned sdkmath.Uint, err error) {
	bal, found := l.loadBalance(account)
	if !found {
		return sdkmath.ZeroUint(), fmt.Errorf("%w: %s", ErrUnregistered, account)
	}
	if !bal.IsZero() && !force {
		return sdkmath.ZeroUint(), fmt.Errorf("ft: account %s has non-zero balance %s, force required", account, bal)
	}
	t := l.loadTotals()
	t.TotalNear = t.TotalNear.Sub(bal)
	t.AccountsCounter--
	l.saveTotals(t)
	l.kv.Delete(accountBalanceKey(account))
	return bal, nil
}

// EngineAddress is a convenience re-export so callers in internal/connector
// don't need to import evmtypes separately when resolving the pooled
// engine address used by SetEthBalance.
func EngineAddress(hostAccount string) common.Address {
	return evmtypes.ImplicitAddress(hostAccount).Common()
}

// TransferCall implements ft_transfer_call: it performs the same
// optimistic debit/credit as Transfer, then hands back the promise
// graph the caller must schedule — receiver.ft_on_transfer, chained
// into a callback to engineAccount.ft_resolve_transfer (spec §4.4
// "ft_transfer_call"; two-step pattern grounded on
// original_source/engine/src/fungible_token.rs's ft_transfer_call /
// internal_ft_resolve_transfer).
func (l *Ledger) TransferCall(engineAccount, sender, receiver string, amount sdkmath.Uint, msg string) (hostio.Promise, error) {
	if err := l.Transfer(sender, receiver, amount); err != nil {
		return hostio.Promise{}, err
	}

	onTransferArgs, err := ftOnTransferArgs(sender, amount, msg)
	if err != nil {
		return hostio.Promise{}, err
	}
	resolveArgs, err := resolveTransferArgs(sender, receiver, amount)
	if err != nil {
		return hostio.Promise{}, err
	}

	return hostio.Promise{
		Receiver: receiver,
		Actions: []hostio.Action{{
			Kind:   hostio.ActionFunctionCall,
			Method: "ft_on_transfer",
			Args:   onTransferArgs,
			Gas:    gasForFtOnTransfer,
		}},
		Then: &hostio.Promise{
			Receiver: engineAccount,
			Actions: []hostio.Action{{
				Kind:   hostio.ActionFunctionCall,
				Method: "ft_resolve_transfer",
				Args:   resolveArgs,
				Gas:    gasForResolveTransfer,
			}},
		},
	}, nil
}

func ftOnTransferArgs(sender string, amount sdkmath.Uint, msg string) ([]byte, error) {
	raw, err := sjson.SetBytes([]byte("{}"), "sender_id", sender)
	if err != nil {
		return nil, err
	}
	raw, err = sjson.SetBytes(raw, "amount", amount.String())
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(raw, "msg", msg)
}

func resolveTransferArgs(sender, receiver string, amount sdkmath.Uint) ([]byte, error) {
	raw, err := sjson.SetBytes([]byte("{}"), "sender_id", sender)
	if err != nil {
		return nil, err
	}
	raw, err = sjson.SetBytes(raw, "receiver_id", receiver)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(raw, "amount", amount.String())
}

// ResolveTransfer implements ft_resolve_transfer, the callback
// scheduled by TransferCall. promiseSucceeded/unusedAmount carry what
// the host reported for the ft_on_transfer promise result
// (PromiseScheduler.PromiseResult); unusedAmount is the decimal string
// the receiver's ft_on_transfer returned, capped at amount either way.
// The refund is always deducted from the *receiver's* current balance
// (it may have spent some or all of what it was optimistically
// credited) and, if sender is still registered, credited back to it;
// otherwise it is burned out of total_near (spec §8 scenario 4;
// original_source's internal_ft_resolve_transfer).
func (l *Ledger) ResolveTransfer(sender, receiver string, amount sdkmath.Uint, promiseSucceeded bool, unusedAmount string) (refunded sdkmath.Uint, err error) {
	unused := amount
	if promiseSucceeded {
		unused = amount
		if parsed, ok := new(big.Int).SetString(unusedAmount, 10); ok && parsed.Sign() >= 0 {
			candidate := sdkmath.NewUintFromBigInt(parsed)
			if candidate.LT(amount) {
				unused = candidate
			}
		}
	}
	if unused.IsZero() {
		return sdkmath.ZeroUint(), nil
	}

	receiverBal, found := l.loadBalance(receiver)
	if !found || receiverBal.IsZero() {
		return sdkmath.ZeroUint(), nil
	}

	refund := unused
	if receiverBal.LT(refund) {
		refund = receiverBal
	}

	l.saveBalance(receiver, receiverBal.Sub(refund))

	if senderBal, senderFound := l.loadBalance(sender); senderFound {
		l.saveBalance(sender, senderBal.Add(refund))
	} else {
		t := l.loadTotals()
		t.TotalNear = t.TotalNear.Sub(refund)
		l.saveTotals(t)
	}
	return refund, nil
}

// MinStorageBalance is the fixed registration cost every account must
// attach to storage_deposit, denominated in the same unit as the
// ledger's NEP-141 balances. Aurora's storage_balance_bounds always
// returns min == max (a single-tier bound), since an account's
// on-ledger footprint never grows past its initial entry — so this
// constant is both the min and the max (spec §4.4 "storage-deposit
// registration"; original_source's storage_balance_bounds).
var MinStorageBalance = sdkmath.NewUintFromString("1250000000000000000000")

// StorageBalance mirrors the NEP-145 storage_balance_of view (spec §6).
type StorageBalance struct {
	Total     sdkmath.Uint
	Available sdkmath.Uint
}

// StorageBalanceOf returns account's storage balance, or found=false
// if it has never registered.
func (l *Ledger) StorageBalanceOf(account string) (bal StorageBalance, found bool) {
	if _, ok := l.loadBalance(account); !ok {
		return StorageBalance{}, false
	}
	return StorageBalance{Total: MinStorageBalance, Available: sdkmath.ZeroUint()}, true
}

// StorageDeposit registers accountID against an attached deposit,
// returning the excess to refund to the caller. registrationOnly is
// accepted for NEP-145 signature compatibility but doesn't change the
// outcome here, same as the original implementation: with a
// single-tier bound there is never a partial top-up to distinguish
// (spec §4.4; original_source's storage_deposit: "registration_only
// doesn't affect the implementation for vanilla fungible token").
// Already-registered accounts get their entire attached deposit back.
func (l *Ledger) StorageDeposit(accountID string, attached sdkmath.Uint, registrationOnly bool) (bal StorageBalance, refund sdkmath.Uint, err error) {
	if _, ok := l.loadBalance(accountID); ok {
		return StorageBalance{Total: MinStorageBalance, Available: sdkmath.ZeroUint()}, attached, nil
	}
	if attached.LT(MinStorageBalance) {
		return StorageBalance{}, sdkmath.ZeroUint(), fmt.Errorf("%w: attached %s below required %s", ErrInsufficientBalance, attached, MinStorageBalance)
	}
	l.register(accountID)
	return StorageBalance{Total: MinStorageBalance, Available: sdkmath.ZeroUint()}, attached.Sub(MinStorageBalance), nil
}

// StorageWithdraw withdraws up to amount from account's storage
// balance. Available is always zero under the single-tier bound, so
// any amount > 0 fails; amount == 0 is a no-op that returns the
// current balance (NEP-145 "storage_withdraw(None)"; original_source's
// storage_withdraw: "Some(amount) if amount > 0 => ERR_WRONG_AMOUNT").
func (l *Ledger) StorageWithdraw(account string, amount sdkmath.Uint) (StorageBalance, error) {
	bal, found := l.StorageBalanceOf(account)
	if !found {
		return StorageBalance{}, fmt.Errorf("%w: %s", ErrUnregistered, account)
	}
	if !amount.IsZero() {
		return StorageBalance{}, fmt.Errorf("%w: no available storage balance to withdraw", ErrInsufficientBalance)
	}
	return bal, nil
}
