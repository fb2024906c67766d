package ft_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/internal/evmtypes"
	"github.com/aurora-is-near/aurora-engine-go/internal/ft"
)

type memKV struct {
	data map[string][]byte
}

func newMemKV() *memKV { return &memKV{data: make(map[string][]byte)} }

func (m *memKV) Get(key []byte) ([]byte, bool) {
	v, ok := m.data[string(key)]
	return v, ok
}
func (m *memKV) Set(key, value []byte) { m.data[string(key)] = append([]byte{}, value...) }
func (m *memKV) Delete(key []byte)     { delete(m.data, string(key)) }
func (m *memKV) Iterate(prefix []byte, fn func(key, value []byte) bool) {
	for k, v := range m.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == string(prefix) {
			if !fn([]byte(k), v) {
				return
			}
		}
	}
}

func TestTransferCallAndResolveTransferPartialRefund(t *testing.T) {
	// Scenario 4 from spec §8: Alice sends ft_transfer_call(bob, 100,
	// msg); bob.ft_on_transfer returns "40" (unused). Post-state:
	// balance(alice) += 40, balance(bob) == initial_bob + 60, totals
	// unchanged.
	kv := newMemKV()
	l := ft.New(kv)

	require.NoError(t, l.Deposit("alice.near", sdkmath.NewUint(1000)))
	require.NoError(t, l.Deposit("bob.near", sdkmath.NewUint(500)))

	totalBefore := l.TotalNear()

	promise, err := l.TransferCall("aurora", "alice.near", "bob.near", sdkmath.NewUint(100), "")
	require.NoError(t, err)
	require.Equal(t, "bob.near", promise.Receiver)
	require.Equal(t, "ft_on_transfer", promise.Actions[0].Method)
	require.NotNil(t, promise.Then)
	require.Equal(t, "aurora", promise.Then.Receiver)
	require.Equal(t, "ft_resolve_transfer", promise.Then.Actions[0].Method)

	require.True(t, l.BalanceOf("alice.near").Equal(sdkmath.NewUint(900)))
	require.True(t, l.BalanceOf("bob.near").Equal(sdkmath.NewUint(600)))

	refunded, err := l.ResolveTransfer("alice.near", "bob.near", sdkmath.NewUint(100), true, "40")
	require.NoError(t, err)
	require.True(t, refunded.Equal(sdkmath.NewUint(40)))

	require.True(t, l.BalanceOf("alice.near").Equal(sdkmath.NewUint(940)))
	require.True(t, l.BalanceOf("bob.near").Equal(sdkmath.NewUint(560)))
	require.True(t, l.TotalNear().Equal(totalBefore))
}

func TestResolveTransferFullRefundOnFailedPromise(t *testing.T) {
	kv := newMemKV()
	l := ft.New(kv)
	require.NoError(t, l.Deposit("alice.near", sdkmath.NewUint(1000)))
	require.NoError(t, l.Deposit("bob.near", sdkmath.NewUint(0)))
	require.NoError(t, l.Transfer("alice.near", "bob.near", sdkmath.NewUint(100)))

	refunded, err := l.ResolveTransfer("alice.near", "bob.near", sdkmath.NewUint(100), false, "")
	require.NoError(t, err)
	require.True(t, refunded.Equal(sdkmath.NewUint(100)))
	require.True(t, l.BalanceOf("alice.near").Equal(sdkmath.NewUint(1000)))
	require.True(t, l.BalanceOf("bob.near").Equal(sdkmath.ZeroUint()))
}

func TestResolveTransferBurnsWhenSenderUnregistered(t *testing.T) {
	kv := newMemKV()
	l := ft.New(kv)
	require.NoError(t, l.Deposit("alice.near", sdkmath.NewUint(1000)))
	require.NoError(t, l.Deposit("bob.near", sdkmath.NewUint(500)))
	require.NoError(t, l.Transfer("alice.near", "bob.near", sdkmath.NewUint(100)))

	_, err := l.StorageUnregister("alice.near", true)
	require.NoError(t, err)
	totalBefore := l.TotalNear()

	refunded, err := l.ResolveTransfer("alice.near", "bob.near", sdkmath.NewUint(100), true, "40")
	require.NoError(t, err)
	require.True(t, refunded.Equal(sdkmath.NewUint(40)))

	require.True(t, l.BalanceOf("bob.near").Equal(sdkmath.NewUint(560)))
	require.True(t, l.TotalNear().Equal(totalBefore.Sub(sdkmath.NewUint(40))))
}

func TestTransferRejectsSameAccount(t *testing.T) {
	kv := newMemKV()
	l := ft.New(kv)
	require.NoError(t, l.Deposit("alice.near", sdkmath.NewUint(10)))
	err := l.Transfer("alice.near", "alice.near", sdkmath.NewUint(1))
	require.ErrorIs(t, err, ft.ErrSameAccount)
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	kv := newMemKV()
	l := ft.New(kv)
	require.NoError(t, l.Deposit("alice.near", sdkmath.NewUint(5)))
	err := l.Withdraw("alice.near", sdkmath.NewUint(6))
	require.ErrorIs(t, err, ft.ErrInsufficientBalance)
}

func TestStorageUnregister(t *testing.T) {
	kv := newMemKV()
	l := ft.New(kv)
	require.NoError(t, l.Deposit("alice.near", sdkmath.NewUint(100)))

	before := l.TotalNear()
	_, err := l.StorageUnregister("alice.near", false)
	require.Error(t, err, "non-zero balance without force must fail")

	burned, err := l.StorageUnregister("alice.near", true)
	require.NoError(t, err)
	require.True(t, burned.Equal(sdkmath.NewUint(100)))
	require.True(t, l.TotalNear().Equal(before.Sub(sdkmath.NewUint(100))))
}

func TestSetEthBalanceTracksTotalAurora(t *testing.T) {
	kv := newMemKV()
	l := ft.New(kv)
	require.True(t, l.TotalAurora().IsZero())

	credited := evmtypes.WeiFromUint64(1000)
	require.NoError(t, l.SetEthBalance("aurora", evmtypes.Wei{}, credited))
	require.Equal(t, 0, l.TotalAurora().Cmp(credited))
	require.True(t, l.BalanceOf("aurora").Equal(sdkmath.NewUint(1000)))

	debited := evmtypes.WeiFromUint64(400)
	require.NoError(t, l.SetEthBalance("aurora", credited, debited))
	require.Equal(t, 0, l.TotalAurora().Cmp(debited))
	require.True(t, l.BalanceOf("aurora").Equal(sdkmath.NewUint(400)))
}

func TestTotalAuroraRoundTripsThroughStorage(t *testing.T) {
	kv := newMemKV()
	l := ft.New(kv)
	require.NoError(t, l.SetEthBalance("aurora", evmtypes.Wei{}, evmtypes.WeiFromUint64(7)))

	reopened := ft.New(kv)
	require.Equal(t, 0, reopened.TotalAurora().Cmp(evmtypes.WeiFromUint64(7)))
}

func TestStorageDepositRegistersAndRefundsExcess(t *testing.T) {
	kv := newMemKV()
	l := ft.New(kv)

	attached := ft.MinStorageBalance.Add(sdkmath.NewUint(500))
	bal, refund, err := l.StorageDeposit("alice.near", attached, false)
	require.NoError(t, err)
	require.True(t, bal.Total.Equal(ft.MinStorageBalance))
	require.True(t, refund.Equal(sdkmath.NewUint(500)))

	_, found := l.StorageBalanceOf("alice.near")
	require.True(t, found)
}

func TestStorageDepositRejectsBelowMinimum(t *testing.T) {
	kv := newMemKV()
	l := ft.New(kv)

	_, _, err := l.StorageDeposit("alice.near", sdkmath.NewUint(1), false)
	require.ErrorIs(t, err, ft.ErrInsufficientBalance)
	_, found := l.StorageBalanceOf("alice.near")
	require.False(t, found)
}

func TestStorageDepositOnAlreadyRegisteredRefundsEverything(t *testing.T) {
	kv := newMemKV()
	l := ft.New(kv)
	_, _, err := l.StorageDeposit("alice.near", ft.MinStorageBalance, false)
	require.NoError(t, err)

	attached := ft.MinStorageBalance.Add(sdkmath.NewUint(10))
	_, refund, err := l.StorageDeposit("alice.near", attached, true)
	require.NoError(t, err)
	require.True(t, refund.Equal(attached))
}

func TestStorageWithdrawRejectsNonZeroAmount(t *testing.T) {
	kv := newMemKV()
	l := ft.New(kv)
	_, _, err := l.StorageDeposit("alice.near", ft.MinStorageBalance, false)
	require.NoError(t, err)

	_, err = l.StorageWithdraw("alice.near", sdkmath.NewUint(1))
	require.ErrorIs(t, err, ft.ErrInsufficientBalance)

	bal, err := l.StorageWithdraw("alice.near", sdkmath.ZeroUint())
	require.NoError(t, err)
	require.True(t, bal.Total.Equal(ft.MinStorageBalance))
}
