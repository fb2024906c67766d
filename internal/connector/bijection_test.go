package connector_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/internal/connector"
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

func TestRecordBijectionRoundTripsBothDirections(t *testing.T) {
	bridge := connector.New(newMemKV())
	erc20 := common.HexToAddress("0x1111111111111111111111111111111111111111")

	require.NoError(t, bridge.RecordBijection("token.near", erc20))

	gotErc20, ok := bridge.Erc20FromNep141("token.near")
	require.True(t, ok)
	require.Equal(t, erc20, gotErc20)

	gotNep141, ok := bridge.Nep141FromErc20(erc20)
	require.True(t, ok)
	require.Equal(t, "token.near", gotNep141)
}

func TestRecordBijectionRejectsDuplicateNep141(t *testing.T) {
	bridge := connector.New(newMemKV())
	erc20a := common.HexToAddress("0x1111111111111111111111111111111111111111")
	erc20b := common.HexToAddress("0x2222222222222222222222222222222222222222")

	require.NoError(t, bridge.RecordBijection("token.near", erc20a))

	err := bridge.RecordBijection("token.near", erc20b)
	require.ErrorIs(t, err, connector.ErrAlreadyDeployed)

	// the original pairing must be untouched
	got, ok := bridge.Erc20FromNep141("token.near")
	require.True(t, ok)
	require.Equal(t, erc20a, got)
}

func TestLookupMissesReturnFalse(t *testing.T) {
	bridge := connector.New(newMemKV())

	_, ok := bridge.Erc20FromNep141("nonexistent.near")
	require.False(t, ok)

	_, ok = bridge.Nep141FromErc20(common.HexToAddress("0x3333333333333333333333333333333333333333"))
	require.False(t, ok)
}

func TestRecipientFromMsgExtractsLeadingHexAddress(t *testing.T) {
	addr := "1111111111111111111111111111111111111111"
	msg := addr + "rest-of-the-payload"

	got, err := connector.RecipientFromMsg(msg)
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0x"+addr), got)
}

func TestRecipientFromMsgAccepts0xPrefix(t *testing.T) {
	addr := "0x2222222222222222222222222222222222222222"
	got, err := connector.RecipientFromMsg(addr)
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress(addr), got)
}

func TestRecipientFromMsgRejectsShortMessage(t *testing.T) {
	_, err := connector.RecipientFromMsg("deadbeef")
	require.ErrorIs(t, err, connector.ErrShortMessage)
}

func TestEncodeMintCallPrependsSelectorAndPadsArgs(t *testing.T) {
	recipient := common.HexToAddress("0x4444444444444444444444444444444444444444")
	amount := big.NewInt(1000)

	call := connector.EncodeMintCall(recipient, amount)
	require.Len(t, call, 4+32+32)

	// recipient occupies the last 20 bytes of the first 32-byte word
	require.Equal(t, recipient.Bytes(), call[4+12:4+32])

	// amount occupies the last bytes of the second word
	gotAmount := new(big.Int).SetBytes(call[4+32:])
	require.Equal(t, 0, gotAmount.Cmp(amount))
}

func TestConstructorArgsEncodesCannedFields(t *testing.T) {
	minter := common.HexToAddress("0x5555555555555555555555555555555555555555")

	packed, err := connector.ConstructorArgs(minter)
	require.NoError(t, err)
	require.NotEmpty(t, packed)
}
