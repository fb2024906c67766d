package storagekey_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/internal/storagekey"
)

func TestKeysStartWithVersionAndPrefix(t *testing.T) {
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")

	require.Equal(t, []byte{storagekey.Version, byte(storagekey.PrefixNonce)}, storagekey.Nonce(addr)[:2])
	require.Equal(t, []byte{storagekey.Version, byte(storagekey.PrefixBalance)}, storagekey.Balance(addr)[:2])
	require.Equal(t, []byte{storagekey.Version, byte(storagekey.PrefixCode)}, storagekey.Code(addr)[:2])
}

func TestDistinctAddressesProduceDistinctKeys(t *testing.T) {
	a := common.HexToAddress("0x1111111111111111111111111111111111111111")
	b := common.HexToAddress("0x2222222222222222222222222222222222222222")
	require.NotEqual(t, storagekey.Nonce(a), storagekey.Nonce(b))
}

func TestStorageKeyOmitsGenerationSegmentWhenZero(t *testing.T) {
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	slot := common.HexToHash("0xdead")

	zeroGen := storagekey.Storage(addr, slot, 0)
	nonZeroGen := storagekey.Storage(addr, slot, 1)

	require.Len(t, zeroGen, len(nonZeroGen)-4)
	require.NotEqual(t, zeroGen, nonZeroGen)
}

func TestBijectionKeysAreDistinctDirections(t *testing.T) {
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	require.NotEqual(t, storagekey.Nep141ToErc20("alice.near"), storagekey.Erc20ToNep141(addr))
}

func TestEthConnectorSubKeysAreDistinct(t *testing.T) {
	require.NotEqual(t,
		storagekey.EthConnector(storagekey.SubKeyFungibleToken),
		storagekey.EthConnector(storagekey.SubKeyUsedEvent))
}
