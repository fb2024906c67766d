package txncodec_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/internal/txncodec"
)

var testChainID = big.NewInt(1313161555)

func TestLegacyTransactionRoundTripRecoversSender(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(key.PublicKey)

	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	legacyTx := types.NewTx(&types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(1),
		Gas:      21000,
		To:       &to,
		Value:    big.NewInt(100),
	})

	signer := types.NewEIP155Signer(testChainID)
	signedTx, err := types.SignTx(legacyTx, signer, key)
	require.NoError(t, err)

	raw, err := signedTx.MarshalBinary()
	require.NoError(t, err)

	normalized, err := txncodec.Decode(raw, testChainID)
	require.NoError(t, err)
	require.Equal(t, sender, normalized.Address)
	require.Equal(t, uint64(0), normalized.Nonce)
	require.False(t, normalized.IsCreate())
	require.Equal(t, to, *normalized.To)
	require.Equal(t, 0, normalized.Value.Cmp(big.NewInt(100)))
}

func TestDecodeRejectsChainIDMismatch(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	to := common.HexToAddress("0x2222222222222222222222222222222222222222")
	tx := types.NewTx(&types.LegacyTx{Nonce: 0, GasPrice: big.NewInt(1), Gas: 21000, To: &to, Value: big.NewInt(0)})
	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(big.NewInt(1)), key)
	require.NoError(t, err)

	raw, err := signedTx.MarshalBinary()
	require.NoError(t, err)

	_, err = txncodec.Decode(raw, testChainID)
	require.Error(t, err)
}

func TestDecodeRejectsGasBelowIntrinsic(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	to := common.HexToAddress("0x3333333333333333333333333333333333333333")
	tx := types.NewTx(&types.LegacyTx{Nonce: 0, GasPrice: big.NewInt(1), Gas: 100, To: &to, Value: big.NewInt(0)})
	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(testChainID), key)
	require.NoError(t, err)

	raw, err := signedTx.MarshalBinary()
	require.NoError(t, err)

	_, err = txncodec.Decode(raw, testChainID)
	require.Error(t, err)
}

// TestDecodeRejectsMalleableSignature hand-builds a legacy-tx RLP list
// with an s value in the upper half of the curve order. The r/s pair
// need not recover to any real key: validateMalleability runs before
// sender recovery is attempted (spec §4.1 "reject malleable signatures
// ⇒ InvalidEcRecoverSignature").
func TestDecodeRejectsMalleableSignature(t *testing.T) {
	upperHalfS, ok := new(big.Int).SetString("7FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF5D576E7357A4501DDFE92F46681B20A1", 16)
	require.True(t, ok)

	to := common.HexToAddress("0x4444444444444444444444444444444444444444")
	fields := []interface{}{
		uint64(0),           // nonce
		big.NewInt(1),       // gasPrice
		uint64(21000),       // gas
		to,                  // to
		big.NewInt(0),       // value
		[]byte{},            // data
		big.NewInt(27),      // v
		big.NewInt(1),       // r
		upperHalfS,          // s
	}
	raw, err := rlp.EncodeToBytes(fields)
	require.NoError(t, err)

	_, err = txncodec.Decode(raw, testChainID)
	require.Error(t, err)
}

func TestEip1559TransactionDecodesTypedEnvelope(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(key.PublicKey)

	to := common.HexToAddress("0x5555555555555555555555555555555555555555")
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   testChainID,
		Nonce:     3,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(10),
		Gas:       21000,
		To:        &to,
		Value:     big.NewInt(0),
	})
	signedTx, err := types.SignTx(tx, types.NewLondonSigner(testChainID), key)
	require.NoError(t, err)

	raw, err := signedTx.MarshalBinary()
	require.NoError(t, err)

	normalized, err := txncodec.Decode(raw, testChainID)
	require.NoError(t, err)
	require.Equal(t, sender, normalized.Address)
	require.Equal(t, uint64(3), normalized.Nonce)
	require.Equal(t, 0, normalized.ChainID.Cmp(testChainID))
}
