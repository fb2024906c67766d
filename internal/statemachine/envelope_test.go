package statemachine_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/internal/statemachine"
	"github.com/aurora-is-near/aurora-engine-go/internal/txncodec"
)

func TestEnvelopeRoundTripV4(t *testing.T) {
	to := common.HexToAddress("0x1212121212121212121212121212121212121212"[:42])
	msg := statemachine.Message{
		Kind: statemachine.Submit{Normalized: txncodec.NormalizedEthTransaction{
			Address:  common.HexToAddress("0x3434343434343434343434343434343434343434"[:42]),
			ChainID:  big.NewInt(1313161555),
			Nonce:    7,
			GasLimit: 21000,
			To:       &to,
			Value:    big.NewInt(1000),
			Data:     []byte("hello"),
		}},
		Position:       42,
		BlockHash:      common.HexToHash("0xaa"),
		FeeSinkAddress: common.HexToAddress("0x5656565656565656565656565656565656565656"[:42]),
	}

	raw, err := statemachine.Marshal(msg)
	require.NoError(t, err)
	require.Equal(t, byte(statemachine.EnvelopeV4), raw[0])

	got, version, err := statemachine.Unmarshal(raw)
	require.NoError(t, err)
	require.Equal(t, statemachine.EnvelopeV4, version)
	require.Equal(t, msg.Position, got.Position)
	require.Equal(t, msg.BlockHash, got.BlockHash)
	require.Equal(t, msg.FeeSinkAddress, got.FeeSinkAddress)

	submit, ok := got.Kind.(statemachine.Submit)
	require.True(t, ok)
	require.Equal(t, msg.Kind.(statemachine.Submit).Normalized.Address, submit.Normalized.Address)
	require.Equal(t, "hello", string(submit.Normalized.Data))
}

func TestEnvelopeFallbackToOlderVersion(t *testing.T) {
	call := statemachine.RawMethodCall{Method: "set_owner", Args: []byte("newowner.near")}
	msg := statemachine.Message{Kind: call}

	raw, err := statemachine.Marshal(msg)
	require.NoError(t, err)

	// Truncate the envelope so it looks like a V1 writer produced it:
	// tag + kind bytes only, no position/blockhash/feesink tail.
	v1Raw := append([]byte{}, raw[:len(raw)-(8+32+20)]...)
	v1Raw[0] = byte(statemachine.EnvelopeV1)

	got, version, err := statemachine.Unmarshal(v1Raw)
	require.NoError(t, err)
	require.Equal(t, statemachine.EnvelopeV1, version)
	require.Zero(t, got.Position)
	require.Equal(t, call, got.Kind)
}

func TestEthReprSentinelForNonEVMVariant(t *testing.T) {
	k := statemachine.DeployErc20Token{Nep141Account: "token.near"}
	repr := k.EthRepr()
	require.True(t, repr.Address == (common.Address{}))
	require.Nil(t, repr.To)
	require.Equal(t, "deploy_erc20_token", string(repr.Data))
}

func TestEnvelopeRoundTripFtTransfer(t *testing.T) {
	kind := statemachine.FtTransfer{Sender: "alice.near", Receiver: "bob.near", Amount: big.NewInt(100)}
	raw, err := statemachine.Marshal(statemachine.Message{Kind: kind})
	require.NoError(t, err)

	got, _, err := statemachine.Unmarshal(raw)
	require.NoError(t, err)
	require.Equal(t, kind, got.Kind)
	require.Equal(t, statemachine.TagFtTransfer, got.Kind.Tag())
}

func TestEnvelopeRoundTripFinishDeposit(t *testing.T) {
	kind := statemachine.FinishDeposit{
		ProofKey:   "proof-key-1",
		NewOwnerID: "alice.near",
		Amount:     big.NewInt(5000),
		Fee:        big.NewInt(10),
		RelayerID:  "relayer.near",
	}
	raw, err := statemachine.Marshal(statemachine.Message{Kind: kind})
	require.NoError(t, err)

	got, _, err := statemachine.Unmarshal(raw)
	require.NoError(t, err)
	require.Equal(t, kind, got.Kind)
}

func TestEnvelopeRoundTripWithdraw(t *testing.T) {
	kind := statemachine.Withdraw{
		Recipient:           common.HexToAddress("0x1212121212121212121212121212121212121212"[:42]),
		EthCustodianAddress: common.HexToAddress("0x3434343434343434343434343434343434343434"[:42]),
		Amount:              big.NewInt(777),
	}
	raw, err := statemachine.Marshal(statemachine.Message{Kind: kind})
	require.NoError(t, err)

	got, _, err := statemachine.Unmarshal(raw)
	require.NoError(t, err)
	require.Equal(t, kind, got.Kind)
}

func TestEnvelopeRoundTripFactoryUpdate(t *testing.T) {
	kind := statemachine.FactoryUpdate{RouterCode: []byte{0x60, 0x80, 0x60, 0x40}, Version: 3}
	raw, err := statemachine.Marshal(statemachine.Message{Kind: kind})
	require.NoError(t, err)

	got, _, err := statemachine.Unmarshal(raw)
	require.NoError(t, err)
	require.Equal(t, kind, got.Kind)
}

func TestEnvelopeRoundTripSetOwner(t *testing.T) {
	kind := statemachine.SetOwner{NewOwner: "newowner.near"}
	raw, err := statemachine.Marshal(statemachine.Message{Kind: kind})
	require.NoError(t, err)

	got, _, err := statemachine.Unmarshal(raw)
	require.NoError(t, err)
	require.Equal(t, kind, got.Kind)
}

func TestEnvelopeRoundTripRegisterRelayer(t *testing.T) {
	kind := statemachine.RegisterRelayer{RelayerAddress: common.HexToAddress("0x5656565656565656565656565656565656565656"[:42])}
	raw, err := statemachine.Marshal(statemachine.Message{Kind: kind})
	require.NoError(t, err)

	got, _, err := statemachine.Unmarshal(raw)
	require.NoError(t, err)
	require.Equal(t, kind, got.Kind)
}
