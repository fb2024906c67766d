package ethconnector

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/aurora-is-near/aurora-engine-go/internal/rlpcodec"
)

var (
	depositedToNearTopic = crypto.Keccak256Hash([]byte("DepositedToNear(address,string,uint256,uint256)"))
	depositedToEvmTopic  = crypto.Keccak256Hash([]byte("DepositedToEVM(address,address,uint256,uint256,address)"))
)

// LogEntry is the decoded shape of one Ethereum receipt log, as it
// appears RLP-encoded inside a deposit Proof's log_entry_data
// (address ‖ [topics] ‖ data, the standard Ethereum log RLP list).
type LogEntry struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// DecodeLogEntry RLP-decodes one Ethereum log entry.
func DecodeLogEntry(raw []byte) (LogEntry, error) {
	node, err := rlpcodec.Decode(raw)
	if err != nil {
		return LogEntry{}, fmt.Errorf("ethconnector: decode log entry: %w", err)
	}
	if !node.IsList || len(node.Elements) != 3 {
		return LogEntry{}, fmt.Errorf("ethconnector: log entry must be a 3-element list")
	}
	addr := common.BytesToAddress(node.Elements[0].Bytes)

	topicsNode := node.Elements[1]
	if !topicsNode.IsList {
		return LogEntry{}, fmt.Errorf("ethconnector: log entry topics must be a list")
	}
	topics := make([]common.Hash, len(topicsNode.Elements))
	for i, t := range topicsNode.Elements {
		topics[i] = common.BytesToHash(t.Bytes)
	}

	return LogEntry{Address: addr, Topics: topics, Data: node.Elements[2].Bytes}, nil
}

// DepositedToNear is the decoded DepositedToNear event: a NEAR-bound
// deposit of the bridged token identified by the sender's ERC-20
// address, amount and fee denominated in that token's smallest unit.
type DepositedToNear struct {
	CustodianAddress common.Address
	Sender           common.Address
	Recipient        string
	Amount           *big.Int
	Fee              *big.Int
}

// ParseDepositedToNear decodes a DepositedToNear log entry (spec §8
// scenario 2's "Deposited event"). sender is indexed (carried in
// topics[1]); nearRecipient/amount/fee are ABI-encoded in data with
// nearRecipient as the event's one dynamic field.
func ParseDepositedToNear(entry LogEntry) (DepositedToNear, error) {
	if len(entry.Topics) < 2 || entry.Topics[0] != depositedToNearTopic {
		return DepositedToNear{}, fmt.Errorf("ethconnector: not a DepositedToNear log")
	}
	sender := common.BytesToAddress(entry.Topics[1].Bytes())

	if len(entry.Data) < 96 {
		return DepositedToNear{}, fmt.Errorf("ethconnector: DepositedToNear data too short")
	}
	recipientOffset := new(big.Int).SetBytes(entry.Data[0:32]).Uint64()
	amount := new(big.Int).SetBytes(entry.Data[32:64])
	fee := new(big.Int).SetBytes(entry.Data[64:96])

	if uint64(len(entry.Data)) < recipientOffset+32 {
		return DepositedToNear{}, fmt.Errorf("ethconnector: DepositedToNear recipient offset out of range")
	}
	strLen := new(big.Int).SetBytes(entry.Data[recipientOffset : recipientOffset+32]).Uint64()
	start := recipientOffset + 32
	if uint64(len(entry.Data)) < start+strLen {
		return DepositedToNear{}, fmt.Errorf("ethconnector: DepositedToNear recipient string out of range")
	}
	recipient := string(entry.Data[start : start+strLen])

	return DepositedToNear{
		CustodianAddress: entry.Address,
		Sender:           sender,
		Recipient:        recipient,
		Amount:           amount,
		Fee:              fee,
	}, nil
}

// DepositedToEVM is the decoded DepositedToEVM event: an EVM-bound
// deposit, every field a static ABI type so no head/tail layout is
// needed.
type DepositedToEVM struct {
	CustodianAddress common.Address
	Sender           common.Address
	Recipient        common.Address
	Amount           *big.Int
	Fee              *big.Int
	RelayerEthAccount common.Address
}

// ParseDepositedToEVM decodes a DepositedToEVM log entry.
func ParseDepositedToEVM(entry LogEntry) (DepositedToEVM, error) {
	if len(entry.Topics) < 3 || entry.Topics[0] != depositedToEvmTopic {
		return DepositedToEVM{}, fmt.Errorf("ethconnector: not a DepositedToEVM log")
	}
	sender := common.BytesToAddress(entry.Topics[1].Bytes())
	relayer := common.BytesToAddress(entry.Topics[2].Bytes())

	if len(entry.Data) < 96 {
		return DepositedToEVM{}, fmt.Errorf("ethconnector: DepositedToEVM data too short")
	}
	recipient := common.BytesToAddress(entry.Data[0:32])
	amount := new(big.Int).SetBytes(entry.Data[32:64])
	fee := new(big.Int).SetBytes(entry.Data[64:96])

	return DepositedToEVM{
		CustodianAddress:  entry.Address,
		Sender:            sender,
		Recipient:         recipient,
		Amount:            amount,
		Fee:               fee,
		RelayerEthAccount: relayer,
	}, nil
}
