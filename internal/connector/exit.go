package connector

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ExitToNearAddress and ExitToEthereumAddress are the precompile
// addresses keccak("exitToNear")[12:] and keccak("exitToEthereum")[12:]
// (spec §4.5).
var (
	ExitToNearAddress      = common.BytesToAddress(crypto.Keccak256([]byte("exitToNear"))[12:])
	ExitToEthereumAddress  = common.BytesToAddress(crypto.Keccak256([]byte("exitToEthereum"))[12:])
)

// ExitFlag selects the body layout of an exit precompile call.
type ExitFlag byte

const (
	// ExitFlagEth means the exit moves the engine's own pooled native
	// balance (ETH exit); body carries only the recipient.
	ExitFlagEth ExitFlag = 0x00
	// ExitFlagErc20 means the exit burns an ERC-20 balance; body
	// additionally carries an explicit amount.
	ExitFlagErc20 ExitFlag = 0x01
)

// ExitToNearInput is the decoded `flag(1B) ‖ body` input to the
// exitToNear precompile (spec §4.5).
type ExitToNearInput struct {
	Flag             ExitFlag
	Amount           *big.Int // nil when Flag == ExitFlagEth (amount comes from attached EVM value)
	RecipientAccount string
}

// ErrEmptyInput and ErrUnknownFlag cover malformed exit precompile
// calls.
var (
	ErrEmptyInput   = fmt.Errorf("connector: exit precompile input is empty")
	ErrUnknownFlag  = fmt.Errorf("connector: unknown exit flag")
)

// DecodeExitToNear parses the exitToNear precompile input.
func DecodeExitToNear(input []byte) (ExitToNearInput, error) {
	if len(input) < 1 {
		return ExitToNearInput{}, ErrEmptyInput
	}
	flag := ExitFlag(input[0])
	body := input[1:]
	switch flag {
	case ExitFlagEth:
		return ExitToNearInput{Flag: flag, RecipientAccount: string(body)}, nil
	case ExitFlagErc20:
		if len(body) < 32 {
			return ExitToNearInput{}, fmt.Errorf("connector: exitToNear erc20 body too short: %d bytes", len(body))
		}
		amount := new(big.Int).SetBytes(body[:32])
		return ExitToNearInput{Flag: flag, Amount: amount, RecipientAccount: string(body[32:])}, nil
	default:
		return ExitToNearInput{}, fmt.Errorf("%w: %d", ErrUnknownFlag, flag)
	}
}

// ExitToEthereumInput is the decoded input to the exitToEthereum
// precompile, symmetric to ExitToNearInput but with an Ethereum
// recipient address instead of a host account id (spec §4.5 "Exit to
// Ethereum").
type ExitToEthereumInput struct {
	Flag      ExitFlag
	Amount    *big.Int
	Recipient common.Address
}

// DecodeExitToEthereum parses the exitToEthereum precompile input.
func DecodeExitToEthereum(input []byte) (ExitToEthereumInput, error) {
	if len(input) < 1 {
		return ExitToEthereumInput{}, ErrEmptyInput
	}
	flag := ExitFlag(input[0])
	body := input[1:]
	switch flag {
	case ExitFlagEth:
		if len(body) != common.AddressLength {
			return ExitToEthereumInput{}, fmt.Errorf("connector: exitToEthereum eth body must be 20 bytes, got %d", len(body))
		}
		return ExitToEthereumInput{Flag: flag, Recipient: common.BytesToAddress(body)}, nil
	case ExitFlagErc20:
		if len(body) < 32+common.AddressLength {
			return ExitToEthereumInput{}, fmt.Errorf("connector: exitToEthereum erc20 body too short: %d bytes", len(body))
		}
		amount := new(big.Int).SetBytes(body[:32])
		recipient := common.BytesToAddress(body[32 : 32+common.AddressLength])
		return ExitToEthereumInput{Flag: flag, Amount: amount, Recipient: recipient}, nil
	default:
		return ExitToEthereumInput{}, fmt.Errorf("%w: %d", ErrUnknownFlag, flag)
	}
}
