package connector

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/tidwall/gjson"

	"github.com/aurora-is-near/aurora-engine-go/internal/abi/encoder"
)

// CannedName, CannedSymbol and CannedDecimals are the synthetic
// constructor arguments used for every `deploy_erc20_token` receipt (spec §4.5: "deploys a canned
// ERC-20 contract with a synthetic constructor (name='Empty',
// symbol='EMPTY', decimals=0, minter=self)").
const (
	CannedName     = "Empty"
	CannedSymbol   = "EMPTY"
	CannedDecimals = uint8(0)
)

// mintSelector is keccak("mint(address,uint256)")[:4], the call the
// engine synthesizes against a deployed token pair on an incoming
// ft_on_transfer (spec §4.5).
var mintSelector = encoder.Selector("mint(address,uint256)")

// EncodeMintCall builds the `mint(recipient, amount)` calldata the
// engine issues as an internal EVM call after decoding an
// ft_on_transfer payload.
func EncodeMintCall(recipient common.Address, amount *big.Int) []byte {
	out := make([]byte, 0, 4+32+32)
	out = append(out, mintSelector[:]...)
	out = append(out, leftPad32(recipient.Bytes())...)
	out = append(out, leftPad32(amount.Bytes())...)
	return out
}

func leftPad32(b []byte) []byte {
	w := make([]byte, 32)
	copy(w[32-len(b):], b)
	return w
}

// FtOnTransferPayload is the decoded `ft_on_transfer(sender, amount, msg)`
// callback argument set (spec §4.5, §6 "NEP-141-facing args ... are
// JSON").
type FtOnTransferPayload struct {
	Sender string
	Amount *big.Int
	Msg    string
}

// ErrShortMessage is returned when msg is too short to contain a
// 40-hex-char recipient address.
var ErrShortMessage = fmt.Errorf("connector: ft_on_transfer msg shorter than 40 hex chars")

// RecipientFromMsg extracts the receiving ERC-20 account from the
// first 40 hex characters of the transfer_call msg (spec §4.5:
// "the first 40 hex chars of msg are the receiving ERC-20 account").
func RecipientFromMsg(msg string) (common.Address, error) {
	msg = strings.TrimPrefix(msg, "0x")
	if len(msg) < 40 {
		return common.Address{}, ErrShortMessage
	}
	hexPart := msg[:40]
	b, err := decodeHex(hexPart)
	if err != nil {
		return common.Address{}, fmt.Errorf("connector: invalid recipient hex in msg: %w", err)
	}
	return common.BytesToAddress(b), nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	return hexDecodeStrict(s)
}

func hexDecodeStrict(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd-length hex string")
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		hi, err := hexNibble(s[i*2])
		if err != nil {
			return nil, err
		}
		lo, err := hexNibble(s[i*2+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex digit %q", c)
	}
}

// ErrMalformedFtOnTransfer is returned when the ft_on_transfer JSON
// payload is missing a required field.
var ErrMalformedFtOnTransfer = fmt.Errorf("connector: malformed ft_on_transfer payload")

// DecodeFtOnTransferPayload spot-reads the `sender_id`/`amount`/`msg`
// fields out of the raw NEP-141 `ft_on_transfer` JSON call args,
// without a full struct round-trip (spec §6 "Wire formats").
func DecodeFtOnTransferPayload(raw []byte) (FtOnTransferPayload, error) {
	if !gjson.ValidBytes(raw) {
		return FtOnTransferPayload{}, fmt.Errorf("%w: invalid json", ErrMalformedFtOnTransfer)
	}
	sender := gjson.GetBytes(raw, "sender_id")
	amount := gjson.GetBytes(raw, "amount")
	msg := gjson.GetBytes(raw, "msg")
	if !sender.Exists() || !amount.Exists() {
		return FtOnTransferPayload{}, fmt.Errorf("%w: missing sender_id or amount", ErrMalformedFtOnTransfer)
	}

	amountInt, ok := new(big.Int).SetString(amount.String(), 10)
	if !ok {
		return FtOnTransferPayload{}, fmt.Errorf("%w: amount %q is not a decimal integer", ErrMalformedFtOnTransfer, amount.String())
	}

	return FtOnTransferPayload{
		Sender: sender.String(),
		Amount: amountInt,
		Msg:    msg.String(),
	}, nil
}

// MintRouting is the fully decoded outcome of an incoming
// ft_on_transfer callback: the ERC-20 recipient, the amount to mint,
// and the calldata the engine issues against the token pair contract
// (spec §4.5 "the engine synthesizes a mint(recipient, amount) call").
type MintRouting struct {
	Recipient common.Address
	Amount    *big.Int
	Calldata  []byte
}

// RouteFtOnTransfer decodes a raw ft_on_transfer JSON payload and
// derives the mint call it authorizes: the recipient comes from the
// leading 40 hex chars of msg, the amount from the NEP-141 transfer
// itself.
func RouteFtOnTransfer(raw []byte) (MintRouting, error) {
	payload, err := DecodeFtOnTransferPayload(raw)
	if err != nil {
		return MintRouting{}, err
	}

	recipient, err := RecipientFromMsg(payload.Msg)
	if err != nil {
		return MintRouting{}, err
	}

	return MintRouting{
		Recipient: recipient,
		Amount:    payload.Amount,
		Calldata:  EncodeMintCall(recipient, payload.Amount),
	}, nil
}

// ConstructorArgs builds the ABI-encoded constructor arguments for the
// canned ERC-20 deploy (name, symbol, decimals, minter).
func ConstructorArgs(minter common.Address) ([]byte, error) {
	addrTy, _ := abi.NewType("address", "", nil)
	strTy, _ := abi.NewType("string", "", nil)
	uint8Ty, _ := abi.NewType("uint8", "", nil)
	args := abi.Arguments{
		{Type: strTy}, {Type: strTy}, {Type: uint8Ty}, {Type: addrTy},
	}
	return args.Pack(CannedName, CannedSymbol, CannedDecimals, minter)
}
