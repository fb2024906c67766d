package statemachine

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/aurora-is-near/aurora-engine-go/internal/engineerr"
	"github.com/aurora-is-near/aurora-engine-go/internal/txncodec"
)

// EnvelopeVersion numbers the persisted BorshableTransactionMessage
// shapes. Writers always use the highest version; readers decode the
// shape named by the envelope's leading version byte.
type EnvelopeVersion uint8

const (
	EnvelopeV1 EnvelopeVersion = iota + 1
	EnvelopeV2
	EnvelopeV3
	EnvelopeV4
	latestEnvelopeVersion = EnvelopeV4
)

// Message is the archived record of one receipt: its TransactionKind
// plus the position metadata needed to reconstruct replay order (spec
// §5 "transaction-replay ordering uses (block_hash, position)").
//
// Fields absent from older versions default to their zero value on
// read: V1 carries only Kind; V2 adds Position; V3 adds BlockHash; V4
// adds FeeSinkAddress, introduced for relayer fee accounting.
type Message struct {
	Kind           TransactionKind
	Position       uint64
	BlockHash      common.Hash
	FeeSinkAddress common.Address
}

// Marshal always writes the newest envelope shape (spec §4.7 "Writers
// always use the highest version").
func Marshal(m Message) ([]byte, error) {
	return marshalV4(m)
}

// Unmarshal reads the leading version byte and decodes the body with
// that version's shape only, leaving fields the version never carried
// at their zero value. A body that does not decode under its tagged
// version is an error; other versions' shapes are not tried.
func Unmarshal(raw []byte) (Message, EnvelopeVersion, error) {
	if len(raw) < 1 {
		return Message{}, 0, fmt.Errorf("statemachine: %w: empty envelope", engineerr.ErrBorshDecode)
	}
	version := EnvelopeVersion(raw[0])
	body := raw[1:]

	switch version {
	case EnvelopeV4:
		m, err := unmarshalV4(body)
		return m, EnvelopeV4, err
	case EnvelopeV3:
		m, err := unmarshalV3(body)
		return m, EnvelopeV3, err
	case EnvelopeV2:
		m, err := unmarshalV2(body)
		return m, EnvelopeV2, err
	case EnvelopeV1:
		m, err := unmarshalV1(body)
		return m, EnvelopeV1, err
	default:
		return Message{}, 0, fmt.Errorf("statemachine: %w: unknown envelope version %d", engineerr.ErrBorshDecode, version)
	}
}

func marshalV4(m Message) ([]byte, error) {
	body, err := marshalV3(m)
	if err != nil {
		return nil, err
	}
	body[0] = byte(EnvelopeV4)
	body = append(body, m.FeeSinkAddress.Bytes()...)
	return body, nil
}

func marshalV3(m Message) ([]byte, error) {
	body, err := marshalV2(m)
	if err != nil {
		return nil, err
	}
	body[0] = byte(EnvelopeV3)
	body = append(body, m.BlockHash.Bytes()...)
	return body, nil
}

func marshalV2(m Message) ([]byte, error) {
	body, err := marshalV1(m)
	if err != nil {
		return nil, err
	}
	body[0] = byte(EnvelopeV2)
	posBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(posBuf, m.Position)
	body = append(body, posBuf...)
	return body, nil
}

func marshalV1(m Message) ([]byte, error) {
	kindBytes, err := marshalKind(m.Kind)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 1, 1+len(kindBytes))
	out[0] = byte(EnvelopeV1)
	out = append(out, kindBytes...)
	return out, nil
}

func unmarshalV1(body []byte) (Message, error) {
	kind, _, err := unmarshalKind(body)
	if err != nil {
		return Message{}, err
	}
	return Message{Kind: kind}, nil
}

func unmarshalV2(body []byte) (Message, error) {
	kind, rest, err := unmarshalKind(body)
	if err != nil {
		return Message{}, err
	}
	if len(rest) < 8 {
		return Message{}, fmt.Errorf("statemachine: %w: v2 envelope missing position", engineerr.ErrBorshDecode)
	}
	return Message{Kind: kind, Position: binary.BigEndian.Uint64(rest[:8])}, nil
}

func unmarshalV3(body []byte) (Message, error) {
	kind, rest, err := unmarshalKind(body)
	if err != nil {
		return Message{}, err
	}
	if len(rest) < 8+32 {
		return Message{}, fmt.Errorf("statemachine: %w: v3 envelope missing block hash", engineerr.ErrBorshDecode)
	}
	return Message{
		Kind:      kind,
		Position:  binary.BigEndian.Uint64(rest[:8]),
		BlockHash: common.BytesToHash(rest[8:40]),
	}, nil
}

func unmarshalV4(body []byte) (Message, error) {
	kind, rest, err := unmarshalKind(body)
	if err != nil {
		return Message{}, err
	}
	if len(rest) < 8+32+20 {
		return Message{}, fmt.Errorf("statemachine: %w: v4 envelope missing fee sink address", engineerr.ErrBorshDecode)
	}
	return Message{
		Kind:           kind,
		Position:       binary.BigEndian.Uint64(rest[:8]),
		BlockHash:      common.BytesToHash(rest[8:40]),
		FeeSinkAddress: common.BytesToAddress(rest[40:60]),
	}, nil
}

// marshalKind writes tag(1B) ‖ variant-specific payload. Each variant's
// payload is itself length-prefixed fields, mirroring the fixed+LP
// convention used throughout the engine's other binary envelopes.
func marshalKind(k TransactionKind) ([]byte, error) {
	switch v := k.(type) {
	case Submit:
		return append([]byte{byte(TagSubmit)}, encodeNormalized(v.Normalized)...), nil
	case Call:
		out := []byte{byte(TagCall)}
		out = append(out, v.From.Bytes()...)
		out = append(out, v.To.Bytes()...)
		out = append(out, lpBytes(bigBytes(v.Value))...)
		out = append(out, lpBytes(v.Data)...)
		return out, nil
	case DeployCode:
		out := []byte{byte(TagDeployCode)}
		out = append(out, v.From.Bytes()...)
		out = append(out, lpBytes(v.Code)...)
		return out, nil
	case DeployErc20Token:
		return append([]byte{byte(TagDeployErc20Token)}, lpBytes([]byte(v.Nep141Account))...), nil
	case FtOnTransfer:
		out := []byte{byte(TagFtOnTransfer)}
		out = append(out, lpBytes([]byte(v.Sender))...)
		out = append(out, lpBytes(bigBytes(v.Amount))...)
		out = append(out, lpBytes([]byte(v.Msg))...)
		return out, nil
	case Deposit:
		return append([]byte{byte(TagDeposit)}, lpBytes([]byte(v.ProofKey))...), nil
	case ExitToNear:
		out := []byte{byte(TagExitToNear)}
		out = append(out, v.RefundRecipient.Bytes()...)
		out = append(out, lpBytes(bigBytes(v.RefundAmount))...)
		return out, nil
	case FactoryUpdateAddressVersion:
		out := []byte{byte(TagFactoryUpdateAddressVersion)}
		out = append(out, v.Address.Bytes()...)
		verBuf := make([]byte, 4)
		binary.BigEndian.PutUint32(verBuf, v.Version)
		out = append(out, verBuf...)
		return out, nil
	case RawMethodCall:
		out := []byte{byte(TagRawMethodCall)}
		out = append(out, lpBytes([]byte(v.Method))...)
		out = append(out, lpBytes(v.Args)...)
		return out, nil
	case FtTransfer:
		out := []byte{byte(TagFtTransfer)}
		out = append(out, lpBytes([]byte(v.Sender))...)
		out = append(out, lpBytes([]byte(v.Receiver))...)
		out = append(out, lpBytes(bigBytes(v.Amount))...)
		return out, nil
	case FinishDeposit:
		out := []byte{byte(TagFinishDeposit)}
		out = append(out, lpBytes([]byte(v.ProofKey))...)
		out = append(out, lpBytes([]byte(v.NewOwnerID))...)
		out = append(out, lpBytes(bigBytes(v.Amount))...)
		out = append(out, lpBytes(bigBytes(v.Fee))...)
		out = append(out, lpBytes([]byte(v.RelayerID))...)
		return out, nil
	case Withdraw:
		out := []byte{byte(TagWithdraw)}
		out = append(out, v.Recipient.Bytes()...)
		out = append(out, v.EthCustodianAddress.Bytes()...)
		out = append(out, lpBytes(bigBytes(v.Amount))...)
		return out, nil
	case FactoryUpdate:
		out := []byte{byte(TagFactoryUpdate)}
		verBuf := make([]byte, 4)
		binary.BigEndian.PutUint32(verBuf, v.Version)
		out = append(out, verBuf...)
		out = append(out, lpBytes(v.RouterCode)...)
		return out, nil
	case SetOwner:
		return append([]byte{byte(TagSetOwner)}, lpBytes([]byte(v.NewOwner))...), nil
	case RegisterRelayer:
		out := []byte{byte(TagRegisterRelayer)}
		out = append(out, v.RelayerAddress.Bytes()...)
		return out, nil
	default:
		return nil, fmt.Errorf("statemachine: %w: unmarshalable TransactionKind %T", engineerr.ErrBorshDecode, k)
	}
}

func unmarshalKind(body []byte) (TransactionKind, []byte, error) {
	if len(body) < 1 {
		return nil, nil, fmt.Errorf("statemachine: %w: empty kind tag", engineerr.ErrBorshDecode)
	}
	tag := Tag(body[0])
	r := body[1:]

	switch tag {
	case TagSubmit:
		n, rest, err := decodeNormalized(r)
		return Submit{Normalized: n}, rest, err
	case TagCall:
		if len(r) < 40 {
			return nil, nil, fmt.Errorf("statemachine: %w: truncated Call", engineerr.ErrBorshDecode)
		}
		from := common.BytesToAddress(r[0:20])
		to := common.BytesToAddress(r[20:40])
		valueBytes, r2, err := readLP(r[40:])
		if err != nil {
			return nil, nil, err
		}
		data, rest, err := readLP(r2)
		if err != nil {
			return nil, nil, err
		}
		return Call{From: from, To: to, Value: new(big.Int).SetBytes(valueBytes), Data: data}, rest, nil
	case TagDeployCode:
		if len(r) < 20 {
			return nil, nil, fmt.Errorf("statemachine: %w: truncated DeployCode", engineerr.ErrBorshDecode)
		}
		from := common.BytesToAddress(r[0:20])
		code, rest, err := readLP(r[20:])
		if err != nil {
			return nil, nil, err
		}
		return DeployCode{From: from, Code: code}, rest, nil
	case TagDeployErc20Token:
		acct, rest, err := readLP(r)
		if err != nil {
			return nil, nil, err
		}
		return DeployErc20Token{Nep141Account: string(acct)}, rest, nil
	case TagFtOnTransfer:
		sender, r2, err := readLP(r)
		if err != nil {
			return nil, nil, err
		}
		amount, r3, err := readLP(r2)
		if err != nil {
			return nil, nil, err
		}
		msg, rest, err := readLP(r3)
		if err != nil {
			return nil, nil, err
		}
		return FtOnTransfer{Sender: string(sender), Amount: new(big.Int).SetBytes(amount), Msg: string(msg)}, rest, nil
	case TagDeposit:
		key, rest, err := readLP(r)
		if err != nil {
			return nil, nil, err
		}
		return Deposit{ProofKey: string(key)}, rest, nil
	case TagExitToNear:
		if len(r) < 20 {
			return nil, nil, fmt.Errorf("statemachine: %w: truncated ExitToNear", engineerr.ErrBorshDecode)
		}
		recipient := common.BytesToAddress(r[0:20])
		amount, rest, err := readLP(r[20:])
		if err != nil {
			return nil, nil, err
		}
		var refund *big.Int
		if len(amount) > 0 {
			refund = new(big.Int).SetBytes(amount)
		}
		return ExitToNear{RefundRecipient: recipient, RefundAmount: refund}, rest, nil
	case TagFactoryUpdateAddressVersion:
		if len(r) < 24 {
			return nil, nil, fmt.Errorf("statemachine: %w: truncated FactoryUpdateAddressVersion", engineerr.ErrBorshDecode)
		}
		addr := common.BytesToAddress(r[0:20])
		version := binary.BigEndian.Uint32(r[20:24])
		return FactoryUpdateAddressVersion{Address: addr, Version: version}, r[24:], nil
	case TagRawMethodCall:
		method, r2, err := readLP(r)
		if err != nil {
			return nil, nil, err
		}
		args, rest, err := readLP(r2)
		if err != nil {
			return nil, nil, err
		}
		return RawMethodCall{Method: string(method), Args: args}, rest, nil
	case TagFtTransfer:
		sender, r2, err := readLP(r)
		if err != nil {
			return nil, nil, err
		}
		receiver, r3, err := readLP(r2)
		if err != nil {
			return nil, nil, err
		}
		amount, rest, err := readLP(r3)
		if err != nil {
			return nil, nil, err
		}
		return FtTransfer{Sender: string(sender), Receiver: string(receiver), Amount: new(big.Int).SetBytes(amount)}, rest, nil
	case TagFinishDeposit:
		proofKey, r2, err := readLP(r)
		if err != nil {
			return nil, nil, err
		}
		newOwner, r3, err := readLP(r2)
		if err != nil {
			return nil, nil, err
		}
		amount, r4, err := readLP(r3)
		if err != nil {
			return nil, nil, err
		}
		fee, r5, err := readLP(r4)
		if err != nil {
			return nil, nil, err
		}
		relayerID, rest, err := readLP(r5)
		if err != nil {
			return nil, nil, err
		}
		return FinishDeposit{
			ProofKey:   string(proofKey),
			NewOwnerID: string(newOwner),
			Amount:     new(big.Int).SetBytes(amount),
			Fee:        new(big.Int).SetBytes(fee),
			RelayerID:  string(relayerID),
		}, rest, nil
	case TagWithdraw:
		if len(r) < 40 {
			return nil, nil, fmt.Errorf("statemachine: %w: truncated Withdraw", engineerr.ErrBorshDecode)
		}
		recipient := common.BytesToAddress(r[0:20])
		custodian := common.BytesToAddress(r[20:40])
		amount, rest, err := readLP(r[40:])
		if err != nil {
			return nil, nil, err
		}
		return Withdraw{Recipient: recipient, EthCustodianAddress: custodian, Amount: new(big.Int).SetBytes(amount)}, rest, nil
	case TagFactoryUpdate:
		if len(r) < 4 {
			return nil, nil, fmt.Errorf("statemachine: %w: truncated FactoryUpdate", engineerr.ErrBorshDecode)
		}
		version := binary.BigEndian.Uint32(r[0:4])
		code, rest, err := readLP(r[4:])
		if err != nil {
			return nil, nil, err
		}
		return FactoryUpdate{RouterCode: code, Version: version}, rest, nil
	case TagSetOwner:
		newOwner, rest, err := readLP(r)
		if err != nil {
			return nil, nil, err
		}
		return SetOwner{NewOwner: string(newOwner)}, rest, nil
	case TagRegisterRelayer:
		if len(r) < 20 {
			return nil, nil, fmt.Errorf("statemachine: %w: truncated RegisterRelayer", engineerr.ErrBorshDecode)
		}
		return RegisterRelayer{RelayerAddress: common.BytesToAddress(r[0:20])}, r[20:], nil
	default:
		return RawMethodCall{Method: "unknown"}, nil, nil
	}
}

func lpBytes(b []byte) []byte {
	out := make([]byte, 4+len(b))
	binary.BigEndian.PutUint32(out, uint32(len(b)))
	copy(out[4:], b)
	return out
}

func readLP(b []byte) (field, rest []byte, err error) {
	if len(b) < 4 {
		return nil, nil, fmt.Errorf("statemachine: %w: truncated length prefix", engineerr.ErrBorshDecode)
	}
	n := binary.BigEndian.Uint32(b)
	b = b[4:]
	if uint32(len(b)) < n {
		return nil, nil, fmt.Errorf("statemachine: %w: truncated field", engineerr.ErrBorshDecode)
	}
	return b[:n], b[n:], nil
}

func bigBytes(v *big.Int) []byte {
	if v == nil {
		return nil
	}
	return v.Bytes()
}

// encodeNormalized archives the fields an indexer needs to rebuild a
// NormalizedEthTransaction. The access list is intentionally dropped —
// replay only needs the transaction's economic and call-data shape,
// and EIP-2930 access lists are a gas-metering hint the interpreter
// recomputes rather than trusts from storage.
func encodeNormalized(n txncodec.NormalizedEthTransaction) []byte {
	out := n.Address.Bytes()
	out = append(out, lpBytes(bigBytes(n.ChainID))...)
	nonceBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(nonceBuf, n.Nonce)
	out = append(out, nonceBuf...)
	gasBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(gasBuf, n.GasLimit)
	out = append(out, gasBuf...)
	out = append(out, lpBytes(bigBytes(n.MaxPriorityFeePerGas))...)
	out = append(out, lpBytes(bigBytes(n.MaxFeePerGas))...)
	if n.To != nil {
		out = append(out, 1)
		out = append(out, n.To.Bytes()...)
	} else {
		out = append(out, 0)
	}
	out = append(out, lpBytes(bigBytes(n.Value))...)
	out = append(out, lpBytes(n.Data)...)
	return out
}

func decodeNormalized(r []byte) (txncodec.NormalizedEthTransaction, []byte, error) {
	if len(r) < 20 {
		return txncodec.NormalizedEthTransaction{}, nil, fmt.Errorf("statemachine: %w: truncated NormalizedEthTransaction", engineerr.ErrBorshDecode)
	}
	addr := common.BytesToAddress(r[0:20])
	r = r[20:]

	chainIDBytes, r, err := readLP(r)
	if err != nil {
		return txncodec.NormalizedEthTransaction{}, nil, err
	}
	var chainID *big.Int
	if len(chainIDBytes) > 0 {
		chainID = new(big.Int).SetBytes(chainIDBytes)
	}

	if len(r) < 16 {
		return txncodec.NormalizedEthTransaction{}, nil, fmt.Errorf("statemachine: %w: truncated nonce/gas", engineerr.ErrBorshDecode)
	}
	nonce := binary.BigEndian.Uint64(r[0:8])
	gasLimit := binary.BigEndian.Uint64(r[8:16])
	r = r[16:]

	priorityBytes, r, err := readLP(r)
	if err != nil {
		return txncodec.NormalizedEthTransaction{}, nil, err
	}
	feeBytes, r, err := readLP(r)
	if err != nil {
		return txncodec.NormalizedEthTransaction{}, nil, err
	}

	if len(r) < 1 {
		return txncodec.NormalizedEthTransaction{}, nil, fmt.Errorf("statemachine: %w: truncated to-presence flag", engineerr.ErrBorshDecode)
	}
	hasTo := r[0] == 1
	r = r[1:]
	var to *common.Address
	if hasTo {
		if len(r) < 20 {
			return txncodec.NormalizedEthTransaction{}, nil, fmt.Errorf("statemachine: %w: truncated to address", engineerr.ErrBorshDecode)
		}
		a := common.BytesToAddress(r[0:20])
		to = &a
		r = r[20:]
	}

	valueBytes, r, err := readLP(r)
	if err != nil {
		return txncodec.NormalizedEthTransaction{}, nil, err
	}
	data, rest, err := readLP(r)
	if err != nil {
		return txncodec.NormalizedEthTransaction{}, nil, err
	}

	return txncodec.NormalizedEthTransaction{
		Address:              addr,
		ChainID:              chainID,
		Nonce:                nonce,
		GasLimit:             gasLimit,
		MaxPriorityFeePerGas: bigOrNil(priorityBytes),
		MaxFeePerGas:         bigOrNil(feeBytes),
		To:                   to,
		Value:                bigOrNil(valueBytes),
		Data:                 data,
	}, rest, nil
}

func bigOrNil(b []byte) *big.Int {
	if len(b) == 0 {
		return nil
	}
	return new(big.Int).SetBytes(b)
}
