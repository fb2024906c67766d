package exitprecompiles

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/aurora-is-near/aurora-engine-go/internal/connector"
	"github.com/aurora-is-near/aurora-engine-go/internal/engineerr"
	"github.com/aurora-is-near/aurora-engine-go/internal/hostio"
	"github.com/aurora-is-near/aurora-engine-go/internal/precompile"
)

// ExitToEthereum is the stateful precompile at
// keccak("exitToEthereum")[12:] (spec §4.5). Unlike exitToNear it never
// leaves the EVM's own address space: the withdrawal is recorded so an
// off-chain relayer can later prove it against the host chain's
// receipts, so the only host-side effect is an eth-connector
// `withdraw` call that locks the funds and records the proof key.
type ExitToEthereum struct {
	bridge    *connector.Bridge
	scheduler hostio.PromiseScheduler
}

// NewExitToEthereum constructs the exitToEthereum precompile.
func NewExitToEthereum(bridge *connector.Bridge, scheduler hostio.PromiseScheduler) *ExitToEthereum {
	return &ExitToEthereum{bridge: bridge, scheduler: scheduler}
}

func (p *ExitToEthereum) Address() common.Address { return connector.ExitToEthereumAddress }

func (p *ExitToEthereum) RequiredGas(input []byte) uint64 {
	return 16000 + uint64(len(input))*10
}

func (p *ExitToEthereum) Run(ctx precompile.CallContext) ([]byte, error) {
	if ctx.ReadOnly {
		return nil, engineerr.ErrInvalidInStatic
	}

	in, err := connector.DecodeExitToEthereum(ctx.Input)
	if err != nil {
		return nil, err
	}

	var receiver string

	switch in.Flag {
	case connector.ExitFlagEth:
		receiver = "aurora" // self; the eth-connector lives on the engine's own account
	case connector.ExitFlagErc20:
		if ctx.Value != nil && ctx.Value.Sign() != 0 {
			return nil, fmt.Errorf("exitprecompiles: %w: attached value must be zero in the ERC-20 branch", engineerr.ErrNotAllowed)
		}
		nep141, ok := p.bridge.Nep141FromErc20(ctx.Caller)
		if !ok {
			return nil, fmt.Errorf("exitprecompiles: no NEP-141 pair registered for %s", ctx.Caller)
		}
		receiver = nep141
	default:
		return nil, fmt.Errorf("exitprecompiles: %w", connector.ErrUnknownFlag)
	}

	promise := hostio.Promise{
		Receiver: receiver,
		Actions: []hostio.Action{{
			Kind:   hostio.ActionFunctionCall,
			Method: "withdraw",
			Args:   withdrawArgsJSON(in.Recipient, in.Amount, ctx.Value),
		}},
	}
	if _, err := p.scheduler.Schedule(promise); err != nil {
		return nil, fmt.Errorf("exitprecompiles: schedule withdraw: %w", err)
	}

	return nil, nil
}

func withdrawArgsJSON(recipient common.Address, amount, attachedValue *big.Int) []byte {
	amt := "0"
	if amount != nil {
		amt = amount.String()
	} else if attachedValue != nil {
		amt = attachedValue.String()
	}
	return []byte(fmt.Sprintf(`{"recipient_address":%q,"amount":%q}`, recipient.Hex(), amt))
}
