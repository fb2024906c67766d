// Package exitprecompiles implements exitToNear and exitToEthereum:
// the precompiles that withdraw nETH/ERC-20 balances back out of the
// EVM, by enqueuing a host promise (spec §4.5 "Exit to Near" / "Exit
// to Ethereum").
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

// ExitToNear is the stateful precompile at
// keccak("exitToNear")[12:] (spec §4.5).
type ExitToNear struct {
	bridge       *connector.Bridge
	scheduler    hostio.PromiseScheduler
	engineAccount string
}

// NewExitToNear constructs the exitToNear precompile.
func NewExitToNear(bridge *connector.Bridge, scheduler hostio.PromiseScheduler, engineAccount string) *ExitToNear {
	return &ExitToNear{bridge: bridge, scheduler: scheduler, engineAccount: engineAccount}
}

func (p *ExitToNear) Address() common.Address { return connector.ExitToNearAddress }

func (p *ExitToNear) RequiredGas(input []byte) uint64 {
	return 16000 + uint64(len(input))*10
}

// Run decodes the exit input, validates the static-context and
// zero-attached-value rules, and enqueues an ft_transfer promise
// targeting either the engine's own pooled NEP-141 account (ETH exit)
// or the paired NEP-141 account of the calling ERC-20 contract (spec
// §4.5).
func (p *ExitToNear) Run(ctx precompile.CallContext) ([]byte, error) {
	if ctx.ReadOnly {
		return nil, engineerr.ErrInvalidInStatic
	}

	in, err := connector.DecodeExitToNear(ctx.Input)
	if err != nil {
		return nil, err
	}

	var (
		target string
		amount *big.Int
	)

	switch in.Flag {
	case connector.ExitFlagEth:
		target = p.engineAccount
		amount = ctx.Value
	case connector.ExitFlagErc20:
		if ctx.Value != nil && ctx.Value.Sign() != 0 {
			return nil, fmt.Errorf("exitprecompiles: %w: attached value must be zero in the ERC-20 branch", engineerr.ErrNotAllowed)
		}
		nep141, ok := p.bridge.Nep141FromErc20(ctx.Caller)
		if !ok {
			return nil, fmt.Errorf("exitprecompiles: no NEP-141 pair registered for %s", ctx.Caller)
		}
		target = nep141
		amount = in.Amount
	default:
		return nil, fmt.Errorf("exitprecompiles: %w", connector.ErrUnknownFlag)
	}

	promise := hostio.Promise{
		Receiver: target,
		Actions: []hostio.Action{{
			Kind:   hostio.ActionFunctionCall,
			Method: "ft_transfer",
			Args:   ftTransferArgsJSON(in.RecipientAccount, amount),
		}},
	}
	if _, err := p.scheduler.Schedule(promise); err != nil {
		return nil, fmt.Errorf("exitprecompiles: schedule ft_transfer: %w", err)
	}

	return nil, nil
}

func ftTransferArgsJSON(recipient string, amount *big.Int) []byte {
	amt := "0"
	if amount != nil {
		amt = amount.String()
	}
	return []byte(fmt.Sprintf(`{"receiver_id":%q,"amount":%q}`, recipient, amt))
}
