package exitprecompiles

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/aurora-is-near/aurora-engine-go/internal/connector"
	"github.com/aurora-is-near/aurora-engine-go/internal/engineerr"
	"github.com/aurora-is-near/aurora-engine-go/internal/hostio"
)

// RefundRecipient is whatever the engine's exit path needs re-credited
// if the scheduled promise ultimately failed.
type RefundRecipient struct {
	Erc20     common.Address // zero value means the native ETH branch
	Recipient common.Address
	Amount    *big.Int
}

// EVMCaller re-enters the EVM to run the refund mint/credit call. The
// engine-submit package supplies the concrete implementation; kept as
// an interface here to avoid a dependency cycle.
type EVMCaller interface {
	Call(to common.Address, data []byte, value *big.Int) ([]byte, error)
}

// OnPromiseResult is the callback attached to every exit promise. It
// must run unconditionally after the scheduled promise resolves — on
// success it is a no-op; on failure it re-mints the burned ERC-20
// amount (or re-credits the pooled native balance) so the exit never
// loses funds. A failure in the refund itself is fatal, because there
// is no further recovery path (spec §6 ERR_REFUND_FAILURE; spec §4.5
// "the refund is re-attempted exactly once, and its own failure is
// unconditionally fatal").
func OnPromiseResult(scheduler hostio.PromiseScheduler, evm EVMCaller, r RefundRecipient) error {
	ok, _, failed := scheduler.PromiseResult(0)
	if ok && !failed {
		return nil
	}

	var err error
	if r.Erc20 == (common.Address{}) {
		_, err = evm.Call(r.Recipient, nil, r.Amount)
	} else {
		_, err = evm.Call(r.Erc20, connector.EncodeMintCall(r.Recipient, r.Amount), nil)
	}
	if err != nil {
		return fmt.Errorf("exitprecompiles: %w: %v", engineerr.ErrRefundFailure, err)
	}
	return nil
}
