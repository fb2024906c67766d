package cmd

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aurora-is-near/aurora-engine-go/internal/engine"
	"github.com/aurora-is-near/aurora-engine-go/internal/evmadapter"
	"github.com/aurora-is-near/aurora-engine-go/internal/localstore"
)

func newCallCmd(v *viper.Viper) *cobra.Command {
	var from, to, data, value string
	var gasLimit uint64

	cmd := &cobra.Command{
		Use:   "call",
		Short: "run a direct, unauthorized EVM call with no nonce bump",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := localstore.Open(v.GetString(flagStateFile))
			if err != nil {
				return fmt.Errorf("opening state file: %w", err)
			}

			adapter := evmadapter.New(store, chainIDFrom(v), v.GetString(flagEngineAccount))
			e := engine.New(adapter, newValueTransferInterpreter(adapter), gasPriceFrom(v))

			dataBytes, err := hex.DecodeString(strings.TrimPrefix(data, "0x"))
			if err != nil {
				return fmt.Errorf("decoding data hex: %w", err)
			}
			val, ok := new(big.Int).SetString(value, 10)
			if !ok {
				return fmt.Errorf("invalid value %q", value)
			}

			result, err := e.Call(common.HexToAddress(from), common.HexToAddress(to), dataBytes, val, gasLimit)
			if err != nil {
				return err
			}
			if err := store.Flush(); err != nil {
				return fmt.Errorf("flushing state file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "status=%v gas_used=%d output=%x\n", result.Status, result.GasUsed, result.Output)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "0x0000000000000000000000000000000000000000", "caller address")
	cmd.Flags().StringVar(&to, "to", "", "callee address")
	cmd.Flags().StringVar(&data, "data", "0x", "call data, hex-encoded")
	cmd.Flags().StringVar(&value, "value", "0", "wei value, decimal")
	cmd.Flags().Uint64Var(&gasLimit, "gas-limit", 100000, "gas limit")
	return cmd
}
