package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aurora-is-near/aurora-engine-go/internal/engine"
	"github.com/aurora-is-near/aurora-engine-go/internal/evmadapter"
	"github.com/aurora-is-near/aurora-engine-go/internal/localstore"
	"github.com/aurora-is-near/aurora-engine-go/internal/txncodec"
)

func newSubmitCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <rlp-hex>",
		Short: "decode, recover and execute a signed Ethereum transaction against the local state file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
			if err != nil {
				return fmt.Errorf("decoding rlp hex: %w", err)
			}

			chainID := chainIDFrom(v)
			tx, err := txncodec.Decode(raw, chainID)
			if err != nil {
				return fmt.Errorf("decoding transaction: %w", err)
			}

			store, err := localstore.Open(v.GetString(flagStateFile))
			if err != nil {
				return fmt.Errorf("opening state file: %w", err)
			}

			adapter := evmadapter.New(store, chainID, v.GetString(flagEngineAccount))
			e := engine.New(adapter, newValueTransferInterpreter(adapter), gasPriceFrom(v))

			result, err := e.Submit(tx)
			if err != nil {
				return err
			}
			if err := store.Flush(); err != nil {
				return fmt.Errorf("flushing state file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "status=%v gas_used=%d nonce=%d\n", result.Status, result.GasUsed, adapter.Nonce(tx.Address))
			return nil
		},
	}
	return cmd
}
