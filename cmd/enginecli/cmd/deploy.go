package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aurora-is-near/aurora-engine-go/internal/engine"
	"github.com/aurora-is-near/aurora-engine-go/internal/evmadapter"
	"github.com/aurora-is-near/aurora-engine-go/internal/localstore"
)

func newDeployCodeCmd(v *viper.Viper) *cobra.Command {
	var from, code string
	var nonce, gasLimit uint64

	cmd := &cobra.Command{
		Use:   "deploy-code",
		Short: "deploy raw bytecode as a contract-creation call",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := localstore.Open(v.GetString(flagStateFile))
			if err != nil {
				return fmt.Errorf("opening state file: %w", err)
			}

			adapter := evmadapter.New(store, chainIDFrom(v), v.GetString(flagEngineAccount))
			e := engine.New(adapter, newValueTransferInterpreter(adapter), gasPriceFrom(v))

			codeBytes, err := hex.DecodeString(strings.TrimPrefix(code, "0x"))
			if err != nil {
				return fmt.Errorf("decoding code hex: %w", err)
			}

			result, err := e.DeployCode(common.HexToAddress(from), codeBytes, nonce, gasLimit)
			if err != nil {
				return err
			}
			if err := store.Flush(); err != nil {
				return fmt.Errorf("flushing state file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "status=%v gas_used=%d\n", result.Status, result.GasUsed)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "0x0000000000000000000000000000000000000000", "deployer address")
	cmd.Flags().StringVar(&code, "code", "0x", "contract bytecode, hex-encoded")
	cmd.Flags().Uint64Var(&nonce, "nonce", 0, "deployer nonce")
	cmd.Flags().Uint64Var(&gasLimit, "gas-limit", 1000000, "gas limit")
	return cmd
}
