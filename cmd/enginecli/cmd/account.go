package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aurora-is-near/aurora-engine-go/internal/evmadapter"
	"github.com/aurora-is-near/aurora-engine-go/internal/localstore"
)

func newAccountCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account <address>",
		Short: "print an address's nonce, balance and generation from the local state file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := localstore.Open(v.GetString(flagStateFile))
			if err != nil {
				return fmt.Errorf("opening state file: %w", err)
			}

			adapter := evmadapter.New(store, chainIDFrom(v), v.GetString(flagEngineAccount))
			addr := common.HexToAddress(args[0])
			acc := adapter.Account(addr)

			fmt.Fprintf(cmd.OutOrStdout(), "nonce=%d balance=%s code_len=%d generation=%d\n",
				acc.Nonce, acc.Balance.String(), len(acc.Code), acc.Generation)
			return nil
		},
	}
	return cmd
}
