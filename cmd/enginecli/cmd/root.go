// Package cmd implements enginecli, a standalone command-line front
// end for replaying engine transactions against a local state file
// (spec §4.7 "TransactionKind ... for standalone replay"), without a
// NEAR host runtime behind it.
package cmd

import (
	"math/big"
	"os"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagStateFile     = "state-file"
	flagChainID       = "chain-id"
	flagEngineAccount = "engine-account"
	flagGasPrice      = "gas-price"
)

// NewRootCmd builds the enginecli root command.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "enginecli",
		Short: "replay and inspect engine transactions against a local state file",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
			return v.BindPFlags(cmd.Flags())
		},
	}

	rootCmd.PersistentFlags().String(flagStateFile, "engine-state.json", "path to the local JSON state snapshot")
	rootCmd.PersistentFlags().Int64(flagChainID, 1313161555, "chain id the adapter's block-hash oracle mixes in")
	rootCmd.PersistentFlags().String(flagEngineAccount, "aurora", "host account name the engine executes on behalf of")
	rootCmd.PersistentFlags().Int64(flagGasPrice, 0, "wei per gas unit charged by engine-submit")

	rootCmd.AddCommand(
		newSubmitCmd(v),
		newCallCmd(v),
		newDeployCodeCmd(v),
		newDepositCmd(v),
		newAccountCmd(v),
	)

	return rootCmd
}

func newLogger() log.Logger {
	return log.NewLogger(os.Stderr)
}

func chainIDFrom(v *viper.Viper) *big.Int {
	return big.NewInt(v.GetInt64(flagChainID))
}

func gasPriceFrom(v *viper.Viper) *big.Int {
	return big.NewInt(v.GetInt64(flagGasPrice))
}
