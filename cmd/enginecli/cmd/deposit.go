package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aurora-is-near/aurora-engine-go/internal/ethconnector"
	"github.com/aurora-is-near/aurora-engine-go/internal/ft"
	"github.com/aurora-is-near/aurora-engine-go/internal/localstore"
)

func newDepositCmd(v *viper.Viper) *cobra.Command {
	var logEntryHex, headerHex string
	var logIndex, receiptIndex uint64

	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "verify a deposit proof's dedup key and credit the recipient's NEP-141 balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			logEntryRaw, err := hex.DecodeString(strings.TrimPrefix(logEntryHex, "0x"))
			if err != nil {
				return fmt.Errorf("decoding log entry hex: %w", err)
			}
			headerRaw, err := hex.DecodeString(strings.TrimPrefix(headerHex, "0x"))
			if err != nil {
				return fmt.Errorf("decoding header hex: %w", err)
			}

			proof := ethconnector.Proof{
				LogIndex:     logIndex,
				LogEntryData: logEntryRaw,
				ReceiptIndex: receiptIndex,
				HeaderData:   headerRaw,
			}

			store, err := localstore.Open(v.GetString(flagStateFile))
			if err != nil {
				return fmt.Errorf("opening state file: %w", err)
			}

			verifier := ethconnector.NewVerifier(store)
			if verifier.IsUsed(proof) {
				return fmt.Errorf("proof already used: key=%s", proof.Key())
			}

			entry, err := ethconnector.DecodeLogEntry(logEntryRaw)
			if err != nil {
				return fmt.Errorf("decoding log entry: %w", err)
			}
			deposit, err := ethconnector.ParseDepositedToNear(entry)
			if err != nil {
				return fmt.Errorf("parsing DepositedToNear event: %w", err)
			}

			ledger := ft.New(store)
			if err := ledger.Deposit(deposit.Recipient, sdkmath.NewUintFromBigInt(deposit.Amount)); err != nil {
				return fmt.Errorf("crediting recipient: %w", err)
			}
			verifier.MarkUsed(proof)

			if err := store.Flush(); err != nil {
				return fmt.Errorf("flushing state file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "proof_key=%s recipient=%s amount=%s\n", proof.Key(), deposit.Recipient, deposit.Amount.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&logEntryHex, "log-entry", "", "RLP-encoded log entry, hex-encoded")
	cmd.Flags().StringVar(&headerHex, "header", "0x", "block header data, hex-encoded")
	cmd.Flags().Uint64Var(&logIndex, "log-index", 0, "log index within the receipt")
	cmd.Flags().Uint64Var(&receiptIndex, "receipt-index", 0, "receipt index within the block")
	_ = cmd.MarkFlagRequired("log-entry")
	return cmd
}
