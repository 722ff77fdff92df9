package cmd

import (
	"github.com/spf13/cobra"
)

var depositCmd = &cobra.Command{
	Use:   "deposit <bitcoin tx id>",
	Short: "inspect a btc deposit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		ledgers := provideLedgerStore(database)
		params := provideParameterStore(providePropertyStore(database))
		deposit, err := provideBridgeService(ledgers, params, provideBlockService()).Find(ctx, args[0])
		if err != nil {
			return err
		}

		if deposit.ID == 0 {
			cmd.PrintErrln("btc deposit not found")
			return nil
		}

		return printJSON(cmd, deposit)
	},
}

func init() {
	rootCmd.AddCommand(depositCmd)
}
