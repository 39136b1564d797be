// stanning-ledger 錢包帳本服務：每日積分發放排程、/metrics 與管理指令
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "stanning-ledger",
		Short:         "Wallet ledger for coins, points, redemption and subscriptions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "stanning.yaml", "path to YAML config file")

	loadApp := func() (*app, error) { return newApp(configPath) }
	root.AddCommand(
		newServeCommand(loadApp),
		newGrantCommand(loadApp),
		newSeedPlansCommand(loadApp),
		newBalanceCommand(loadApp),
		newRankingCommand(loadApp),
	)
	return root
}
