package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kitegate",
	Short: "kitegate is a web gateway for Kite Connect account data",
	Long: `A thin web service that runs the Kite Connect login flow and proxies
read-only account queries (positions, holdings, orders, summary) as JSON.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
