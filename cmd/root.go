package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "erp",
	Short: "crimson-erp backend CLI",
	Long:  "Operational commands for the crimson-erp backend: migrations, cron jobs, sheet imports.",
}

// Execute runs the root command after applying registered extensions.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
