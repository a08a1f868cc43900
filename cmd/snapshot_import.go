package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhkimon/crimson-erp-sub000/config"
	inventoryService "github.com/jhkimon/crimson-erp-sub000/service/inventory"
)

var (
	importFile  string
	importYear  int
	importMonth int
)

var snapshotImportCmd = &cobra.Command{
	Use:   "snapshots:import",
	Short: "Import a snapshot spreadsheet into a period",
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(importFile)
		if err != nil {
			fmt.Printf("Failed to open workbook: %v\n", err)
			return
		}
		defer f.Close()

		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}

		start := time.Now()
		res, err := inventoryService.ImportSnapshotSheet(db, f, importYear, importMonth)
		if err != nil {
			fmt.Printf("Import failed: %v\n", err)
			return
		}

		for _, w := range res.Warnings {
			fmt.Printf("  [warn] %s\n", w)
		}
		fmt.Printf("Imported: %d, skipped: %d (%.2fs)\n", res.Imported, res.Skipped, time.Since(start).Seconds())
	},
}

func init() {
	now := time.Now()
	snapshotImportCmd.Flags().StringVarP(&importFile, "file", "f", "", "Workbook path (.xlsx)")
	snapshotImportCmd.Flags().IntVar(&importYear, "year", now.Year(), "Target year")
	snapshotImportCmd.Flags().IntVar(&importMonth, "month", int(now.Month()), "Target month")
	_ = snapshotImportCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(snapshotImportCmd)
}
