package cmd

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/jhkimon/crimson-erp-sub000/config"
)

var migrationsPath string

var migrateUpCmd = &cobra.Command{
	Use:   "migrate:up",
	Short: "Apply all pending database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		m, err := migrate.New("file://"+migrationsPath, config.MigrateDSN())
		if err != nil {
			fmt.Printf("Migration setup failed: %v\n", err)
			return
		}
		defer m.Close()

		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				fmt.Println("Already up to date.")
				return
			}
			fmt.Printf("Migration failed: %v\n", err)
			return
		}
		fmt.Println("Migrations applied.")
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "migrate:down",
	Short: "Roll back the most recent migration",
	Run: func(cmd *cobra.Command, args []string) {
		m, err := migrate.New("file://"+migrationsPath, config.MigrateDSN())
		if err != nil {
			fmt.Printf("Migration setup failed: %v\n", err)
			return
		}
		defer m.Close()

		if err := m.Steps(-1); err != nil {
			fmt.Printf("Rollback failed: %v\n", err)
			return
		}
		fmt.Println("Rolled back one migration.")
	},
}

func init() {
	migrateUpCmd.Flags().StringVar(&migrationsPath, "path", "migrations", "Migrations directory")
	migrateDownCmd.Flags().StringVar(&migrationsPath, "path", "migrations", "Migrations directory")
	rootCmd.AddCommand(migrateUpCmd)
	rootCmd.AddCommand(migrateDownCmd)
}
