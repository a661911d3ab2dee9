package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/maintlog/internal/cli"
	"github.com/example/maintlog/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "maintlog",
		Short:   "maintlog - maintenance orders and preventive maintenance log",
		Version: version.String(),
		Long: `maintlog keeps the maintenance orders and the HVAC preventive maintenance
log of a site in CSV files, with backups on every save and optional sync to a
GitHub repository.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cli.BindGlobalFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.OrderCmd())
	rootCmd.AddCommand(cli.EquipmentCmd())

	// Data management
	rootCmd.AddCommand(cli.BackupCmd())
	rootCmd.AddCommand(cli.SyncCmd())
	rootCmd.AddCommand(cli.ExportCmd())
	rootCmd.AddCommand(cli.ImportCmd())
	rootCmd.AddCommand(cli.LogCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
