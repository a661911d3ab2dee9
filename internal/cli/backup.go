package cli

import (
	"github.com/spf13/cobra"

	cliadapter "github.com/example/maintlog/internal/adapters/cli"
	"github.com/example/maintlog/internal/wire"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage dataset backups",
	Long: `Create, list, prune and restore backups of a dataset file.

Every save already takes a backup; these commands manage the slots directly.`,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Back up the dataset file now",
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := backupAdapter(cmd)
		if err != nil {
			return err
		}
		return adapter.Create(NewContext())
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := backupAdapter(cmd)
		if err != nil {
			return err
		}
		return adapter.List(NewContext())
	},
}

var backupLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the path of the newest backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := backupAdapter(cmd)
		if err != nil {
			return err
		}
		return adapter.Latest(NewContext())
	},
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent backups (supervisor)",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		adapter, err := backupAdapter(cmd)
		if err != nil {
			return err
		}
		if err := requireSupervisor(); err != nil {
			return err
		}
		return adapter.Prune(NewContext(), keep)
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [name]",
	Short: "Replace the dataset file with a backup (supervisor)",
	Long: `Replace the dataset file with a backup. The current file is backed up first,
so a restore can itself be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := backupAdapter(cmd)
		if err != nil {
			return err
		}
		if err := requireSupervisor(); err != nil {
			return err
		}
		return adapter.Restore(NewContext(), args[0])
	},
}

func backupAdapter(cmd *cobra.Command) (*cliadapter.BackupAdapter, error) {
	dataset, _ := cmd.Flags().GetString("dataset")
	return wire.BackupAdapter(dataset)
}

func init() {
	backupCmd.PersistentFlags().StringP("dataset", "D", wire.Orders, "Dataset: orders or equipment")

	// backup prune flags
	backupPruneCmd.Flags().Int("keep", 0, "Backups to keep (default max_backups)")

	// Register subcommands
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupLatestCmd)
	backupCmd.AddCommand(backupPruneCmd)
	backupCmd.AddCommand(backupRestoreCmd)
}

// BackupCmd returns the backup command
func BackupCmd() *cobra.Command {
	return backupCmd
}
