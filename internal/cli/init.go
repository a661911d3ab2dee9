package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/maintlog/internal/app"
	"github.com/example/maintlog/internal/config"
	"github.com/example/maintlog/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a maintlog workspace",
		Long: `Create or update .maintlog/config.json in the workspace and the data and
backup directories it names.

Running init again keeps the existing settings and applies only the flags given.
Replacing an existing supervisor password requires the current one (--password).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := wire.Workspace()
			existed := config.Exists(dir)

			cfg, err := config.LoadConfig(dir)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("timezone") {
				cfg.Timezone, _ = cmd.Flags().GetString("timezone")
			}
			if cmd.Flags().Changed("max-backups") {
				cfg.MaxBackups, _ = cmd.Flags().GetInt("max-backups")
			}
			if cmd.Flags().Changed("encoding") {
				cfg.Encoding, _ = cmd.Flags().GetString("encoding")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			newPassword, _ := cmd.Flags().GetString("supervisor-password")
			if newPassword != "" {
				if cfg.SupervisorPasswordHash != "" {
					current := globalPassword
					if current == "" {
						current = os.Getenv(config.EnvPassword)
					}
					if err := app.NewSupervisor(cfg.SupervisorPasswordHash).Authorize(current); err != nil {
						return fmt.Errorf("cannot replace supervisor password: %w", err)
					}
				}
				hash, err := app.HashPassword(newPassword)
				if err != nil {
					return err
				}
				cfg.SupervisorPasswordHash = hash
			}

			if err := config.SaveConfig(dir, cfg); err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.BackupPath(dir), 0755); err != nil {
				return fmt.Errorf("failed to create backup dir: %w", err)
			}

			if existed {
				fmt.Printf("✓ Workspace updated: %s\n", config.Path(dir))
			} else {
				fmt.Printf("✓ Workspace initialized: %s\n", config.Path(dir))
			}
			fmt.Printf("  Orders:    %s\n", cfg.OrdersFile)
			fmt.Printf("  Equipment: %s\n", cfg.EquipmentFile)
			fmt.Printf("  Backups:   %s (keep %d)\n", cfg.BackupPath(dir), cfg.MaxBackups)
			fmt.Printf("  Timezone:  %s\n", cfg.Timezone)
			if cfg.SupervisorPasswordHash == "" {
				fmt.Println()
				fmt.Println("No supervisor password set. Destructive commands stay locked until you run:")
				fmt.Println("  maintlog init --supervisor-password <password>")
			}
			return nil
		},
	}

	cmd.Flags().String("supervisor-password", "", "set the supervisor password")
	cmd.Flags().String("timezone", config.DefaultTimezone, "IANA timezone for dates")
	cmd.Flags().Int("max-backups", config.DefaultMaxBackups, "number of backups to keep per dataset")
	cmd.Flags().String("encoding", "utf-8", "local CSV encoding: utf-8 or windows-1252")

	return cmd
}
