package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/maintlog/internal/app"
	"github.com/example/maintlog/internal/config"
	"github.com/example/maintlog/internal/wire"
)

const allDatasets = "all"

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize datasets with the GitHub repository",
	Long: `Pull and push dataset files to a file in a GitHub repository.

Saves already push when sync is configured; these commands inspect and drive
sync explicitly. A push is refused when the remote changed since the last sync
unless --force is given.`,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		names, err := datasetNames(cmd)
		if err != nil {
			return err
		}
		for i, name := range names {
			if i > 0 {
				fmt.Println()
			}
			adapter, err := wire.SyncAdapter(name)
			if err != nil {
				return err
			}
			if err := adapter.Status(ctx); err != nil {
				return err
			}
		}
		return nil
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace local data with the remote file",
	Long: `Fetch the remote file and replace the local dataset with it. The local file
is backed up first. Use --dry-run to see what would change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		names, err := datasetNames(cmd)
		if err != nil {
			return err
		}
		return pullDatasets(ctx, names, dryRun, syncPullerFor)
	},
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload local data to the remote file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		force, _ := cmd.Flags().GetBool("force")
		names, err := datasetNames(cmd)
		if err != nil {
			return err
		}
		for _, name := range names {
			adapter, err := wire.SyncAdapter(name)
			if err != nil {
				return err
			}
			if err := adapter.Push(ctx, force); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
		return nil
	},
}

var syncLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent sync attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		limit, _ := cmd.Flags().GetInt("limit")
		names, err := datasetNames(cmd)
		if err != nil {
			return err
		}
		for _, name := range names {
			adapter, err := wire.SyncAdapter(name)
			if err != nil {
				return err
			}
			if err := adapter.History(ctx, limit); err != nil {
				return err
			}
		}
		return nil
	},
}

var syncConfigureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Set the GitHub repository and file paths (supervisor)",
	Long: `Set the remote repository, branch and file paths. The settings are checked
against GitHub before they are saved; a missing remote file is accepted since
the first push creates it. Once saved, existing remote files are pulled into
the workspace (after a backup of the local files) unless --no-pull is given.

Prefer the MAINTLOG_GITHUB_TOKEN environment variable over --token: a token
given on the command line is stored in .maintlog/config.json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		if err := requireSupervisor(); err != nil {
			return err
		}

		dir := wire.Workspace()
		cfg, err := config.LoadConfig(dir)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("repo") {
			cfg.GitHubRepo, _ = cmd.Flags().GetString("repo")
		}
		if cmd.Flags().Changed("branch") {
			cfg.GitHubBranch, _ = cmd.Flags().GetString("branch")
		}
		if cmd.Flags().Changed("orders-path") {
			cfg.GitHubFilepath, _ = cmd.Flags().GetString("orders-path")
		}
		if cmd.Flags().Changed("equipment-path") {
			cfg.EquipmentFilepath, _ = cmd.Flags().GetString("equipment-path")
		}
		if cmd.Flags().Changed("api-url") {
			cfg.GitHubAPIURL, _ = cmd.Flags().GetString("api-url")
		}
		if cmd.Flags().Changed("token") {
			cfg.GitHubToken, _ = cmd.Flags().GetString("token")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cfg.GitHubRepo == "" {
			return fmt.Errorf("--repo is required")
		}
		if cfg.Token() == "" {
			return fmt.Errorf("no GitHub token: set %s or pass --token", config.EnvGitHubToken)
		}

		skipVerify, _ := cmd.Flags().GetBool("no-verify")
		if !skipVerify {
			remote, err := wire.RemoteFor(cfg)
			if err != nil {
				return err
			}
			for _, path := range []string{cfg.GitHubFilepath, cfg.EquipmentFilepath} {
				if err := app.VerifyRemote(ctx, remote, path); err != nil {
					return fmt.Errorf("cannot reach %s in %s: %w", path, cfg.GitHubRepo, err)
				}
			}
		}

		if err := config.SaveConfig(dir, cfg); err != nil {
			return err
		}

		fmt.Printf("✓ Sync configured: %s", cfg.GitHubRepo)
		if cfg.GitHubBranch != "" {
			fmt.Printf(" (%s)", cfg.GitHubBranch)
		}
		fmt.Println()
		fmt.Printf("  Orders:    %s\n", cfg.GitHubFilepath)
		fmt.Printf("  Equipment: %s\n", cfg.EquipmentFilepath)
		if cmd.Flags().Changed("token") && os.Getenv(config.EnvGitHubToken) == "" {
			fmt.Printf("  Token stored in %s\n", config.Path(dir))
		}

		if skipPull, _ := cmd.Flags().GetBool("no-pull"); skipPull {
			return nil
		}
		wire.Reload()
		if err := pullDatasets(ctx, []string{wire.Orders, wire.Equipment}, false, syncPullerFor); err != nil {
			return fmt.Errorf("sync configured, but the initial pull failed: %w", err)
		}
		return nil
	},
}

// datasetPuller pulls one dataset from the remote.
type datasetPuller interface {
	Pull(ctx context.Context, dryRun bool) error
}

func syncPullerFor(name string) (datasetPuller, error) {
	adapter, err := wire.SyncAdapter(name)
	if err != nil {
		return nil, err
	}
	return adapter, nil
}

// pullDatasets pulls the named datasets in order and stops at the first
// failure.
func pullDatasets(ctx context.Context, names []string, dryRun bool, pullerFor func(string) (datasetPuller, error)) error {
	for _, name := range names {
		puller, err := pullerFor(name)
		if err != nil {
			return err
		}
		if err := puller.Pull(ctx, dryRun); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// datasetNames resolves the --dataset flag; "all" expands to every dataset.
func datasetNames(cmd *cobra.Command) ([]string, error) {
	name, _ := cmd.Flags().GetString("dataset")
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", allDatasets:
		return []string{wire.Orders, wire.Equipment}, nil
	case wire.Orders:
		return []string{wire.Orders}, nil
	case wire.Equipment:
		return []string{wire.Equipment}, nil
	default:
		return nil, fmt.Errorf("unknown dataset %q (valid: %s, %s, %s)", name, wire.Orders, wire.Equipment, allDatasets)
	}
}

func init() {
	syncCmd.PersistentFlags().StringP("dataset", "D", allDatasets, "Dataset: orders, equipment or all")

	// sync pull flags
	syncPullCmd.Flags().Bool("dry-run", false, "Show what would change without writing")

	// sync push flags
	syncPushCmd.Flags().BoolP("force", "f", false, "Overwrite a remote that changed since the last sync")

	// sync log flags
	syncLogCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")

	// sync configure flags
	syncConfigureCmd.Flags().String("repo", "", "GitHub repository (owner/name)")
	syncConfigureCmd.Flags().String("branch", "", "Branch (default: repository default branch)")
	syncConfigureCmd.Flags().String("orders-path", "", "Path of the orders file in the repository")
	syncConfigureCmd.Flags().String("equipment-path", "", "Path of the equipment file in the repository")
	syncConfigureCmd.Flags().String("api-url", "", "GitHub API URL (for GitHub Enterprise)")
	syncConfigureCmd.Flags().String("token", "", "GitHub token (stored in the config file)")
	syncConfigureCmd.Flags().Bool("no-verify", false, "Save without checking the repository")
	syncConfigureCmd.Flags().Bool("no-pull", false, "Do not pull the remote files after saving")

	// Register subcommands
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncLogCmd)
	syncCmd.AddCommand(syncConfigureCmd)
}

// SyncCmd returns the sync command
func SyncCmd() *cobra.Command {
	return syncCmd
}
