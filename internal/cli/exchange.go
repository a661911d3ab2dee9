package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/maintlog/internal/wire"
)

var exportCmd = &cobra.Command{
	Use:   "export [dataset]",
	Short: "Export a dataset to an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = args[0] + ".xlsx"
		}

		d, err := wire.DatasetFor(args[0])
		if err != nil {
			return err
		}

		tmp, err := os.CreateTemp(filepath.Dir(out), ".export-*.xlsx")
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer os.Remove(tmp.Name())

		res, err := d.Exchange.Export(ctx, tmp)
		if cerr := tmp.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("failed to export %s: %w", args[0], err)
		}
		if err := os.Rename(tmp.Name(), out); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}

		fmt.Printf("✓ Exported %d rows of %s to %s\n", res.Rows, args[0], out)
		if res.Warning != nil {
			fmt.Printf("  Warning: %v\n", res.Warning)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [dataset] [file.xlsx]",
	Short: "Replace a dataset with an Excel sheet (supervisor)",
	Long: `Replace a dataset with the rows of an Excel sheet. The first row is the
header; columns are matched to the dataset by name and missing ones are added
empty. The current file is backed up by the save, as with any other change.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		sheet, _ := cmd.Flags().GetString("sheet")

		d, err := wire.DatasetFor(args[0])
		if err != nil {
			return err
		}
		if err := requireSupervisor(); err != nil {
			return err
		}

		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[1], err)
		}
		defer f.Close()

		res, err := d.Exchange.Import(ctx, f, sheet)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Imported %d rows into %s\n", res.Rows, args[0])
		fmt.Printf("  Columns: %s\n", strings.Join(res.Columns, ", "))
		if res.Save != nil {
			fmt.Printf("  Saved:   %s\n", res.Save.Path)
			if res.Save.BackupPath != "" {
				fmt.Printf("  Backup:  %s\n", res.Save.BackupPath)
			}
			for _, w := range res.Save.Warnings {
				fmt.Printf("  Warning: %v\n", w)
			}
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Output file (default <dataset>.xlsx)")
	importCmd.Flags().String("sheet", "", "Sheet to read (default first sheet)")
}

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	return exportCmd
}

// ImportCmd returns the import command
func ImportCmd() *cobra.Command {
	return importCmd
}
