package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/example/maintlog/internal/ports/primary"
	"github.com/example/maintlog/internal/wire"
)

var equipmentCmd = &cobra.Command{
	Use:     "equipment",
	Aliases: []string{"pmoc"},
	Short:   "Manage the preventive maintenance log",
	Long:    "Register HVAC units, record maintenance visits and list units coming due",
}

var equipmentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a unit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		tag, _ := cmd.Flags().GetInt("tag")
		site, _ := cmd.Flags().GetString("site")
		sector, _ := cmd.Flags().GetString("sector")
		brand, _ := cmd.Flags().GetString("brand")
		model, _ := cmd.Flags().GetString("model")
		capacity, _ := cmd.Flags().GetString("capacity")
		technician, _ := cmd.Flags().GetString("technician")
		approval, _ := cmd.Flags().GetString("approval")
		notes, _ := cmd.Flags().GetString("notes")

		var last time.Time
		if raw, _ := cmd.Flags().GetString("last"); raw != "" {
			var err error
			if last, err = parseDate(raw); err != nil {
				return err
			}
		}

		return wire.EquipmentAdapter().Register(ctx, primary.RegisterUnitRequest{
			Tag:             tag,
			Site:            site,
			Sector:          sector,
			Brand:           brand,
			Model:           model,
			Capacity:        capacity,
			LastMaintenance: last,
			Technician:      technician,
			Approval:        approval,
			Notes:           notes,
		})
	},
}

var equipmentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List units",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		site, _ := cmd.Flags().GetString("site")
		sector, _ := cmd.Flags().GetString("sector")

		return wire.EquipmentAdapter().List(ctx, primary.UnitFilters{Site: site, Sector: sector})
	},
}

var equipmentShowCmd = &cobra.Command{
	Use:   "show [tag]",
	Short: "Show unit details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		tag, err := parseID(args[0], "tag")
		if err != nil {
			return err
		}
		_, err = wire.EquipmentAdapter().Show(ctx, tag)
		return err
	},
}

var equipmentFindCmd = &cobra.Command{
	Use:   "find [field] [query]",
	Short: "Search units by field",
	Long: `Search units whose field contains the query, ignoring case.

The field is a column name of the log, e.g. "Local", "Setor" or "Marca".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		return wire.EquipmentAdapter().Search(ctx, args[0], args[1])
	},
}

var equipmentUpdateCmd = &cobra.Command{
	Use:   "update [tag]",
	Short: "Update the description of a unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		tag, err := parseID(args[0], "tag")
		if err != nil {
			return err
		}

		return wire.EquipmentAdapter().Update(ctx, primary.UpdateUnitRequest{
			Tag:      tag,
			Site:     optionalString(cmd, "site"),
			Sector:   optionalString(cmd, "sector"),
			Brand:    optionalString(cmd, "brand"),
			Model:    optionalString(cmd, "model"),
			Capacity: optionalString(cmd, "capacity"),
			Notes:    optionalString(cmd, "notes"),
		})
	},
}

var equipmentServiceCmd = &cobra.Command{
	Use:   "service [tag]",
	Short: "Record a maintenance visit",
	Long: `Record a maintenance visit on a unit. The next maintenance is rescheduled
from the visit date (today unless --date is given).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		tag, err := parseID(args[0], "tag")
		if err != nil {
			return err
		}
		technician, _ := cmd.Flags().GetString("technician")
		approval, _ := cmd.Flags().GetString("approval")
		notes, _ := cmd.Flags().GetString("notes")

		req := primary.RecordMaintenanceRequest{
			Tag:        tag,
			Technician: technician,
			Approval:   approval,
			Notes:      notes,
		}
		if raw, _ := cmd.Flags().GetString("date"); raw != "" {
			if req.Date, err = parseDate(raw); err != nil {
				return err
			}
		}

		return wire.EquipmentAdapter().Record(ctx, req)
	},
}

var equipmentDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List units due for maintenance",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		days, _ := cmd.Flags().GetInt("days")
		return wire.EquipmentAdapter().Due(ctx, days)
	},
}

var equipmentDeleteCmd = &cobra.Command{
	Use:   "delete [tag]",
	Short: "Delete a unit (supervisor)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		tag, err := parseID(args[0], "tag")
		if err != nil {
			return err
		}
		if err := requireSupervisor(); err != nil {
			return err
		}
		return wire.EquipmentAdapter().Delete(ctx, tag)
	},
}

func init() {
	// equipment add flags
	equipmentAddCmd.Flags().Int("tag", 0, "Unit tag (default next free tag)")
	equipmentAddCmd.Flags().String("site", "", "Site (required)")
	equipmentAddCmd.Flags().String("sector", "", "Sector (required)")
	equipmentAddCmd.Flags().String("brand", "", "Brand")
	equipmentAddCmd.Flags().String("model", "", "Model")
	equipmentAddCmd.Flags().String("capacity", "", "Capacity (e.g. 12000 BTU)")
	equipmentAddCmd.Flags().String("last", "", "Last maintenance date (YYYY-MM-DD)")
	equipmentAddCmd.Flags().String("technician", "", "Technician of the last maintenance")
	equipmentAddCmd.Flags().String("approval", "", "Supervisor approval")
	equipmentAddCmd.Flags().String("notes", "", "Notes")
	_ = equipmentAddCmd.MarkFlagRequired("site")
	_ = equipmentAddCmd.MarkFlagRequired("sector")

	// equipment list flags
	equipmentListCmd.Flags().String("site", "", "Filter by site")
	equipmentListCmd.Flags().String("sector", "", "Filter by sector")

	// equipment update flags
	equipmentUpdateCmd.Flags().String("site", "", "New site")
	equipmentUpdateCmd.Flags().String("sector", "", "New sector")
	equipmentUpdateCmd.Flags().String("brand", "", "New brand")
	equipmentUpdateCmd.Flags().String("model", "", "New model")
	equipmentUpdateCmd.Flags().String("capacity", "", "New capacity")
	equipmentUpdateCmd.Flags().String("notes", "", "New notes")

	// equipment service flags
	equipmentServiceCmd.Flags().String("date", "", "Visit date (YYYY-MM-DD, default today)")
	equipmentServiceCmd.Flags().StringP("technician", "t", "", "Technician (required)")
	equipmentServiceCmd.Flags().StringP("approval", "a", "", "Supervisor approval")
	equipmentServiceCmd.Flags().String("notes", "", "Replace the unit notes")
	_ = equipmentServiceCmd.MarkFlagRequired("technician")

	// equipment due flags
	equipmentDueCmd.Flags().Int("days", 30, "Look-ahead window in days")

	// Register subcommands
	equipmentCmd.AddCommand(equipmentAddCmd)
	equipmentCmd.AddCommand(equipmentListCmd)
	equipmentCmd.AddCommand(equipmentShowCmd)
	equipmentCmd.AddCommand(equipmentFindCmd)
	equipmentCmd.AddCommand(equipmentUpdateCmd)
	equipmentCmd.AddCommand(equipmentServiceCmd)
	equipmentCmd.AddCommand(equipmentDueCmd)
	equipmentCmd.AddCommand(equipmentDeleteCmd)
}

// EquipmentCmd returns the equipment command
func EquipmentCmd() *cobra.Command {
	return equipmentCmd
}
