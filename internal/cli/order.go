package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/maintlog/internal/core/order"
	"github.com/example/maintlog/internal/ports/primary"
	"github.com/example/maintlog/internal/wire"
)

var orderCmd = &cobra.Command{
	Use:     "order",
	Aliases: []string{"os"},
	Short:   "Manage maintenance orders",
	Long:    "Open, list, search, update and delete maintenance orders (ordens de serviço)",
}

var orderAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Open a new order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		description, _ := cmd.Flags().GetString("description")
		requester, _ := cmd.Flags().GetString("requester")
		location, _ := cmd.Flags().GetString("location")
		category, _ := cmd.Flags().GetString("category")
		urgent, _ := cmd.Flags().GetBool("urgent")

		return wire.OrderAdapter().Create(ctx, primary.CreateOrderRequest{
			Description: description,
			Requester:   requester,
			Location:    location,
			Category:    category,
			Urgent:      urgent,
		})
	},
}

var orderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		status, _ := cmd.Flags().GetString("status")
		category, _ := cmd.Flags().GetString("category")

		return wire.OrderAdapter().List(ctx, primary.OrderFilters{
			Status:   status,
			Category: category,
		})
	},
}

var orderShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show order details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		id, err := parseID(args[0], "order ID")
		if err != nil {
			return err
		}
		_, err = wire.OrderAdapter().Show(ctx, id)
		return err
	},
}

var orderFindCmd = &cobra.Command{
	Use:   "find [field] [query]",
	Short: "Search orders by field",
	Long: `Search orders whose field contains the query, ignoring case.

The field is a column name of the orders file, e.g. "Descrição", "Solicitante" or "Local".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		return wire.OrderAdapter().Search(ctx, args[0], args[1])
	},
}

var orderUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update order status, category or executors (supervisor)",
	Long: fmt.Sprintf(`Update an order. Requires the supervisor password.

Statuses: %s
Categories: %s

Moving an order to Done requires an executor and stamps the completion time
(now unless --completed-at is given).`, order.StatusNames(), strings.Join(order.Categories, ", ")),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		id, err := parseID(args[0], "order ID")
		if err != nil {
			return err
		}
		if err := requireSupervisor(); err != nil {
			return err
		}

		req := primary.UpdateOrderRequest{
			OrderID:   id,
			Status:    optionalString(cmd, "status"),
			Category:  optionalString(cmd, "category"),
			Executor1: optionalString(cmd, "executor"),
			Executor2: optionalString(cmd, "executor2"),
		}
		if cmd.Flags().Changed("completed-at") {
			raw, _ := cmd.Flags().GetString("completed-at")
			completedAt, err := parseDateTime(raw)
			if err != nil {
				return err
			}
			req.CompletedAt = &completedAt
		}

		return wire.OrderAdapter().Update(ctx, req)
	},
}

var orderDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an order (supervisor)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		id, err := parseID(args[0], "order ID")
		if err != nil {
			return err
		}
		if err := requireSupervisor(); err != nil {
			return err
		}
		return wire.OrderAdapter().Delete(ctx, id)
	},
}

func init() {
	// order add flags
	orderAddCmd.Flags().StringP("description", "d", "", "What needs to be done (required)")
	orderAddCmd.Flags().StringP("requester", "r", "", "Who asked for it (required)")
	orderAddCmd.Flags().StringP("location", "l", "", "Where (required)")
	orderAddCmd.Flags().StringP("category", "c", "", "Maintenance category")
	orderAddCmd.Flags().BoolP("urgent", "u", false, "Flag the order as urgent")
	_ = orderAddCmd.MarkFlagRequired("description")
	_ = orderAddCmd.MarkFlagRequired("requester")
	_ = orderAddCmd.MarkFlagRequired("location")

	// order list flags
	orderListCmd.Flags().StringP("status", "s", "", "Filter by status")
	orderListCmd.Flags().StringP("category", "c", "", "Filter by category")

	// order update flags
	orderUpdateCmd.Flags().StringP("status", "s", "", "New status")
	orderUpdateCmd.Flags().StringP("category", "c", "", "New category")
	orderUpdateCmd.Flags().StringP("executor", "e", "", "Executor")
	orderUpdateCmd.Flags().String("executor2", "", "Second executor")
	orderUpdateCmd.Flags().String("completed-at", "", "Completion time (YYYY-MM-DD HH:MM)")

	// Register subcommands
	orderCmd.AddCommand(orderAddCmd)
	orderCmd.AddCommand(orderListCmd)
	orderCmd.AddCommand(orderShowCmd)
	orderCmd.AddCommand(orderFindCmd)
	orderCmd.AddCommand(orderUpdateCmd)
	orderCmd.AddCommand(orderDeleteCmd)
}

// OrderCmd returns the order command
func OrderCmd() *cobra.Command {
	return orderCmd
}
