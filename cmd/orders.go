package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var ordersCmd = &cobra.Command{
	Use:   "orders [id]",
	Short: "Show order history",
	Long: `List the signed-in user's orders, or show one by id.

Examples:
  smartcart orders
  smartcart orders 17
  smartcart orders --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOrders,
}

func init() {
	rootCmd.AddCommand(ordersCmd)

	ordersCmd.Flags().Bool("json", false, "output as JSON")
}

func runOrders(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	app, closer, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if !app.session.IsAuthenticated() {
		return fmt.Errorf("not signed in, run 'smartcart login' first")
	}

	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[0])
		}
		order, err := app.api.Order(cmd.Context(), id)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(order)
		}
		fmt.Printf("Order #%d  %s  total %s  %s\n", order.ID, order.Status, order.Total.StringFixed(2), order.Date)
		return nil
	}

	orders, err := app.api.Orders(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(orders)
	}
	if len(orders) == 0 {
		fmt.Println("No orders yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tDATE")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", o.ID, o.Status, o.Total.StringFixed(2), o.Date)
	}
	return w.Flush()
}
