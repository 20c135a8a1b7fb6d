package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the shopping cart",
	Long: `Show and modify the locally persisted shopping cart.

Examples:
  smartcart cart show
  smartcart cart add 3 --qty 2
  smartcart cart update 3 --qty 5
  smartcart cart remove 3
  smartcart cart clear`,
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart contents",
	RunE:  runCartShow,
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartAdd,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a line from the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <product-id>",
	Short: "Set the quantity of a cart line",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartUpdate,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE:  runCartClear,
}

func init() {
	rootCmd.AddCommand(cartCmd)
	cartCmd.AddCommand(cartShowCmd, cartAddCmd, cartRemoveCmd, cartUpdateCmd, cartClearCmd)

	cartShowCmd.Flags().Bool("json", false, "output as JSON")
	cartAddCmd.Flags().Int("qty", 1, "quantity to add")
	cartUpdateCmd.Flags().Int("qty", 1, "new quantity")
}

func runCartShow(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	app, closer, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	snapshot := app.cart.Get()
	if jsonOutput {
		return printJSON(snapshot)
	}
	if snapshot.IsEmpty() {
		fmt.Println("Cart is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tQTY\tSUBTOTAL")
	for _, l := range snapshot.Lines {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
			l.ProductID, l.Name, l.UnitPrice.StringFixed(2), l.Quantity, l.Subtotal().StringFixed(2))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("Total: %s\n", snapshot.Total.StringFixed(2))
	return nil
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	qty, _ := cmd.Flags().GetInt("qty")

	id, err := parseProductID(args[0])
	if err != nil {
		return err
	}

	app, closer, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	product, err := app.api.Product(cmd.Context(), id)
	if err != nil {
		return err
	}
	if err := app.cart.AddItem(cmd.Context(), *product, qty); err != nil {
		return err
	}

	fmt.Printf("Added %s, cart total %s\n", product.Name, app.cart.Get().Total.StringFixed(2))
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	id, err := parseProductID(args[0])
	if err != nil {
		return err
	}

	app, closer, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if err := app.cart.RemoveItem(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("Removed, cart total %s\n", app.cart.Get().Total.StringFixed(2))
	return nil
}

func runCartUpdate(cmd *cobra.Command, args []string) error {
	qty, _ := cmd.Flags().GetInt("qty")

	id, err := parseProductID(args[0])
	if err != nil {
		return err
	}
	if qty < 1 {
		return fmt.Errorf("quantity must be at least 1, use 'cart remove' to drop a line")
	}

	app, closer, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if err := app.cart.SetQuantity(cmd.Context(), id, qty); err != nil {
		return err
	}
	fmt.Printf("Updated, cart total %s\n", app.cart.Get().Total.StringFixed(2))
	return nil
}

func runCartClear(cmd *cobra.Command, args []string) error {
	app, closer, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if err := app.cart.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Cart cleared")
	return nil
}

func parseProductID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q", arg)
	}
	return id, nil
}
