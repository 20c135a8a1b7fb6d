package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products [id]",
	Short: "Browse the catalog",
	Long: `List the product catalog, or show a single product by id.

Examples:
  smartcart products
  smartcart products 3
  smartcart products --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProducts,
}

func init() {
	rootCmd.AddCommand(productsCmd)

	productsCmd.Flags().Bool("json", false, "output as JSON")
}

func runProducts(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	app, closer, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		product, err := app.api.Product(cmd.Context(), id)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(product)
		}
		fmt.Printf("#%d  %s\n", product.ID, product.Name)
		if product.Description != "" {
			fmt.Println(product.Description)
		}
		fmt.Printf("Price: %s  Stock: %d\n", product.Price.StringFixed(2), product.Stock)
		return nil
	}

	products, err := app.api.Products(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(products)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", p.ID, p.Name, p.Price.StringFixed(2), p.Stock)
	}
	return w.Flush()
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
