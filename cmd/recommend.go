package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [product-id...]",
	Short: "Suggest related products",
	Long: `Suggest products related to the given product ids, or to the
current cart contents when no ids are given.

Examples:
  smartcart recommend            # based on what is in the cart
  smartcart recommend 3          # based on product 3
  smartcart recommend 3 7 --limit 10`,
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().Int("limit", 5, "maximum number of suggestions")
	recommendCmd.Flags().Bool("json", false, "output as JSON")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	app, closer, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	seed := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseProductID(arg)
		if err != nil {
			return err
		}
		seed = append(seed, id)
	}
	if len(seed) == 0 {
		for _, l := range app.cart.Get().Lines {
			seed = append(seed, l.ProductID)
		}
	}
	if len(seed) == 0 {
		fmt.Println("Cart is empty, pass product ids to get suggestions")
		return nil
	}

	recs, err := app.api.Recommendations(cmd.Context(), seed, limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(recs)
	}
	if len(recs) == 0 {
		fmt.Println("No suggestions")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK")
	for _, r := range recs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", r.Product.ID, r.Product.Name, r.Product.Price.StringFixed(2), r.Product.Stock)
	}
	return w.Flush()
}
