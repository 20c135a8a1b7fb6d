package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Juan-JM/SmartCart-Frotend/internal/checkout"
	"github.com/Juan-JM/SmartCart-Frotend/internal/payments"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Pay for the cart",
	Long: `Create an order from the cart, open a payment intent and confirm
the payment. On success the cart is cleared.

Examples:
  smartcart checkout --method pm_card_visa`,
	RunE: runCheckout,
}

func init() {
	rootCmd.AddCommand(checkoutCmd)

	checkoutCmd.Flags().String("method", "", "payment method token")
	_ = checkoutCmd.MarkFlagRequired("method")
}

func runCheckout(cmd *cobra.Command, args []string) error {
	methodToken, _ := cmd.Flags().GetString("method")

	app, closer, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if !app.session.IsAuthenticated() {
		return fmt.Errorf("not signed in, run 'smartcart login' first")
	}
	// resolve the customer so the order is not submitted as a guest one
	if _, err := app.session.FetchProfile(cmd.Context()); err != nil {
		return err
	}

	flow := checkout.New(app.api, app.cart, app.session, app.stripe,
		func(orderID int64) {
			fmt.Printf("Order #%d paid\n", orderID)
		}, logger)

	err = flow.Run(cmd.Context(), payments.Method{Token: methodToken})
	if err == nil {
		return nil
	}

	if errors.Is(err, checkout.ErrEmptyCart) {
		return errors.New("cart is empty, add something first")
	}

	var cardErr *payments.CardError
	if errors.As(err, &cardErr) {
		state := flow.State()
		return fmt.Errorf("card declined (%s): %s, order #%d left unpaid",
			cardErr.Code, cardErr.Message, state.OrderID)
	}
	return err
}
