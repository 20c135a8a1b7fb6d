package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored session",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	app, closer, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	app.session.Logout()
	fmt.Println("Signed out")
	return nil
}
