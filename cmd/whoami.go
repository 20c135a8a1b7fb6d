package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long: `Fetch and display the profile of the current session.

Examples:
  smartcart whoami
  smartcart whoami --json`,
	RunE: runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)

	whoamiCmd.Flags().Bool("json", false, "output as JSON")
}

func runWhoami(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	app, closer, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if !app.session.IsAuthenticated() {
		return fmt.Errorf("not signed in, run 'smartcart login' first")
	}

	profile, err := app.session.FetchProfile(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	}

	fmt.Printf("Username:  %s\n", profile.Username)
	fmt.Printf("Email:     %s\n", profile.Email)
	fmt.Printf("Staff:     %t\n", profile.IsStaff)
	if profile.Customer != nil {
		fmt.Printf("Customer:  %s (#%d)\n", profile.Customer.Name, profile.Customer.ID)
	}
	for _, g := range profile.Groups {
		fmt.Printf("Group:     %s\n", g.Name)
	}

	perms := profile.EffectivePermissions()
	if len(perms) > 0 {
		names := make([]string, 0, len(perms))
		for p := range perms {
			names = append(names, p)
		}
		sort.Strings(names)
		fmt.Println("Permissions:")
		for _, p := range names {
			fmt.Printf("  %s\n", p)
		}
	}

	if exp := app.session.Tokens().AccessExpiry(); !exp.IsZero() {
		fmt.Printf("Token expires: %s\n", exp.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}
