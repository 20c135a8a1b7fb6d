package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Juan-JM/SmartCart-Frotend/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the storefront",
	Long: `Exchange credentials for a session and persist it locally.

Examples:
  smartcart login --username ana
  smartcart login -u ana -p secret`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringP("username", "u", "", "account username")
	loginCmd.Flags().StringP("password", "p", "", "account password (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")

	reader := bufio.NewReader(os.Stdin)
	var err error
	if username == "" {
		if username, err = prompt(reader, "Username: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = prompt(reader, "Password: "); err != nil {
			return err
		}
	}

	app, closer, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if err := app.session.Login(cmd.Context(), username, password); err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			return errors.New("invalid username or password")
		}
		return err
	}

	profile := app.session.Profile()
	fmt.Printf("Signed in as %s\n", profile.Username)
	return nil
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
