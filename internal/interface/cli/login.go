package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	Long: `Log in to the NyayaAI backend.

Prompts for the password (or reads it from stdin when piped). On success
the bearer token is stored in the config directory and used by every
other command until 'nyaya logout'.

Examples:
  nyaya login --email a@x.com
  echo "$PASSWORD" | nyaya login --email a@x.com`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	_ = loginCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := readPassword()
	if err != nil {
		return err
	}

	c := newCore()
	if err := c.sess.Login(cmd.Context(), loginEmail, password); err != nil {
		return fmt.Errorf("login failed: %s", errDetail(err))
	}

	user, _ := c.sess.User()
	fmt.Printf("Logged in as %s\n", user.DisplayName())
	return nil
}

// readPassword prompts on a terminal and reads a line otherwise.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(data), nil
	}
	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}
