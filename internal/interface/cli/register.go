package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	registerEmail    string
	registerFullName string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Create a NyayaAI account.

Registration does not log you in; run 'nyaya login' afterwards.

Examples:
  nyaya register --email a@x.com --name "Asha Rao"`,
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerFullName, "name", "", "Full name (optional)")
	_ = registerCmd.MarkFlagRequired("email")
}

func runRegister(cmd *cobra.Command, args []string) error {
	password, err := readPassword()
	if err != nil {
		return err
	}

	c := newCore()
	if err := c.sess.Register(cmd.Context(), registerEmail, password, registerFullName); err != nil {
		return fmt.Errorf("registration failed: %s", errDetail(err))
	}

	fmt.Println("Registered! Now run 'nyaya login'.")
	return nil
}
