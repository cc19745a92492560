package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newCore()
		c.sess.Logout()
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newCore()
		if err := c.restore(cmd.Context()); err != nil {
			return err
		}
		user, _ := c.sess.User()
		if user.FullName != "" {
			fmt.Printf("%s <%s>\n", user.FullName, user.Email)
		} else {
			fmt.Println(user.Email)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
