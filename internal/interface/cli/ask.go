package cli

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var askCopy bool

var askCmd = &cobra.Command{
	Use:   "ask <document-id> <question>",
	Short: "Ask a question about a document",
	Long: `Ask a natural-language question about a ready document.

The question can be in Hindi or English. The answer cites how many
sections of the document were used.

Examples:
  nyaya ask 12 "What is the notice period?"
  nyaya ask 12 "What is the notice period?" --copy`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolVar(&askCopy, "copy", false, "Copy the answer to the clipboard")
}

func runAsk(cmd *cobra.Command, args []string) error {
	documentID := args[0]
	question := strings.Join(args[1:], " ")

	c := newCore()
	if err := c.restore(cmd.Context()); err != nil {
		return err
	}

	answer, err := c.docs.AskDocument(cmd.Context(), documentID, question)
	if err != nil {
		return fmt.Errorf("query failed: %s", errDetail(err))
	}

	fmt.Println(answer.Answer)
	fmt.Println()
	fmt.Printf("(%d relevant sections used)\n", answer.Sources)

	if askCopy {
		if err := clipboard.WriteAll(answer.Answer); err != nil {
			fmt.Printf("Could not copy to clipboard: %v\n", err)
		} else {
			fmt.Println("Answer copied to clipboard.")
		}
	}
	return nil
}
