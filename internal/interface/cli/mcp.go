package cli

import (
	"github.com/spf13/cobra"

	"github.com/AswinRaj1123/NyayaAI/cmd/nyaya/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as an MCP server",
	Long: `Run nyaya as a Model Context Protocol server over stdio.

Exposes the document QA backend as MCP tools (list_documents,
ask_question, get_history) so an LLM client can browse and question
your documents. Requires a stored session; run 'nyaya login' first.

Add to an MCP client config:
  {
    "mcpServers": {
      "nyaya": {
        "command": "nyaya",
        "args": ["mcp"]
      }
    }
  }`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcp.StartServer()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
