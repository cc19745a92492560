package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AswinRaj1123/NyayaAI/internal/core/api"
	"github.com/AswinRaj1123/NyayaAI/internal/core/config"
	"github.com/AswinRaj1123/NyayaAI/internal/core/docs"
	"github.com/AswinRaj1123/NyayaAI/internal/core/session"
)

var versionInfo string

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nyaya",
	Short: "NyayaAI legal document assistant",
	Long: `nyaya - upload legal documents and ask questions about them

A terminal client for the NyayaAI backend: register, log in, upload
documents, watch processing status, and chat with any document once it
is ready.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to TUI if no subcommand specified
		return tuiCmd.RunE(cmd, args)
	},
}

// core bundles the pieces every command needs.
type core struct {
	cfg  *config.Config
	api  *api.Client
	sess *session.Session
	docs *docs.Client
}

func newCore() *core {
	cfg := config.Load()
	client := api.New(cfg.AuthURL, cfg.UploadURL, cfg.QueryURL)
	sess := session.New(client, session.NewFileTokenStore(cfg.TokenPath))
	return &core{
		cfg:  cfg,
		api:  client,
		sess: sess,
		docs: docs.New(client, sess, cfg.PollInterval),
	}
}

// restore revives a persisted session and fails with a login hint when none
// exists.
func (c *core) restore(ctx context.Context) error {
	ok, err := c.sess.Restore(ctx)
	if err != nil {
		return fmt.Errorf("could not reach auth service: %w", err)
	}
	if !ok {
		return fmt.Errorf("not logged in — run 'nyaya login' first")
	}
	return nil
}
