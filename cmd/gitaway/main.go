package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"git-away/internal/config"
	"git-away/internal/logging"
	"git-away/pkg/client"
)

type options struct {
	server     string
	token      string
	outputJSON bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	_ = godotenv.Load()

	opts := &options{}
	root := &cobra.Command{
		Use:   "gitaway",
		Short: "git-away command line client",
		Long: `A command line client for a git-away server.

It lists your GitHub repositories with their last commit and shows your
provider connections. Create a token on the Tokens page or with
POST /api/auth/token and pass it with --token or GITAWAY_TOKEN.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupWithWriter(config.LogConfig{Level: opts.logLevel, Format: "console"}, cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&opts.server, "server", envOr("GITAWAY_URL", "http://localhost:8080"), "server base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("GITAWAY_TOKEN"), "session token")
	root.PersistentFlags().BoolVar(&opts.outputJSON, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	root.AddCommand(newReposCmd(opts))
	root.AddCommand(newTokensCmd(opts))
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newKeygenCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (o *options) client() (*client.Client, error) {
	if o.token == "" {
		return nil, fmt.Errorf("a session token is required (--token or GITAWAY_TOKEN)")
	}
	return client.New(o.server, o.token), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
