package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	_ "markdown-todo-sync/docs" // Swagger docs
)

var version = "0.1.0-dev"

// @title       Markdown Todo Sync API
// @description Keeps GitHub issues in step with markdown checkboxes. Serve mode exposes webhook and manual sync triggers.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	root       string
	revision   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "todosync",
		Short: "Sync markdown checkboxes with GitHub issues",
		Long: `todosync scans a docs tree for "- [ ]" checkboxes and keeps one GitHub issue
per task: new tasks open issues, checked tasks close them, and tasks that
disappear from the docs get their issue closed.

The identity -> issue mapping is kept in .github/todos-cache.json (or SQLite).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to config file (default: search ./config, ., /etc/todosync)")
	rootCmd.PersistentFlags().StringVar(&flags.root, "root", "", "Docs tree to scan (overrides scan.root)")
	rootCmd.PersistentFlags().StringVar(&flags.revision, "revision", "", "Commit or branch for source permalinks (overrides tracker.revision)")

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile checkboxes with issues and save state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Print what sync would do as YAML, without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server and sync on every push",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags)
		},
	}

	rootCmd.AddCommand(syncCmd, planCmd, serveCmd)
	return rootCmd
}
