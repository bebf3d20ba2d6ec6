// Command agent-board runs the Agent Board backend: it wires the Document
// Store, Event Bus, Worktree Manager, Agent Runner, and RPC Dispatcher into
// an HTTP Gateway and serves it until interrupted.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "agent-board",
		Short: "Orchestrate AI coding agents across git worktrees",
	}
	root.AddCommand(serveCmd())
	return root
}
