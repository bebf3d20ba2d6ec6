package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agent-board/backend/internal/core"
	"github.com/agent-board/backend/internal/eventbus"
	"github.com/agent-board/backend/internal/logging"
	"github.com/agent-board/backend/internal/rpc"
	"github.com/agent-board/backend/internal/runner"
	"github.com/agent-board/backend/internal/server"
	"github.com/agent-board/backend/internal/store"
	"github.com/agent-board/backend/internal/worktree"
)

func serveCmd() *cobra.Command {
	var dataDir string
	var port int
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataDir == "" {
				dataDir = envOr("AGENT_BOARD_DATA_DIR", "")
			}
			if dataDir == "" {
				dir, err := defaultDataDir()
				if err != nil {
					return fmt.Errorf("resolve default data directory: %w", err)
				}
				dataDir = dir
			}
			if port == 0 {
				if p := envOr("AGENT_BOARD_PORT", ""); p != "" {
					v, err := strconv.Atoi(p)
					if err != nil {
						return fmt.Errorf("AGENT_BOARD_PORT: %w", err)
					}
					port = v
				}
			}
			if !debug {
				debug = logging.DebugEnabled()
			}
			logging.Init(debug)

			return run(cmd.Context(), dataDir, port)
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "application data directory (default: AGENT_BOARD_DATA_DIR or the platform config directory)")
	cmd.Flags().IntVar(&port, "port", 0, "HTTP port to listen on (default: AGENT_BOARD_PORT or "+fmt.Sprint(server.DefaultPort)+")")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable verbose request/event logging")
	return cmd
}

func run(ctx context.Context, dataDir string, port int) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := store.New(dataDir)
	bus := eventbus.New()
	wt := worktree.New(filepath.Join(dataDir, "worktrees"))
	rn := runner.New(st, bus)
	c := core.New(st, bus, wt, rn)
	d := rpc.New(c)
	srv := server.New(d, bus)

	go wt.Sweep(ctx, c.TaskExists)

	return srv.ListenAndServe(ctx, port)
}

func defaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "agent-board"), nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
