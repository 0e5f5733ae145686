package main

import (
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"steward/internal/vault"
	"steward/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch VAULT [DROP]",
		Short: "Watch a drop folder and create task records",
		Long: "Watches the drop folder (default <vault>/Inbox) and writes a task\n" +
			"record into Needs_Action for every new file. Normally spawned by\n" +
			"`steward run`, but can be run standalone.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			v := vault.New(args[0])
			if err := v.Validate(); err != nil {
				return err
			}
			dropDir := v.Path(vault.StageInbox)
			if len(args) == 2 {
				dropDir = args[1]
			}

			logFile := filepath.Join(v.Path(vault.StageLogs), "watcher.log")
			logger, err := ctx.buildLogger(cfg, logFile)
			if err != nil {
				return err
			}

			detector := watcher.New(watcher.Options{
				Vault:           v,
				DropDir:         dropDir,
				Debounce:        time.Duration(cfg.Workflow.DebounceMS) * time.Millisecond,
				DedupCacheLimit: cfg.Watcher.DedupCacheLimit,
				Logger:          logger,
			})

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := detector.Start(runCtx); err != nil {
				return err
			}
			<-runCtx.Done()
			detector.Stop()
			return nil
		},
	}
	return cmd
}
