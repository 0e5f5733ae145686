package main

import (
	"errors"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"steward/internal/orchestrator"
	"steward/internal/vault"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var vaultFlag string
	var intervalFlag int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the orchestrator against a vault",
		Long: "Starts the drop watcher as a child process and polls the vault's\n" +
			"stage folders on a fixed interval, triggering the agent when task\n" +
			"records are waiting. Runs until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if strings.TrimSpace(vaultFlag) != "" {
				cfg.Paths.Vault = vaultFlag
				cfg.Paths.Drop = ""
			}
			if intervalFlag > 0 {
				cfg.Workflow.PollInterval = intervalFlag
			}
			if err := cfg.Normalize(); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Paths.Vault) == "" {
				return errors.New("no vault configured: pass --vault or set paths.vault in the config")
			}

			v := vault.New(cfg.Paths.Vault)
			if err := v.Validate(); err != nil {
				return err
			}

			logFile := filepath.Join(v.Path(vault.StageLogs), "steward.log")
			logger, err := ctx.buildLogger(cfg, logFile)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			orch := orchestrator.New(orchestrator.Options{
				Config:     cfg,
				ConfigPath: ctx.loadedConfigPath(),
				Logger:     logger,
			})
			return orch.Run(runCtx)
		},
	}

	cmd.Flags().StringVar(&vaultFlag, "vault", "", "Vault directory (overrides paths.vault)")
	cmd.Flags().IntVar(&intervalFlag, "interval", 0, "Poll interval in seconds (overrides workflow.poll_interval)")
	return cmd
}
