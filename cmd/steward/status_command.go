package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"steward/internal/textutil"
	"steward/internal/vault"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var vaultFlag string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show vault stage counts and orchestrator state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root := cfg.Paths.Vault
			if strings.TrimSpace(vaultFlag) != "" {
				root = vaultFlag
			}
			if strings.TrimSpace(root) == "" {
				return errors.New("no vault configured: pass --vault or set paths.vault in the config")
			}

			v := vault.New(root)
			if err := v.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Vault: %s\n", v.Root())
			fmt.Fprintf(out, "Orchestrator: %s\n\n", orchestratorState(v))

			rows := make([][]string, 0, len(vault.Stages()))
			for _, stage := range vault.Stages() {
				if stage == vault.StageLogs {
					continue
				}
				files, err := v.Scan(stage)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					textutil.DisplayLabel(string(stage)),
					strconv.Itoa(len(files)),
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Stage", "Records"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&vaultFlag, "vault", "", "Vault directory (overrides paths.vault)")
	return cmd
}

// orchestratorState reports whether an orchestrator holds this vault, based
// on its pid file. A stale pid file from a crashed run reads as stopped.
func orchestratorState(v *vault.Vault) string {
	data, err := os.ReadFile(filepath.Join(v.Path(vault.StageLogs), "steward.pid"))
	if err != nil {
		return "stopped"
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return "stopped"
	}
	if err := syscall.Kill(pid, 0); err != nil {
		return "stopped (stale pid file)"
	}
	return fmt.Sprintf("running (pid %d)", pid)
}
