package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"steward/internal/history"
	"steward/internal/textutil"
	"steward/internal/vault"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var vaultFlag string
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent orchestration events from the ledger",
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

			dbPath := filepath.Join(vault.New(root).Path(vault.StageLogs), "history.db")
			if _, err := os.Stat(dbPath); err != nil {
				return fmt.Errorf("no history ledger at %s (has the orchestrator run?)", dbPath)
			}

			store, err := history.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			events, err := store.Recent(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No events recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(events))
			for _, event := range events {
				subject := event.Subject
				if subject == "" {
					subject = event.Detail
				}
				rows = append(rows, []string{
					event.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					textutil.DisplayLabel(string(event.Kind)),
					subject,
					strconv.Itoa(event.Count),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Time", "Event", "Subject", "Count"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&vaultFlag, "vault", "", "Vault directory (overrides paths.vault)")
	cmd.Flags().IntVar(&limitFlag, "limit", 20, "Maximum number of events to show")
	return cmd
}
