package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"steward/internal/vault"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [VAULT]",
		Short: "Create the vault stage folders",
		Long: "Creates the vault directory and every stage folder. Safe to run on\n" +
			"an existing vault; nothing is overwritten.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := ""
			if len(args) == 1 {
				root = args[0]
			} else {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				root = cfg.Paths.Vault
			}
			if strings.TrimSpace(root) == "" {
				return errors.New("no vault given: pass a path or set paths.vault in the config")
			}

			v := vault.New(root)
			if err := v.EnsureLayout(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Vault ready at %s\n", v.Root())
			for _, stage := range vault.Stages() {
				fmt.Fprintf(out, "  %s/\n", stage)
			}
			return nil
		},
	}
	return cmd
}
