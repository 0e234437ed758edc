package main

import (
	"fmt"
	"path/filepath"

	"pdfinbox/internal/errors"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (a *app) historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.History.Enabled {
				return errors.NewHistoryError("history is disabled in the configuration", "list", nil)
			}
			store, err := a.openHistory(cmd.Context())
			if err != nil {
				return err
			}

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, mutedText("No imports yet"))
				return nil
			}
			fmt.Fprintln(out, primaryText("Recent imports"))
			for _, e := range entries {
				dest := filepath.Base(e.Destination)
				line := e.Name
				if dest != e.Name {
					line += " -> " + dest
				}
				fmt.Fprintf(out, "  %s  %s  %s\n",
					e.ImportedAt.Local().Format("2006-01-02 15:04"),
					line,
					mutedText(humanize.IBytes(uint64(max(e.Size, 0)))),
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Number of imports to show")
	return cmd
}
