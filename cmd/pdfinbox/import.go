package main

import (
	"fmt"

	"pdfinbox/internal/errors"
	"pdfinbox/internal/loader"
	"pdfinbox/pkg/types"

	"github.com/spf13/cobra"
)

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <name>...",
		Short: "Move unmanaged PDFs into the managed directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			records, err := loader.New().Load(ctx, a.cfg.Directories.Unmanaged)
			if err != nil {
				return err
			}
			byName := make(map[string]types.FileRecord, len(records))
			for _, r := range records {
				if !r.Placeholder {
					byName[r.Name] = r
				}
			}

			store, err := a.openHistory(ctx)
			if err != nil {
				return err
			}
			org := a.organizer(store)

			out := cmd.OutOrStdout()
			for _, name := range args {
				rec, ok := byName[name]
				if !ok {
					return errors.NewFileError("no such unmanaged PDF", name, errors.FileNotFound, nil)
				}

				result, err := org.Import(ctx, rec, a.cfg.Directories.Managed)
				if err != nil {
					return errors.Wrapf(err, "import %s", name)
				}

				switch {
				case result.Skipped:
					fmt.Fprintln(out, mutedText(fmt.Sprintf("Skipped %s: %s exists", name, result.DestinationPath)))
				case result.DryRun:
					fmt.Fprintf(out, "Would move %s -> %s\n", result.SourcePath, result.DestinationPath)
				default:
					fmt.Fprintln(out, successText(fmt.Sprintf("Imported %s -> %s", name, result.DestinationPath)))
				}
			}
			return nil
		},
	}
}
