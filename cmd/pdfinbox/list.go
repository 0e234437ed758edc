package main

import (
	"encoding/json"
	"fmt"
	"io"

	"pdfinbox/internal/loader"
	"pdfinbox/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the managed and unmanaged PDFs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := loader.New()
			ctx := cmd.Context()

			managed, err := l.Load(ctx, a.cfg.Directories.Managed)
			if err != nil {
				return err
			}
			unmanaged, err := l.Load(ctx, a.cfg.Directories.Unmanaged)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string][]types.FileRecord{
					"managed":   nonNil(managed),
					"unmanaged": nonNil(unmanaged),
				})
			}

			printRecords(out, "Managed", a.cfg.Directories.Managed, managed)
			fmt.Fprintln(out)
			printRecords(out, "Unmanaged", a.cfg.Directories.Unmanaged, unmanaged)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	return cmd
}

func printRecords(w io.Writer, title, dir string, records []types.FileRecord) {
	fmt.Fprintf(w, "%s %s\n", primaryText(title), mutedText(dir))
	if len(records) == 0 {
		fmt.Fprintln(w, mutedText("  No PDF files"))
		return
	}

	width := 0
	for _, r := range records {
		width = max(width, len(r.Label()))
	}
	for _, r := range records {
		fmt.Fprintf(w, "  %-*s  %9s  %s\n", width, r.Label(), humanize.IBytes(uint64(max(r.Size, 0))), humanize.Time(r.ModTime))
	}
}

func nonNil(records []types.FileRecord) []types.FileRecord {
	if records == nil {
		return []types.FileRecord{}
	}
	return records
}
