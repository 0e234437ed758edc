package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"pdfinbox/internal/loader"
	"pdfinbox/internal/watch"

	"github.com/spf13/cobra"
)

func (a *app) watchCmd() *cobra.Command {
	var autoImport bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Report changes in the inbox without the TUI",
		Long: `Watch the managed and unmanaged directories and print every change.
With --import, PDFs that appear in the unmanaged directory are imported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := a.openHistory(ctx)
			if err != nil {
				return err
			}

			w, err := watch.New(debounce(a.cfg))
			if err != nil {
				return err
			}
			d := watch.NewDaemon(w, a.cfg.Directories.Managed, a.cfg.Directories.Unmanaged, loader.New(), a.organizer(store))
			d.SetAutoImport(autoImport)

			out := cmd.OutOrStdout()
			d.SetCallback(func(e watch.Event) {
				switch {
				case e.Err != nil:
					fmt.Fprintln(out, errorText(fmt.Sprintf("%s: %v", e.Change.Dir, e.Err)))
				case e.Result != nil && e.Result.Moved:
					fmt.Fprintln(out, successText(fmt.Sprintf("Imported %s -> %s", e.Result.Record.Name, e.Result.DestinationPath)))
				case e.Result != nil:
					fmt.Fprintf(out, "Would move %s -> %s\n", e.Result.SourcePath, e.Result.DestinationPath)
				default:
					fmt.Fprintf(out, "%s %s %s\n",
						mutedText(e.Change.Time.Format("15:04:05")),
						e.Change.Dir,
						strings.Join(e.Change.Names, ", "))
				}
			})

			fmt.Fprintln(out, primaryText("Watching inbox, press Ctrl+C to stop"))
			return d.Run(ctx)
		},
	}

	cmd.Flags().BoolVarP(&autoImport, "import", "i", false, "Import new unmanaged PDFs automatically")
	return cmd
}
