package main

import (
	"context"
	"time"

	"pdfinbox/internal/config"
	"pdfinbox/internal/history"
	"pdfinbox/internal/log"
	"pdfinbox/internal/organize"

	"github.com/spf13/cobra"
)

// app carries what the commands share: flags, the loaded config and the
// resources to release on exit.
type app struct {
	cfgFile   string
	managed   string
	unmanaged string
	logFile   string
	debug     bool
	dryRun    bool

	cfg     *config.Config
	store   *history.Store
	closers []func() error
}

func newApp() *app {
	return &app{}
}

// command creates the root command. Run without a subcommand it starts the
// TUI.
func (a *app) command() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pdfinbox",
		Short: "Triage PDFs between a download folder and your library",
		Long: `pdfinbox shows the PDFs of an unmanaged folder (your downloads) next to
those of a managed folder (your library) and moves the ones you want to keep.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is "+config.DefaultPath()+")")
	flags.StringVar(&a.managed, "managed", "", "managed directory")
	flags.StringVar(&a.unmanaged, "unmanaged", "", "unmanaged directory")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to this file")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")
	flags.BoolVarP(&a.dryRun, "dry-run", "n", false, "show what an import would do without moving files")

	rootCmd.AddCommand(a.listCmd())
	rootCmd.AddCommand(a.importCmd())
	rootCmd.AddCommand(a.historyCmd())
	rootCmd.AddCommand(a.watchCmd())
	rootCmd.AddCommand(a.configCmd())

	return rootCmd
}

// setup loads the config, applies flag overrides and starts logging.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.LoadConfigFile(a.cfgFile)
	} else {
		a.cfg, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("managed") {
		a.cfg.Directories.Managed = config.ExpandPath(a.managed)
	}
	if flags.Changed("unmanaged") {
		a.cfg.Directories.Unmanaged = config.ExpandPath(a.unmanaged)
	}
	if flags.Changed("log-file") {
		a.cfg.Log.File = config.ExpandPath(a.logFile)
	}
	if flags.Changed("dry-run") {
		a.cfg.Settings.DryRun = a.dryRun
	}
	if a.debug {
		a.cfg.Log.Debug = true
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.setupLogging()
	log.LogWithFields(
		log.F("managed", a.cfg.Directories.Managed),
		log.F("unmanaged", a.cfg.Directories.Unmanaged),
		log.F("version", version),
	).Debug("configuration loaded")
	return nil
}

// setupLogging points the logger at the log file. The TUI owns the
// terminal, so without a file logs are dropped.
func (a *app) setupLogging() {
	log.SetDebug(a.cfg.Log.Debug)
	if a.cfg.Log.File == "" {
		log.Discard()
		return
	}

	opts := []log.Option{log.WithFile(a.cfg.Log.File)}
	if a.cfg.Log.JSON {
		opts = append(opts, log.WithJSON())
	}
	log.Configure(opts...)
	a.closers = append(a.closers, log.Close)
}

// openHistory opens the import history if it is enabled. A nil store
// means history is off.
func (a *app) openHistory(ctx context.Context) (*history.Store, error) {
	if a.store != nil || !a.cfg.History.Enabled {
		return a.store, nil
	}
	store, err := history.Open(ctx, a.cfg.History.Path)
	if err != nil {
		return nil, err
	}
	a.store = store
	a.closers = append(a.closers, store.Close)
	return store, nil
}

// organizer builds the import engine. Completed imports go to the history
// store when there is one.
func (a *app) organizer(store *history.Store) organize.Organizer {
	org := organize.CurrentOrganizerFactory(a.cfg)
	if store != nil {
		org.SetRecorder(store)
	}
	return org
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.LogWithError(err).Warn("cleanup failed")
		}
	}
	a.closers = nil
	a.store = nil
}

func debounce(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
}
