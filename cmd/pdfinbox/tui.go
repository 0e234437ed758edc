package main

import (
	"context"

	"pdfinbox/internal/log"
	"pdfinbox/internal/tui"
	"pdfinbox/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
)

// runTUI starts the interactive inbox. The terminal is restored by the
// program on every exit path.
func (a *app) runTUI(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	store, err := a.openHistory(ctx)
	if err != nil {
		// The inbox works without history.
		log.LogWithError(err).Warn("history disabled")
	}

	opts := []tui.Option{
		tui.WithContext(ctx),
		tui.WithOrganizer(a.organizer(store)),
	}
	if store != nil {
		opts = append(opts, tui.WithHistory(store))
	}

	if a.cfg.Watch.Enabled {
		w, err := a.startWatcher()
		if err != nil {
			log.LogWithError(err).Warn("directory watching disabled")
		} else {
			defer w.Stop()
			opts = append(opts, tui.WithWatcher(w))
		}
	}

	p := tea.NewProgram(
		tui.New(a.cfg, opts...),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err = p.Run()
	return err
}

func (a *app) startWatcher() (*watch.Watcher, error) {
	w, err := watch.New(debounce(a.cfg))
	if err != nil {
		return nil, err
	}

	added := 0
	for _, dir := range []string{a.cfg.Directories.Managed, a.cfg.Directories.Unmanaged} {
		if err := w.AddDirectory(dir); err != nil {
			log.LogWithError(err).Warn("not watching directory")
			continue
		}
		added++
	}
	if added == 0 {
		w.Stop()
		return nil, watch.ErrNothingToWatch
	}

	if err := w.Start(); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}
