// Package messages defines the tea.Msg values exchanged between the root
// model, its panes and the background commands.
package messages

import (
	"pdfinbox/internal/history"
	"pdfinbox/internal/watch"
	"pdfinbox/pkg/types"
)

// ScanResultMsg carries the outcome of one directory scan. Gen identifies
// the scan so that results of superseded scans can be dropped.
type ScanResultMsg struct {
	Pane    types.Focus
	Gen     uint64
	Records []types.FileRecord
	Err     error
}

// ReloadRequestMsg asks for both lists to be rescanned.
type ReloadRequestMsg struct{}

// ImportRequestMsg asks for Record to be moved into the managed directory.
type ImportRequestMsg struct {
	Record types.FileRecord
}

// ImportDoneMsg reports the end of an import.
type ImportDoneMsg struct {
	Result types.ImportResult
	Err    error
}

// DirChangedMsg is sent when the watcher sees PDFs change in a directory.
type DirChangedMsg struct {
	Change watch.Change
}

// WatcherClosedMsg is sent once the watcher's change channel is closed.
type WatcherClosedMsg struct{}

// HistoryMsg carries the import history of a managed file.
type HistoryMsg struct {
	Name  string
	Entry history.Entry
	Found bool
	Err   error
}

// NoticeMsg shows a transient line in the status bar.
type NoticeMsg struct {
	Text    string
	IsError bool
}

// ClearNoticeMsg clears notice ID if it is still the one shown.
type ClearNoticeMsg struct {
	ID int
}

// ErrorMsg reports a failure that has no better home than the status bar.
type ErrorMsg struct {
	Err error
}
