// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/scoperag/internal/core/domain"
)

// QueryCompleted carries query results back to the model.
type QueryCompleted struct {
	Query   string
	Results []domain.QueryResult
	Err     error
}

// ReloadCompleted reports a corpus reload.
type ReloadCompleted struct {
	Report domain.LoadReport
	Err    error
}

// StatsLoaded carries the current index statistics.
type StatsLoaded struct {
	Stats domain.IndexStats
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the query input and results view.
	ViewSearch ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
