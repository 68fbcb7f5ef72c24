// Package search provides the question and results view for the TUI.
package search

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scoperag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/scoperag/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/scoperag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/scoperag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scoperag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scoperag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scoperag/internal/core/domain"
	"github.com/custodia-labs/scoperag/internal/core/ports/driving"
)

// MaxK bounds the number of results the view will request.
const MaxK = 20

// View is the search view: question input, ranked matches and a status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	retrieval driving.RetrievalService
	corpus    driving.CorpusService
	ctx       context.Context

	k          int
	lastQuery  string
	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing a question, false = navigating results
}

// NewView creates a new search view. k <= 0 selects domain.DefaultK.
// corpus may be nil, which disables reload.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	retrieval driving.RetrievalService,
	corpus driving.CorpusService,
	k int,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if k <= 0 {
		k = domain.DefaultK
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s, km),
		retrieval:  retrieval,
		corpus:     corpus,
		ctx:        context.Background(),
		k:          clampK(k),
		width:      80,
		height:     24,
		focusInput: true,
	}
	v.statusbar.SetK(v.k)
	return v
}

// WithContext sets the context used for queries and reloads.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the cursor and fetches index statistics.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadStats())
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.QueryCompleted:
		v.handleQueryCompleted(msg)
		return v, nil

	case messages.ReloadCompleted:
		return v, v.handleReloadCompleted(msg)

	case messages.StatsLoaded:
		v.statusbar.SetStats(msg.Stats)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		return v.handleInputKey(msg)
	}
	return v.handleResultsKey(msg)
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		query := v.input.Value()
		if query == "" {
			return v, nil
		}
		return v, v.submit(query)
	case tea.KeyEsc:
		if !v.list.IsEmpty() {
			v.focusResults()
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(key, v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(key, v.keymap.Expand):
		v.list.ToggleExpanded()
	case keymap.Matches(key, v.keymap.NewQuery), keymap.Matches(key, v.keymap.Back):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	case keymap.Matches(key, v.keymap.Reload):
		return v, v.reload()
	case keymap.Matches(key, v.keymap.MoreResults):
		return v, v.adjustK(1)
	case keymap.Matches(key, v.keymap.FewerResults):
		return v, v.adjustK(-1)
	}
	return v, nil
}

func (v *View) submit(query string) tea.Cmd {
	v.lastQuery = query
	v.err = nil
	v.statusbar.SetState(status.StateQuerying)
	v.focusResults()
	return v.performQuery(query, v.k)
}

func (v *View) focusResults() {
	v.focusInput = false
	v.input.Blur()
}

func (v *View) adjustK(delta int) tea.Cmd {
	k := clampK(v.k + delta)
	if k == v.k {
		return nil
	}
	v.k = k
	v.statusbar.SetK(k)
	if v.lastQuery == "" {
		return nil
	}
	v.statusbar.SetState(status.StateQuerying)
	return v.performQuery(v.lastQuery, k)
}

func clampK(k int) int {
	switch {
	case k < 1:
		return 1
	case k > MaxK:
		return MaxK
	default:
		return k
	}
}

func (v *View) performQuery(query string, k int) tea.Cmd {
	ctx := v.ctx
	retrieval := v.retrieval
	return func() tea.Msg {
		if retrieval == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}
		results, err := retrieval.Query(ctx, query, k)
		return messages.QueryCompleted{Query: query, Results: results, Err: err}
	}
}

func (v *View) reload() tea.Cmd {
	if v.corpus == nil {
		v.statusbar.SetMessage(ErrReloadUnavailable.Error())
		return nil
	}
	v.statusbar.SetState(status.StateReloading)
	ctx := v.ctx
	corpus := v.corpus
	return func() tea.Msg {
		report, err := corpus.Load(ctx)
		return messages.ReloadCompleted{Report: report, Err: err}
	}
}

func (v *View) loadStats() tea.Cmd {
	retrieval := v.retrieval
	if retrieval == nil {
		return nil
	}
	return func() tea.Msg {
		return messages.StatsLoaded{Stats: retrieval.Stats()}
	}
}

func (v *View) handleQueryCompleted(msg messages.QueryCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.list.SetResults(msg.Results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	v.statusbar.SetResultCount(len(msg.Results))
}

func (v *View) handleReloadCompleted(msg messages.ReloadCompleted) tea.Cmd {
	if msg.Err != nil {
		v.setError(msg.Err)
		return nil
	}

	v.err = nil
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage(fmt.Sprintf("reloaded %d entries (%d skipped)", msg.Report.Entries, msg.Report.Skipped))

	cmds := []tea.Cmd{v.loadStats()}
	if v.lastQuery != "" {
		cmds = append(cmds, v.performQuery(v.lastQuery, v.k))
	}
	return tea.Batch(cmds...)
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("Scope Club Q&A"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input and status
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// K returns the number of results requested per query.
func (v *View) K() int {
	return v.k
}

// Query returns the current input value.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the input value.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// LastQuery returns the most recently submitted question.
func (v *View) LastQuery() string {
	return v.lastQuery
}

// Results returns the current results.
func (v *View) Results() []domain.QueryResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// SelectedResult returns the currently selected result.
func (v *View) SelectedResult() *domain.QueryResult {
	return v.list.SelectedResult()
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// StatusMessage returns the status bar message.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// ClearError clears the current error.
func (v *View) ClearError() {
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}

// Reset returns the view to an empty question.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.lastQuery = ""
	v.list.SetResults(nil)
	v.err = nil
	v.statusbar.Clear()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
